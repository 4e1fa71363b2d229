package control

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/availability/internal/core/config"
	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/probe"
)

func testConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.Server.Port = 0 // Random port
	cfg.Server.GRPCPort = 0
	return cfg
}

func TestApp_Lifecycle(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context timeout")
	}

	// Second stop is a no-op
	if err := app.Stop(context.Background()); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

func TestApp_PermissionRequired(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.Stop(context.Background())

	sess, err := app.Sessions().Create(nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	report, err := sess.CheckAvailability(context.Background())
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if len(report.Remaining) != 1 || report.Remaining[0].Kind != domain.FailureKindPermissionDenied {
		t.Errorf("expected permission_denied only, got %v", domain.Kinds(report.Remaining))
	}
}

func TestApp_PreGrantedAndSettings(t *testing.T) {
	cfg := testConfig()
	cfg.Permissions.Granted = cfg.Permissions.Required
	cfg.Settings[probe.SettingServicesAvailable] = false
	cfg.Settings[probe.SettingServicesUpdatable] = false
	cfg.Settings[probe.SettingLocationEnabled] = false

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.Stop(context.Background())

	sess, _ := app.Sessions().Create(nil)
	report, err := sess.CheckAvailability(context.Background())
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}

	kinds := domain.Kinds(report.Remaining)
	if len(kinds) != 2 ||
		kinds[0] != domain.FailureKindServiceUnavailable ||
		kinds[1] != domain.FailureKindResolvableAPI {
		t.Fatalf("unexpected failures: %v", kinds)
	}
	if report.Remaining[0].Resolvable {
		t.Error("services should not be resolvable when no update exists")
	}
	if !report.Remaining[1].Resolvable {
		t.Error("location setting should be resolvable")
	}
}

func TestApp_PrunerWiredWithRetention(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Retention = time.Hour

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.Stop(context.Background())

	if app.pruner == nil {
		t.Error("expected pruner for memory history with retention")
	}
}
