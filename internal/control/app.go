package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/vietddude/availability/internal/api"
	"github.com/vietddude/availability/internal/core/config"
	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/core/worker"
	"github.com/vietddude/availability/internal/flow"
	"github.com/vietddude/availability/internal/interaction"
	"github.com/vietddude/availability/internal/permission"
	"github.com/vietddude/availability/internal/probe"
	"github.com/vietddude/availability/internal/recovery"
	"github.com/vietddude/availability/internal/resolution"
	"github.com/vietddude/availability/internal/resolution/strategy"
	"github.com/vietddude/availability/internal/session"
	"github.com/vietddude/availability/internal/storage"
)

// App wires the availability service and manages its lifecycle.
type App struct {
	cfg        *config.AppConfig
	backends   *backends
	board      *interaction.Board
	perms      *permission.Manager
	launcher   *flow.Launcher
	settings   *probe.Settings
	sessions   *session.Manager
	apiServer  *api.Server
	grpcServer *api.HealthServer
	pruner     *worker.Pruner
	log        *slog.Logger

	stopOnce sync.Once
	stopErr  error
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	// 1. Initialize Storage
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Initialize Collaborators
	board := interaction.NewBoard()
	perms := permission.NewManager(b.grants, board)
	launcher := flow.NewLauncher(board)
	settings := probe.NewSettings(cfg.Settings)

	req := permission.Request{
		Code:        cfg.Permissions.Code,
		Permissions: cfg.Permissions.Required,
		Rationale:   cfg.Permissions.Rationale,
	}

	// 3. Probe: permissions first, then settings in the order a user fixes them
	availability := probe.NewCheckProbe(
		probe.PermissionCheck(perms, req),
		servicesCheck(settings),
		probe.SettingCheck(settings, probe.SettingLocationEnabled, domain.FailureKindResolvableAPI, true),
	)

	catalog := func() map[domain.FailureKind]resolution.Strategy {
		return strategy.NewCatalog(strategy.Deps{
			Permissions:        perms,
			PermissionCode:     req.Code,
			DefaultPermissions: req.Permissions,
			Rationale:          req.Rationale,
			Launcher:           launcher,
			Applier:            settings,
		})
	}

	// 4. Sessions and transports
	sessions := session.NewManager(availability, resolution.NewResolver(), catalog, b.passes)
	grpcServer := api.NewHealthServer(cfg.Server.GRPCPort)
	sessions.SetStateChangeCallback(grpcServer.SessionChanged)

	retrier := recovery.NewRetrier(&recovery.ExponentialBackoff{
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
		MaxAttempts:  cfg.Retry.MaxAttempts,
		Classifier:   recovery.DefaultClassifier,
	})

	checkers := make(map[string]api.HealthChecker)
	if b.db != nil {
		checkers["postgres"] = b.db
	}
	if b.redis != nil {
		checkers["redis"] = b.redis
	}

	apiServer := api.NewServer(api.Deps{
		Sessions:    sessions,
		Board:       board,
		Permissions: perms,
		Flows:       launcher,
		Passes:      b.passes,
		Retrier:     retrier,
		Checkers:    checkers,
	}, cfg.Server.Port)

	var pruner *worker.Pruner
	if p, ok := b.passes.(storage.PassPruner); ok && cfg.Session.Retention > 0 {
		pruner = worker.NewPruner(cfg.Session.Retention, p)
	}

	return &App{
		cfg:        cfg,
		backends:   b,
		board:      board,
		perms:      perms,
		launcher:   launcher,
		settings:   settings,
		sessions:   sessions,
		apiServer:  apiServer,
		grpcServer: grpcServer,
		pruner:     pruner,
		log:        slog.Default(),
	}, nil
}

// servicesCheck reports missing platform services. They are only resolvable
// when an update can be installed.
func servicesCheck(settings *probe.Settings) probe.Check {
	return probe.CheckFunc(func(ctx context.Context) (*domain.Failure, error) {
		if settings.Enabled(probe.SettingServicesAvailable) {
			return nil, nil
		}
		f := domain.NewFailure(domain.FailureKindServiceUnavailable, "platform services missing or outdated")
		f.Setting = probe.SettingServicesAvailable
		f.Resolvable = settings.Enabled(probe.SettingServicesUpdatable)
		return &f, nil
	})
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Run serves until ctx is done or a server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	// Start DB Metrics Collector
	if a.backends.db != nil {
		a.backends.db.StartMetricsCollector(gctx)
	}

	// Start Pruner
	if a.pruner != nil {
		g.Go(func() error {
			a.pruner.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.grpcServer.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop closes sessions, servers and storage. It is safe to call more than once.
func (a *App) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.log.Info("Stopping availability service...")

		a.sessions.CloseAll()
		a.grpcServer.Stop()
		a.stopErr = a.apiServer.Stop(ctx)
		a.backends.close()
	})
	return a.stopErr
}
