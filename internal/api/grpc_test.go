package api

import (
	"context"
	"testing"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/session"
)

func checkStatus(t *testing.T, h *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.Health().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q) failed: %v", service, err)
	}
	return resp.GetStatus()
}

func TestHealthServer_SessionStatus(t *testing.T) {
	h := NewHealthServer(0)

	if s := checkStatus(t, h, ""); s != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected overall SERVING, got %s", s)
	}

	h.SessionChanged("s1", session.NewTransition(domain.SessionStateChecking, domain.SessionStateAvailable, ""))
	if s := checkStatus(t, h, ServiceName("s1")); s != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING, got %s", s)
	}

	// running pass keeps the last status
	h.SessionChanged("s1", session.NewTransition(domain.SessionStateAvailable, domain.SessionStateResolving, ""))
	if s := checkStatus(t, h, ServiceName("s1")); s != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("expected SERVING during pass, got %s", s)
	}

	h.SessionChanged("s1", session.NewTransition(domain.SessionStateResolving, domain.SessionStateUnavailable, ""))
	if s := checkStatus(t, h, ServiceName("s1")); s != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("expected NOT_SERVING, got %s", s)
	}
}
