package api

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/session"
)

// HealthServer publishes service and per-session availability over the
// standard gRPC health protocol.
type HealthServer struct {
	port   int
	server *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// NewHealthServer creates a gRPC health server. The overall service ("")
// reports SERVING until Stop.
func NewHealthServer(port int) *HealthServer {
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{
		port:   port,
		server: gs,
		health: hs,
		log:    slog.Default().With("component", "grpc-health"),
	}
}

// ServiceName is the health service name of a session.
func ServiceName(sessionID string) string {
	return "session/" + sessionID
}

// Health returns the underlying health service.
func (h *HealthServer) Health() healthpb.HealthServer {
	return h.health
}

// SessionChanged updates the status of a session after a state change.
// Only available sessions report SERVING.
func (h *HealthServer) SessionChanged(sessionID string, t session.Transition) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	switch t.To {
	case domain.SessionStateAvailable:
		status = healthpb.HealthCheckResponse_SERVING
	case domain.SessionStateChecking, domain.SessionStateResolving:
		// keep the previous status while a pass runs
		return
	}
	h.health.SetServingStatus(ServiceName(sessionID), status)
}

// Start listens and serves until Stop.
func (h *HealthServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", h.port))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	h.log.Info("gRPC health listening", "addr", lis.Addr().String())
	return h.server.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains connections.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
