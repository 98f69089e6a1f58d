package grpc

import (
	"context"
	"net"

	"github.com/alfagnish/userbook/internal/users"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the health-check service name reported alongside the
// empty (whole server) name.
const ServiceName = "userbook.Users"

// HealthServer answers grpc.health.v1 checks by loading the user store.
// Watch and List are left unimplemented.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer

	svc *users.Service
	log *zap.Logger
}

// NewHealthServer creates a HealthServer backed by svc.
func NewHealthServer(svc *users.Service, log *zap.Logger) *HealthServer {
	return &HealthServer{svc: svc, log: log}
}

// Check reports SERVING when the store can be read.
func (h *HealthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", ServiceName:
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}

	if _, err := h.svc.GetAllUsers(ctx); err != nil {
		h.log.Warn("grpc health check failed", zap.Error(err))
		return &grpc_health_v1.HealthCheckResponse{
			Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING,
		}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	}, nil
}

// Server wraps a grpc.Server exposing only the health service.
type Server struct {
	srv *grpc.Server
}

// NewServer creates a gRPC server with the health service registered.
func NewServer(svc *users.Service, log *zap.Logger) *Server {
	srv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, NewHealthServer(svc, log))
	return &Server{srv: srv}
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop drains in-flight RPCs, forcing a hard stop if ctx expires first.
func (s *Server) Stop(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
		<-done
	}
}
