package handler

import (
	"context"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Readiness reports when the storefront has finished loading its catalog.
type Readiness interface {
	Ready() <-chan struct{}
}

// GRPCHandler serves grpc.health.v1.Health. The storefront is NOT_SERVING until
// its catalog load completes, whether or not the load succeeded.
type GRPCHandler struct {
	healthpb.UnimplementedHealthServer
	readiness Readiness
}

func NewGRPCHandler(readiness Readiness) *GRPCHandler {
	return &GRPCHandler{readiness: readiness}
}

func (h *GRPCHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h)
}

func (h *GRPCHandler) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	select {
	case <-h.readiness.Ready():
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
	default:
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
}
