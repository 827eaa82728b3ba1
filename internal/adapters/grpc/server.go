package grpc

import (
	"context"

	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/worklane/escrow-engine/internal/application"
)

type EscrowInternalServer struct {
	grpc_health_v1.UnimplementedHealthServer
	service *application.Service
}

func NewEscrowInternalServer(service *application.Service) *EscrowInternalServer {
	return &EscrowInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc *EscrowInternalServer) {
	grpc_health_v1.RegisterHealthServer(server, svc)
}

func (s *EscrowInternalServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	_ = s.service
	_ = ctx
	_ = req
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

func (s *EscrowInternalServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	_ = req
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING})
}
