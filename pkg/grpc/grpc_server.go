package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/vigilant/pkg/fleet"
)

type HeartbeatServer struct {
	Fleet      *fleet.Fleet
	Authorizer fleet.Authorizer
	// RateLimiterStore is optional; nil disables per-rig rate limiting.
	RateLimiterStore *fleet.RateLimiterStore
}

func (s *HeartbeatServer) CheckRigLimiter(rigID string) bool {
	return s.RateLimiterStore.Allow(rigID)
}

// NewServer builds a grpc.Server with the heartbeat and health services
// registered and the interceptor chain installed.
func NewServer(hs *HeartbeatServer, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	chain := grpc.ChainUnaryInterceptor(
		MetricsInterceptor,
		RecoveryInterceptor,
		hs.CreateAuthInterceptor([]string{SubmitHeartbeatFullMethod}),
		hs.CreateRateLimitInterceptor([]proto.Message{&structpb.Struct{}}),
	)

	s := grpc.NewServer(append([]grpc.ServerOption{chain}, opts...)...)
	RegisterHeartbeatServiceServer(s, hs)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(HeartbeatServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	return s, healthServer
}
