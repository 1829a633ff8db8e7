package grpc

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/metrics"
	"liyu1981.xyz/vigilant/pkg/models"
)

func MetricsInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	resp, err := handler(ctx, req)
	metrics.RpcCounter.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}

func RecoveryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Recovered from panic",
				zap.String("method", info.FullMethod),
				zap.Any("panic", r),
			)
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// CreateAuthInterceptor requires a valid bearer key in the "authorization"
// metadata entry for the given full method names.
func (s *HeartbeatServer) CreateAuthInterceptor(methods []string) grpc.UnaryServerInterceptor {
	protected := common.Reducer(methods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if protected[info.FullMethod] {
			var authorization string
			if md, ok := metadata.FromIncomingContext(ctx); ok {
				if values := md.Get("authorization"); len(values) > 0 {
					authorization = values[0]
				}
			}
			if err := s.Authorizer.Check(authorization); err != nil {
				if info.FullMethod == SubmitHeartbeatFullMethod {
					metrics.CountHeartbeat("grpc", metrics.OutcomeUnauthorized)
				}
				return nil, toStatus(err)
			}
		}

		return handler(ctx, req)
	}
}

func (s *HeartbeatServer) CreateRateLimitInterceptor(targetReqTypes []proto.Message) grpc.UnaryServerInterceptor {
	targetTypeMap := common.Reducer(targetReqTypes,
		func(m map[reflect.Type]bool, t proto.Message) map[reflect.Type]bool {
			m[reflect.TypeOf(t)] = true
			return m
		},
		map[reflect.Type]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetTypeMap[reflect.TypeOf(req)]; ok {
			if rigID, ok := rigIDOf(req); ok && !s.CheckRigLimiter(rigID) {
				metrics.CountHeartbeat("grpc", metrics.OutcomeRateLimited)
				return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
			}
		}

		return handler(ctx, req)
	}
}

func rigIDOf(req any) (string, bool) {
	r, ok := req.(*structpb.Struct)
	if !ok {
		return "", false
	}
	v, ok := r.GetFields()[models.ReportKeyRigID]
	if !ok {
		return "", false
	}
	rigID := v.GetStringValue()
	return rigID, rigID != ""
}
