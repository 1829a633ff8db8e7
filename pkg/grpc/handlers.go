package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/fleet"
	"liyu1981.xyz/vigilant/pkg/metrics"
	"liyu1981.xyz/vigilant/pkg/models"
)

var rigIDValidator = z.String().Min(1).Required()

func validateRigID(rigID *string) z.ZogIssueList {
	return rigIDValidator.Validate(rigID)
}

func (s *HeartbeatServer) SubmitHeartbeat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ack, err := s.Fleet.Ingestor.Ingest(ctx, models.Report(req.AsMap()))
	if err != nil {
		if fleet.IsClientError(err) {
			metrics.CountHeartbeat("grpc", metrics.OutcomeRejected)
		} else {
			metrics.CountHeartbeat("grpc", metrics.OutcomeFailed)
		}
		return nil, toStatus(err)
	}

	metrics.CountHeartbeat("grpc", metrics.OutcomeStored)
	return structpb.NewStruct(map[string]any{
		"status":    "success",
		"rig_id":    ack.RigID,
		"timestamp": ack.Timestamp,
	})
}

func (s *HeartbeatServer) ListRigs(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	rigs, err := s.Fleet.Query.ListRigs(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(map[string]any{
		"count": len(rigs),
		"rigs":  rigs,
	})
}

func (s *HeartbeatServer) GetRig(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	rigID := req.GetValue()
	if issues := validateRigID(&rigID); issues != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: rig_id can not be empty")
	}

	detail, err := s.Fleet.Query.GetRig(ctx, rigID)
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(detail)
}

// toStruct converts a JSON-serializable value into a Struct, so gRPC callers
// see the same field names as HTTP callers.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, fleet.ErrInvalidAPIKey):
		return status.Error(codes.Unauthenticated, "Invalid API key")
	case errors.Is(err, fleet.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "Invalid authorization")
	case errors.Is(err, fleet.ErrMissingRigID):
		return status.Error(codes.InvalidArgument, "Missing rig_id")
	case errors.Is(err, fleet.ErrInvalidTimestamp), errors.Is(err, fleet.ErrInvalidCursor):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, fleet.ErrRigNotFound):
		return status.Error(codes.NotFound, "Rig not found")
	case errors.Is(err, fleet.ErrStorageUnavailable):
		common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Storage failure", zap.Error(err))
		return status.Error(codes.Unavailable, "Storage unavailable")
	default:
		common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Request failed", zap.Error(err))
		return status.Error(codes.Internal, fmt.Sprintf("internal error: %v", err))
	}
}
