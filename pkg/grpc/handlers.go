package grpc

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"liyu1981.xyz/water-intake-service/pkg/common"
	pb "liyu1981.xyz/water-intake-service/pkg/grpc/hydration_service"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

func validateUserID(userID *int64) error {
	var userIdValidator = z.Int64().GT(0).Required()
	if issues := userIdValidator.Validate(userID); issues != nil {
		return status.Errorf(codes.InvalidArgument, "validation error: user_id %v", issues)
	}
	return nil
}

func toInt64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	return common.Ptr(int64(*v))
}

func toPbUser(u *models.User) *pb.User {
	return &pb.User{
		Id:                uint64(u.ID),
		Name:              u.Name,
		SensorId:          u.SensorID,
		DailyGoal:         toInt64Ptr(u.DailyGoal),
		WakeupTime:        u.WakeupTime,
		SleepTime:         u.SleepTime,
		BottleWeight:      toInt64Ptr(u.BottleWeight),
		CurrentWaterLevel: u.CurrentWaterLevel,
		IsBottleOnDock:    u.IsBottleOnDock,
	}
}

func (s *HydrationServer) GetUser(ctx context.Context, req *pb.UserRequest) (*pb.GetUserResponse, error) {
	if err := validateUserID(&req.UserId); err != nil {
		return nil, err
	}

	user, err := s.Hydration.Profile.GetUser(ctx, uint(req.UserId))
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.GetUserResponse{
		Status: &pb.StatusResponse{Success: true, Message: "OK"},
		User:   toPbUser(user),
	}, nil
}

func (s *HydrationServer) GetIntake(ctx context.Context, req *pb.GetIntakeRequest) (*pb.GetIntakeResponse, error) {
	if err := validateUserID(&req.UserId); err != nil {
		return nil, err
	}

	var rangeValidator = z.String().OneOf([]string{pb.RangeToday, pb.RangeWeek}).Required()
	if issues := rangeValidator.Validate(&req.Range); issues != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: range %v", issues)
	}

	var (
		records []models.ConsumptionRecord
		err     error
	)
	switch req.Range {
	case pb.RangeToday:
		records, err = s.Hydration.Intake.Today(ctx, uint(req.UserId))
	case pb.RangeWeek:
		records, err = s.Hydration.Intake.Week(ctx, uint(req.UserId))
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.GetIntakeResponse{
		Status: &pb.StatusResponse{Success: true, Message: "OK"},
		Records: common.Mapper(records, func(r models.ConsumptionRecord) *pb.IntakeRecord {
			return &pb.IntakeRecord{Timestamp: r.Timestamp, Data: r.Delta}
		}),
		Total: hydration.SumDeltas(records),
	}, nil
}

func (s *HydrationServer) UpdateProfile(ctx context.Context, req *pb.UpdateProfileRequest) (*pb.UpdateProfileResponse, error) {
	if err := validateUserID(&req.UserId); err != nil {
		return nil, err
	}

	field, err := hydration.ParseProfileField(req.Field)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.Hydration.Profile.UpdateField(ctx, uint(req.UserId), field, req.Value); err != nil {
		return nil, toStatus(err)
	}

	common.GetLoggerWith(
		common.LoggerNameGrpcServer,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProfile),
	).Info("Updated profile over grpc", zap.Int64("user_id", req.UserId), zap.String("field", req.Field))

	return &pb.UpdateProfileResponse{Status: &pb.StatusResponse{Success: true, Message: "OK"}}, nil
}

func (s *HydrationServer) PostLimiter(ctx context.Context, req *pb.PostLimiterRequest) (*pb.PostLimiterResponse, error) {
	if err := validateUserID(&req.UserId); err != nil {
		return nil, err
	}

	var rateValidator = z.Float64().Required()
	if err := rateValidator.Validate(&req.UserRate); err != nil {
		return &pb.PostLimiterResponse{Status: &pb.StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}

	var burstValidator = z.Int32().Required()
	if err := burstValidator.Validate(&req.UserBurst); err != nil {
		return &pb.PostLimiterResponse{Status: &pb.StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}

	if s.RateLimiterStore == nil {
		return &pb.PostLimiterResponse{
			Status: &pb.StatusResponse{
				Success: false,
				Message: "RateLimiterStore is not used. No effect.",
			},
		}, nil
	}

	s.RateLimiterStore.SetLimiter(limiterKey(req.UserId), rate.Limit(req.UserRate), int(req.UserBurst))
	return &pb.PostLimiterResponse{Status: &pb.StatusResponse{Success: true, Message: "OK"}}, nil
}
