package grpc

import (
	"errors"
	"strconv"

	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	pb "liyu1981.xyz/water-intake-service/pkg/grpc/hydration_service"

	"liyu1981.xyz/water-intake-service/pkg/hydration"
)

type HydrationServer struct {
	Hydration        *hydration.Hydration
	RateLimiterStore *hydration.RateLimiterStore
	pb.UnimplementedHydrationServiceServer
}

func limiterKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *HydrationServer) GetLimiter(userID int64) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(limiterKey(userID))
	}
}

func (s *HydrationServer) CheckUserLimiter(userID int64) bool {
	limiter := s.GetLimiter(userID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, hydration.ErrUserNotFound), errors.Is(err, hydration.ErrDeviceNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, hydration.ErrUnknownField), errors.Is(err, hydration.ErrInvalidFieldValue):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, hydration.ErrDuplicateDevice):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
