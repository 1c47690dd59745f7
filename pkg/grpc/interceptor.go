package grpc

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"liyu1981.xyz/water-intake-service/pkg/common"
)

// CreateRateLimitInterceptor limits requests of the given types per user id.
func (s *HydrationServer) CreateRateLimitInterceptor(targetReqTypes []any) grpc.UnaryServerInterceptor {
	targetTypeMap := common.Reducer(targetReqTypes,
		func(m map[reflect.Type]bool, t any) map[reflect.Type]bool {
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
			if r, ok := req.(interface{ GetUserId() int64 }); ok {
				userID := r.GetUserId()
				if !s.CheckUserLimiter(userID) {
					common.GetLoggerWith(
						common.LoggerNameGrpcServer,
						zap.String(common.LoggerFieldCategory, common.LoggerCategoryLimiter),
					).Warn("Rate limited request", zap.String("method", info.FullMethod), zap.Int64("user_id", userID))
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}
