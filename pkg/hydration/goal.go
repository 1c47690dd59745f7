package hydration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

func (h *Hydration) progressOf(ctx context.Context, user *models.User) (*models.GoalProgress, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryNotification),
	)

	records, err := h.queryConsumption(ctx, user.SensorID, startOfDay(h.now()), h.now().Add(time.Nanosecond))
	if err != nil {
		return nil, err
	}

	progress := models.GoalProgress{
		UserID:   user.ID,
		SensorID: user.SensorID,
		Goal:     user.DailyGoal,
		Total:    SumDeltas(records),
	}
	if user.DailyGoal != nil && progress.Total >= float64(*user.DailyGoal) {
		progress.Reached = true
		logger.Info("Daily goal reached", zap.Reflect("progress", progress))
	}

	return &progress, nil
}

func (h *Hydration) progress(ctx context.Context, userID uint) (*models.GoalProgress, error) {
	var user models.User
	err := h.Db.WithContext(ctx).Select("id", "sensor_id", "daily_goal").Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load goal of user %d: %w", ErrPersistence, userID, err)
	}
	return h.progressOf(ctx, &user)
}

func (h *Hydration) progressForDevice(ctx context.Context, deviceID string) (*models.GoalProgress, error) {
	var user models.User
	err := h.Db.WithContext(ctx).
		Select("id", "sensor_id", "daily_goal").
		Where("sensor_id = ?", deviceID).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load goal of device %s: %w", ErrPersistence, deviceID, err)
	}
	return h.progressOf(ctx, &user)
}

type IGoalImpl struct {
	hydration *Hydration
}

func (ig *IGoalImpl) Progress(ctx context.Context, userID uint) (*models.GoalProgress, error) {
	return ig.hydration.progress(ctx, userID)
}

func (ig *IGoalImpl) ProgressForDevice(ctx context.Context, deviceID string) (*models.GoalProgress, error) {
	return ig.hydration.progressForDevice(ctx, deviceID)
}

func (h *Hydration) GetIGoal() IGoal {
	return &IGoalImpl{hydration: h}
}
