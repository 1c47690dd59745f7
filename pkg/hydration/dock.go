package hydration

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// applyDockStatus writes the dock flag in place. Writing the same value again
// is not an error.
func (h *Hydration) applyDockStatus(ctx context.Context, deviceID string, isPickedUp bool) error {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDock),
	)

	onDock := !isPickedUp

	logger.Info("Received dock status for device",
		zap.String("device_id", deviceID),
		zap.Bool("is_picked_up", isPickedUp),
	)

	notFound := false
	err := h.Db.Transaction(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("sensor_id = ?", deviceID).
			Update("is_bottle_on_dock", onDock)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		// some drivers only count changed rows, so an unchanged flag looks like a miss
		var count int64
		if err := tx.Model(&models.User{}).Where("sensor_id = ?", deviceID).Count(&count).Error; err != nil {
			return err
		}
		notFound = count == 0
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: update dock status for %s: %w", ErrPersistence, deviceID, err)
	}
	if notFound {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	logger.Info("Updated dock status for device",
		zap.String("device_id", deviceID),
		zap.Bool("is_bottle_on_dock", onDock),
	)

	return nil
}

type IDockTrackerImpl struct {
	hydration *Hydration
}

func (id *IDockTrackerImpl) ApplyDockStatus(ctx context.Context, deviceID string, isPickedUp bool) error {
	return id.hydration.applyDockStatus(ctx, deviceID, isPickedUp)
}

func (h *Hydration) GetIDockTracker() IDockTracker {
	return &IDockTrackerImpl{hydration: h}
}
