package hydration

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// DeltaPrecision is the number of decimals kept for stored and queried consumption.
const DeltaPrecision = 2

// RoundDelta rounds the exact binary value of v to DeltaPrecision decimals,
// ties to even. 2.675 is stored as 2.67499.. and gives 2.67, 0.125 gives 0.12.
func RoundDelta(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', DeltaPrecision, 64), 64)
	if err != nil || rounded == 0 {
		// NaN and Inf never reach here, -0 is stored as 0
		return 0
	}
	return rounded
}

// ComputeDelta is the grams measured above the empty bottle. Negative and zero
// results are kept as they are, they come from refills and scale noise.
func ComputeDelta(rawWeight float64, tareWeight int) float64 {
	return RoundDelta(rawWeight - float64(tareWeight))
}

func (h *Hydration) recordWeight(ctx context.Context, deviceID string, rawWeight float64, receivedAt time.Time) (*models.ConsumptionRecord, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryConsumption),
	)

	if h.Registry == nil {
		return nil, fmt.Errorf("registry service not available")
	}

	tare, err := h.Registry.ResolveTare(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	record := models.ConsumptionRecord{
		SensorID:  deviceID,
		Timestamp: receivedAt.UTC(),
		Delta:     ComputeDelta(rawWeight, tare),
	}

	logger.Info("Received weight for device",
		zap.String("device_id", deviceID),
		zap.Float64("raw_weight", rawWeight),
		zap.Int("tare_weight", tare),
	)

	err = h.Db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("sensor_id = ?", deviceID).
			Update("current_water_level", record.Delta).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: append consumption record for %s: %w", ErrPersistence, deviceID, err)
	}

	logger.Info("Stored consumption for device", zap.Reflect("record", record))

	return &record, nil
}

type IAccountantImpl struct {
	hydration *Hydration
}

func (ia *IAccountantImpl) RecordWeight(ctx context.Context, deviceID string, rawWeight float64, receivedAt time.Time) (*models.ConsumptionRecord, error) {
	return ia.hydration.recordWeight(ctx, deviceID, rawWeight, receivedAt)
}

func (h *Hydration) GetIAccountant() IAccountant {
	return &IAccountantImpl{hydration: h}
}
