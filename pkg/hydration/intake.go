package hydration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// WeekWindow is how far back the weekly view reaches from the start of today.
const WeekWindow = 7 * 24 * time.Hour

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// queryConsumption returns the records of a device in [from, to) in the order
// they were appended.
func (h *Hydration) queryConsumption(ctx context.Context, deviceID string, from, to time.Time) ([]models.ConsumptionRecord, error) {
	records := []models.ConsumptionRecord{}
	err := h.Db.WithContext(ctx).
		Where("sensor_id = ? AND timestamp >= ? AND timestamp < ?", deviceID, from.UTC(), to.UTC()).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "timestamp"}},
			{Column: clause.Column{Name: "id"}},
		}}).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: query consumption for %s: %w", ErrPersistence, deviceID, err)
	}
	return records, nil
}

func (h *Hydration) sensorIDOf(ctx context.Context, userID uint) (string, error) {
	var user models.User
	err := h.Db.WithContext(ctx).Select("id", "sensor_id").Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: resolve sensor of user %d: %w", ErrPersistence, userID, err)
	}
	return user.SensorID, nil
}

func (h *Hydration) intakeSince(ctx context.Context, userID uint, window string, from time.Time) ([]models.ConsumptionRecord, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryIntake),
	)

	sensorID, err := h.sensorIDOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	// records are stamped at ingestion, nothing is expected past now
	records, err := h.queryConsumption(ctx, sensorID, from, h.now().Add(time.Nanosecond))
	if err != nil {
		return nil, err
	}

	logger.Debug("Queried intake",
		zap.Uint("user_id", userID),
		zap.String("window", window),
		zap.Int("records", len(records)),
	)

	return records, nil
}

func (h *Hydration) today(ctx context.Context, userID uint) ([]models.ConsumptionRecord, error) {
	return h.intakeSince(ctx, userID, "today", startOfDay(h.now()))
}

func (h *Hydration) week(ctx context.Context, userID uint) ([]models.ConsumptionRecord, error) {
	return h.intakeSince(ctx, userID, "week", startOfDay(h.now()).Add(-WeekWindow))
}

// SumDeltas adds the stored deltas in decimal so no float error accumulates,
// then rounds the result the same way single deltas are rounded.
func SumDeltas(records []models.ConsumptionRecord) float64 {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Delta))
	}
	return RoundDelta(total.InexactFloat64())
}

func (h *Hydration) todayTotal(ctx context.Context, userID uint) (float64, error) {
	records, err := h.today(ctx, userID)
	if err != nil {
		return 0, err
	}
	return SumDeltas(records), nil
}

type IIntakeImpl struct {
	hydration *Hydration
}

func (ii *IIntakeImpl) QueryConsumption(ctx context.Context, deviceID string, from, to time.Time) ([]models.ConsumptionRecord, error) {
	return ii.hydration.queryConsumption(ctx, deviceID, from, to)
}

func (ii *IIntakeImpl) Today(ctx context.Context, userID uint) ([]models.ConsumptionRecord, error) {
	return ii.hydration.today(ctx, userID)
}

func (ii *IIntakeImpl) Week(ctx context.Context, userID uint) ([]models.ConsumptionRecord, error) {
	return ii.hydration.week(ctx, userID)
}

func (ii *IIntakeImpl) TodayTotal(ctx context.Context, userID uint) (float64, error) {
	return ii.hydration.todayTotal(ctx, userID)
}

func (h *Hydration) GetIIntake() IIntake {
	return &IIntakeImpl{hydration: h}
}
