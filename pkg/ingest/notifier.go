package ingest

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// Notifier is told about every stored consumption record. It runs after the
// outcome is reported and can not fail the message.
type Notifier interface {
	OnConsumption(ctx context.Context, record *models.ConsumptionRecord)
}

// GoalNotifier lights the goal animation on a bottle the first time its owner
// reaches the daily goal on a given UTC day.
type GoalNotifier struct {
	Goal hydration.IGoal
	Led  *LedPublisher

	mu       sync.Mutex
	notified map[string]string // device id -> yyyy-mm-dd
}

func (n *GoalNotifier) OnConsumption(ctx context.Context, record *models.ConsumptionRecord) {
	logger := common.GetLoggerWith(
		common.LoggerNameIngestLoop,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryNotification),
	)

	day := record.Timestamp.UTC().Format("2006-01-02")
	if n.alreadyNotified(record.SensorID, day) {
		return
	}

	progress, err := n.Goal.ProgressForDevice(ctx, record.SensorID)
	if err != nil {
		logger.Warn("Failed to check daily goal", zap.String("device_id", record.SensorID), zap.Error(err))
		return
	}
	if !progress.Reached {
		return
	}

	if err := n.Led.SetLedMode(ctx, record.SensorID, LedModeGoalReached); err != nil {
		logger.Warn("Failed to signal daily goal", zap.String("device_id", record.SensorID), zap.Error(err))
		return
	}

	n.markNotified(record.SensorID, day)
	logger.Info("Signalled daily goal", zap.String("device_id", record.SensorID), zap.Float64("total", progress.Total))
}

func (n *GoalNotifier) alreadyNotified(deviceID, day string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notified[deviceID] == day
}

func (n *GoalNotifier) markNotified(deviceID, day string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.notified == nil {
		n.notified = make(map[string]string)
	}
	n.notified[deviceID] = day
}
