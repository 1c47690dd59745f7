package ingest

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// Outcome describes how one message was handled.
type Outcome struct {
	MessageID  string
	Topic      string
	Payload    string
	Duplicate  bool
	DeviceID   string
	DataType   string
	Kind       Kind
	Err        error
	ReceivedAt time.Time
	Elapsed    time.Duration
	Record     *models.ConsumptionRecord
}

// Reporter receives every outcome exactly once.
type Reporter interface {
	Report(outcome Outcome)
}

type Stats struct {
	Total  uint64          `json:"total"`
	ByKind map[Kind]uint64 `json:"by_kind"`
}

// LogReporter logs each outcome and counts them per kind.
type LogReporter struct {
	total    atomic.Uint64
	counters map[Kind]*atomic.Uint64
}

func NewLogReporter() *LogReporter {
	counters := make(map[Kind]*atomic.Uint64, len(Kinds))
	for _, kind := range Kinds {
		counters[kind] = &atomic.Uint64{}
	}
	return &LogReporter{counters: counters}
}

func (r *LogReporter) Report(outcome Outcome) {
	logger := common.GetLoggerWith(
		common.LoggerNameIngestLoop,
		zap.String(common.LoggerFieldCategory, categoryOf(outcome)),
	)

	r.total.Add(1)
	if counter, ok := r.counters[outcome.Kind]; ok {
		counter.Add(1)
	}

	fields := []zap.Field{
		zap.String("message_id", outcome.MessageID),
		zap.String("topic", outcome.Topic),
		zap.String("kind", string(outcome.Kind)),
		zap.Time("received_at", outcome.ReceivedAt),
		zap.Duration("elapsed", outcome.Elapsed),
	}
	if outcome.DeviceID != "" {
		fields = append(fields, zap.String("device_id", outcome.DeviceID))
	}
	// redelivery flagged by the broker, it is stored again
	if outcome.Duplicate {
		fields = append(fields, zap.Bool("duplicate", true))
	}

	switch outcome.Kind {
	case KindOK:
		if outcome.Record != nil {
			fields = append(fields, zap.Float64("delta", outcome.Record.Delta))
		}
		logger.Info("Processed message", fields...)
	case KindPersistenceError:
		logger.Error("Failed to process message", append(fields, zap.String("payload", outcome.Payload), zap.Error(outcome.Err))...)
	default:
		logger.Warn("Dropped message", append(fields, zap.String("payload", outcome.Payload), zap.Error(outcome.Err))...)
	}
}

func (r *LogReporter) Stats() Stats {
	stats := Stats{
		Total:  r.total.Load(),
		ByKind: make(map[Kind]uint64, len(r.counters)),
	}
	for kind, counter := range r.counters {
		stats.ByKind[kind] = counter.Load()
	}
	return stats
}

func categoryOf(outcome Outcome) string {
	switch outcome.Kind {
	case KindMalformedPayload, KindUnknownDataType, KindInvalidValue:
		return common.LoggerCategoryTransport
	case KindDeviceNotFound:
		return common.LoggerCategoryRegistry
	}
	if outcome.DataType == DataTypeIsPickedUp {
		return common.LoggerCategoryDock
	}
	return common.LoggerCategoryConsumption
}
