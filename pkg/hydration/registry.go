package hydration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// registryState keeps a populate from overwriting an invalidation that raced
// with the store read behind it.
type registryState struct {
	mu          sync.Mutex
	generations map[string]uint64
}

func (s *registryState) generation(deviceID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[deviceID]
}

func tareKey(deviceID string) string {
	return "tare:" + deviceID
}

func (h *Hydration) resolveTare(ctx context.Context, deviceID string) (int, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRegistry),
	)

	if cached, err := h.cache().Get(ctx, tareKey(deviceID)); err == nil {
		if tare, err := strconv.Atoi(string(cached)); err == nil {
			return tare, nil
		}
	}

	generation := h.registryState.generation(deviceID)

	var user models.User
	err := h.Db.WithContext(ctx).
		Select("id", "sensor_id", "bottle_weight").
		Where("sensor_id = ?", deviceID).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: resolve tare for %s: %w", ErrPersistence, deviceID, err)
	}

	if user.BottleWeight == nil {
		return 0, fmt.Errorf("%w: %s", ErrTareUnknown, deviceID)
	}

	tare := *user.BottleWeight
	h.populateTare(ctx, logger, deviceID, generation, tare)

	return tare, nil
}

func (h *Hydration) populateTare(ctx context.Context, logger *zap.Logger, deviceID string, generation uint64, tare int) {
	s := &h.registryState
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[deviceID] != generation {
		return
	}

	if err := h.cache().Set(ctx, tareKey(deviceID), []byte(strconv.Itoa(tare)), h.cacheTTL()); err != nil {
		logger.Warn("Failed to cache tare weight", zap.String("device_id", deviceID), zap.Error(err))
	}
}

func (h *Hydration) invalidate(ctx context.Context, deviceIDs ...string) {
	keys := make([]string, 0, len(deviceIDs))

	s := &h.registryState
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations == nil {
		s.generations = make(map[string]uint64)
	}
	for _, deviceID := range deviceIDs {
		if deviceID == "" {
			continue
		}
		s.generations[deviceID]++
		keys = append(keys, tareKey(deviceID))
	}

	if err := h.cache().Delete(ctx, keys...); err != nil {
		common.GetLoggerWith(
			common.LoggerNameHydrationCore,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryRegistry),
		).Error("Failed to invalidate cached tare weight", zap.Strings("device_ids", deviceIDs), zap.Error(err))
	}
}

type IRegistryImpl struct {
	hydration *Hydration
}

func (ir *IRegistryImpl) ResolveTare(ctx context.Context, deviceID string) (int, error) {
	return ir.hydration.resolveTare(ctx, deviceID)
}

func (ir *IRegistryImpl) Invalidate(ctx context.Context, deviceIDs ...string) {
	ir.hydration.invalidate(ctx, deviceIDs...)
}

func (h *Hydration) GetIRegistry() IRegistry {
	return &IRegistryImpl{hydration: h}
}
