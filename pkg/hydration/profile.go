package hydration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

type fieldSpec struct {
	column string
	parse  func(raw string) (any, error)
	// touchesRegistry marks fields the device registry caches.
	touchesRegistry bool
}

var profileFields = map[models.ProfileField]fieldSpec{
	models.FieldName:              {column: "name", parse: parseText(50)},
	models.FieldSensorID:          {column: "sensor_id", parse: parseText(50), touchesRegistry: true},
	models.FieldDailyGoal:         {column: "daily_goal", parse: parseIntRange(1, 20000)},
	models.FieldWakeupTime:        {column: "wakeup_time", parse: parseClock},
	models.FieldSleepTime:         {column: "sleep_time", parse: parseClock},
	models.FieldBottleWeight:      {column: "bottle_weight", parse: parseIntRange(0, 10000), touchesRegistry: true},
	models.FieldAge:               {column: "age", parse: parseIntRange(0, 150)},
	models.FieldWeight:            {column: "weight", parse: parsePositiveFloat},
	models.FieldHeight:            {column: "height", parse: parsePositiveFloat},
	models.FieldGender:            {column: "gender", parse: parseText(10)},
	models.FieldCurrentWaterLevel: {column: "current_water_level", parse: parseFloat},
	models.FieldIsBottleOnDock:    {column: "is_bottle_on_dock", parse: parseBool},
}

func ParseProfileField(name string) (models.ProfileField, error) {
	field := models.ProfileField(name)
	if _, ok := profileFields[field]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return field, nil
}

// ProfileFields lists the updatable fields in a stable order.
func ProfileFields() []models.ProfileField {
	fields := make([]models.ProfileField, 0, len(profileFields))
	for field := range profileFields {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// ParseFieldValue converts raw into the typed value stored for the field.
func ParseFieldValue(f models.ProfileField, raw string) (any, error) {
	spec, ok := profileFields[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	value, err := spec.parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, f, err)
	}
	return value, nil
}

func parseText(maxLen int) func(string) (any, error) {
	return func(raw string) (any, error) {
		if raw == "" {
			return nil, errors.New("must not be empty")
		}
		if len(raw) > maxLen {
			return nil, fmt.Errorf("must be at most %d characters", maxLen)
		}
		return raw, nil
	}
}

func parseIntRange(min, max int) func(string) (any, error) {
	return func(raw string) (any, error) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		if v < min || v > max {
			return nil, fmt.Errorf("%d is outside [%d, %d]", v, min, max)
		}
		return v, nil
	}
}

func parseFloat(raw string) (any, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}

func parsePositiveFloat(raw string) (any, error) {
	v, err := parseFloat(raw)
	if err != nil {
		return nil, err
	}
	if v.(float64) <= 0 {
		return nil, errors.New("must be positive")
	}
	return v, nil
}

func parseBool(raw string) (any, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean", raw)
	}
	return v, nil
}

// parseClock accepts HH:MM or HH:MM:SS and stores HH:MM:SS.
func parseClock(raw string) (any, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return nil, fmt.Errorf("%q is not a time of day", raw)
}

func (h *Hydration) createUser(ctx context.Context, input *models.User) (*models.User, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProfile),
	)

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.SensorID) == "" {
		return nil, fmt.Errorf("%w: name and sensor_id are required", ErrInvalidFieldValue)
	}

	user := *input
	user.ID = 0
	user.Consumptions = nil

	logger.Info("Received user profile", zap.Reflect("user", user))

	err := h.Db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDevice, user.SensorID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", ErrPersistence, err)
	}

	h.invalidateRegistry(ctx, user.SensorID)

	logger.Info("Created user profile", zap.Uint("user_id", user.ID), zap.String("sensor_id", user.SensorID))

	return &user, nil
}

func (h *Hydration) getUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := h.Db.WithContext(ctx).Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user %d: %w", ErrPersistence, userID, err)
	}
	return &user, nil
}

func (h *Hydration) updateField(ctx context.Context, userID uint, field models.ProfileField, raw string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameHydrationCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryProfile),
	)

	value, err := ParseFieldValue(field, raw)
	if err != nil {
		return err
	}
	spec := profileFields[field]

	logger.Info("Received profile update",
		zap.Uint("user_id", userID),
		zap.String("field", string(field)),
		zap.Any("value", value),
	)

	var previousSensorID string
	err = h.Db.Transaction(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", "sensor_id").Take(&user, userID).Error; err != nil {
			return err
		}
		previousSensorID = user.SensorID

		return tx.Model(&models.User{}).Where("id = ?", userID).Update(spec.column, value).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateDevice, value)
	case err != nil:
		return fmt.Errorf("%w: update %s for user %d: %w", ErrPersistence, field, userID, err)
	}

	if spec.touchesRegistry {
		ids := []string{previousSensorID}
		if sensorID, ok := value.(string); ok && field == models.FieldSensorID {
			ids = append(ids, sensorID)
		}
		h.invalidateRegistry(ctx, ids...)
	}

	logger.Info("Updated profile field",
		zap.Uint("user_id", userID),
		zap.String("field", string(field)),
	)

	return nil
}

func (h *Hydration) invalidateRegistry(ctx context.Context, deviceIDs ...string) {
	if h.Registry != nil {
		h.Registry.Invalidate(ctx, deviceIDs...)
		return
	}
	h.invalidate(ctx, deviceIDs...)
}

type IProfileImpl struct {
	hydration *Hydration
}

func (ip *IProfileImpl) CreateUser(ctx context.Context, input *models.User) (*models.User, error) {
	return ip.hydration.createUser(ctx, input)
}

func (ip *IProfileImpl) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return ip.hydration.getUser(ctx, userID)
}

func (ip *IProfileImpl) UpdateField(ctx context.Context, userID uint, field models.ProfileField, raw string) error {
	return ip.hydration.updateField(ctx, userID, field, raw)
}

func (h *Hydration) GetIProfile() IProfile {
	return &IProfileImpl{hydration: h}
}
