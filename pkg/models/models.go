package models

import "time"

// User owns exactly one bottle, identified by SensorID. Nullable columns are
// profile fields the owner may not have configured yet.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	SensorID string `gorm:"size:50;not null;uniqueIndex" json:"sensor_id"`

	DailyGoal    *int    `json:"daily_goal"`
	WakeupTime   *string `gorm:"size:8" json:"wakeup_time"`
	SleepTime    *string `gorm:"size:8" json:"sleep_time"`
	BottleWeight *int    `json:"bottle_weight"`

	Age    *int     `json:"age"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
	Gender *string  `gorm:"size:10" json:"gender"`

	CurrentWaterLevel *float64 `json:"current_water_level"`
	IsBottleOnDock    *bool    `json:"is_bottle_on_dock"`

	Consumptions []ConsumptionRecord `gorm:"foreignKey:SensorID;references:SensorID;constraint:OnUpdate:CASCADE" json:"-"`
}

// ConsumptionRecord is one accepted weight sample translated into a delta.
// Rows are append-only.
type ConsumptionRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SensorID  string    `gorm:"size:50;not null;index:idx_sensor_ts,priority:1" json:"sensor_id"`
	Timestamp time.Time `gorm:"not null;index:idx_sensor_ts,priority:2" json:"timestamp"`
	Delta     float64   `gorm:"not null" json:"delta"`
}
