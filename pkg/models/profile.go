package models

// ProfileField names a user column that may be changed after creation.
type ProfileField string

const (
	FieldName              ProfileField = "name"
	FieldSensorID          ProfileField = "sensor_id"
	FieldDailyGoal         ProfileField = "daily_goal"
	FieldWakeupTime        ProfileField = "wakeup_time"
	FieldSleepTime         ProfileField = "sleep_time"
	FieldBottleWeight      ProfileField = "bottle_weight"
	FieldAge               ProfileField = "age"
	FieldWeight            ProfileField = "weight"
	FieldHeight            ProfileField = "height"
	FieldGender            ProfileField = "gender"
	FieldCurrentWaterLevel ProfileField = "current_water_level"
	FieldIsBottleOnDock    ProfileField = "is_bottle_on_dock"
)

// GoalProgress compares what a user drank today against the configured goal.
// Goal is nil when the user has not set one, in which case Reached is false.
type GoalProgress struct {
	UserID   uint    `json:"user_id"`
	SensorID string  `json:"sensor_id"`
	Goal     *int    `json:"daily_goal"`
	Total    float64 `json:"total_water_intake"`
	Reached  bool    `json:"reached"`
}
