package hydration_service

import "time"

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UserRequest struct {
	UserId int64 `json:"user_id"`
}

func (r *UserRequest) GetUserId() int64 {
	if r == nil {
		return 0
	}
	return r.UserId
}

type User struct {
	Id                uint64   `json:"id"`
	Name              string   `json:"name"`
	SensorId          string   `json:"sensor_id"`
	DailyGoal         *int64   `json:"daily_goal,omitempty"`
	WakeupTime        *string  `json:"wakeup_time,omitempty"`
	SleepTime         *string  `json:"sleep_time,omitempty"`
	BottleWeight      *int64   `json:"bottle_weight,omitempty"`
	CurrentWaterLevel *float64 `json:"current_water_level,omitempty"`
	IsBottleOnDock    *bool    `json:"is_bottle_on_dock,omitempty"`
}

type GetUserResponse struct {
	Status *StatusResponse `json:"status"`
	User   *User           `json:"user,omitempty"`
}

const (
	RangeToday = "today"
	RangeWeek  = "week"
)

type GetIntakeRequest struct {
	UserId int64  `json:"user_id"`
	Range  string `json:"range"`
}

func (r *GetIntakeRequest) GetUserId() int64 {
	if r == nil {
		return 0
	}
	return r.UserId
}

type IntakeRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Data      float64   `json:"data"`
}

type GetIntakeResponse struct {
	Status  *StatusResponse `json:"status"`
	Records []*IntakeRecord `json:"records"`
	Total   float64         `json:"total"`
}

type UpdateProfileRequest struct {
	UserId int64  `json:"user_id"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

func (r *UpdateProfileRequest) GetUserId() int64 {
	if r == nil {
		return 0
	}
	return r.UserId
}

type UpdateProfileResponse struct {
	Status *StatusResponse `json:"status"`
}

type PostLimiterRequest struct {
	UserId    int64   `json:"user_id"`
	UserRate  float64 `json:"user_rate"`
	UserBurst int32   `json:"user_burst"`
}

func (r *PostLimiterRequest) GetUserId() int64 {
	if r == nil {
		return 0
	}
	return r.UserId
}

type PostLimiterResponse struct {
	Status *StatusResponse `json:"status"`
}
