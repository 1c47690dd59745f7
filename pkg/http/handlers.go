package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/ingest"
	"liyu1981.xyz/water-intake-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, hydration.ErrUserNotFound), errors.Is(err, hydration.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, hydration.ErrUnknownField),
		errors.Is(err, hydration.ErrInvalidFieldValue),
		errors.Is(err, ingest.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, hydration.ErrDuplicateDevice):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

type CreateUserRequest struct {
	Name         string  `json:"name"`
	SensorID     string  `json:"sensor_id" zog:"sensor_id"`
	BottleWeight int     `json:"bottle_weight" zog:"bottle_weight"`
	DailyGoal    int     `json:"daily_goal" zog:"daily_goal"`
	WakeupTime   string  `json:"wakeup_time" zog:"wakeup_time"`
	SleepTime    string  `json:"sleep_time" zog:"sleep_time"`
	Age          int     `json:"age"`
	Weight       float64 `json:"weight"`
	Height       float64 `json:"height"`
	Gender       string  `json:"gender"`
}

// zero values of the optional fields mean "not configured"
var createUserRequestSchema = z.Struct(z.Shape{
	"name":         z.String().Trim().Min(1).Max(50).Required(),
	"sensorID":     z.String().Trim().Min(1).Max(50).Required(),
	"bottleWeight": z.Int().GTE(0).LTE(10000),
	"dailyGoal":    z.Int().GTE(0).LTE(20000),
	"wakeupTime":   z.String().Trim(),
	"sleepTime":    z.String().Trim(),
	"age":          z.Int().GTE(0).LTE(150),
	"weight":       z.Float64().GTE(0),
	"height":       z.Float64().GTE(0),
	"gender":       z.String().Trim().Max(10),
})

func (req *CreateUserRequest) toUser() (*models.User, error) {
	user := &models.User{Name: req.Name, SensorID: req.SensorID}

	if req.BottleWeight > 0 {
		user.BottleWeight = common.Ptr(req.BottleWeight)
	}
	if req.DailyGoal > 0 {
		user.DailyGoal = common.Ptr(req.DailyGoal)
	}
	if req.Age > 0 {
		user.Age = common.Ptr(req.Age)
	}
	if req.Weight > 0 {
		user.Weight = common.Ptr(req.Weight)
	}
	if req.Height > 0 {
		user.Height = common.Ptr(req.Height)
	}
	if req.Gender != "" {
		user.Gender = common.Ptr(req.Gender)
	}

	for _, clock := range []struct {
		field models.ProfileField
		raw   string
		dst   **string
	}{
		{models.FieldWakeupTime, req.WakeupTime, &user.WakeupTime},
		{models.FieldSleepTime, req.SleepTime, &user.SleepTime},
	} {
		if clock.raw == "" {
			continue
		}
		value, err := hydration.ParseFieldValue(clock.field, clock.raw)
		if err != nil {
			return nil, err
		}
		*clock.dst = common.Ptr(value.(string))
	}

	return user, nil
}

func (rs *RestfulServer) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := createUserRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	input, err := req.toUser()
	if err != nil {
		abortWithError(c, err)
		return
	}

	user, err := rs.Hydration.Profile.CreateUser(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (rs *RestfulServer) GetUser(c *gin.Context) {
	user, err := rs.Hydration.Profile.GetUser(c.Request.Context(), userIDOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type WaterIntake struct {
	Timestamp time.Time `json:"timestamp"`
	Data      float64   `json:"data"`
}

func toWaterIntake(records []models.ConsumptionRecord) []WaterIntake {
	return common.Mapper(records, func(r models.ConsumptionRecord) WaterIntake {
		return WaterIntake{Timestamp: r.Timestamp, Data: r.Delta}
	})
}

func (rs *RestfulServer) GetTodayWaterIntake(c *gin.Context) {
	records, err := rs.Hydration.Intake.Today(c.Request.Context(), userIDOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no water intake data for today"})
		return
	}
	c.JSON(http.StatusOK, toWaterIntake(records))
}

func (rs *RestfulServer) GetWeekWaterIntake(c *gin.Context) {
	records, err := rs.Hydration.Intake.Week(c.Request.Context(), userIDOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no water intake data for this week"})
		return
	}
	c.JSON(http.StatusOK, toWaterIntake(records))
}

func (rs *RestfulServer) GetTotalWaterIntake(c *gin.Context) {
	total, err := rs.Hydration.Intake.TodayTotal(c.Request.Context(), userIDOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_water_intake": total})
}

func (rs *RestfulServer) GetGoalProgress(c *gin.Context) {
	progress, err := rs.Hydration.Goal.Progress(c.Request.Context(), userIDOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

type profileSetterRoute struct {
	path    string
	field   models.ProfileField
	param   string
	message string
}

var profileSetters = []profileSetterRoute{
	{"/set-daily-goal", models.FieldDailyGoal, "new_daily_goal", "Daily goal updated successfully"},
	{"/set-wakeup-time", models.FieldWakeupTime, "new_wakeup_time", "Wakeup time updated successfully"},
	{"/set-sleep-time", models.FieldSleepTime, "new_sleep_time", "Sleep time updated successfully"},
	{"/set-weight", models.FieldWeight, "new_weight", "Weight updated successfully"},
	{"/set-bottle-weight", models.FieldBottleWeight, "new_bottle_weight", "Bottle weight updated successfully"},
	{"/set-sensor-id", models.FieldSensorID, "new_sensor_id", "Sensor ID updated successfully"},
	{"/current-water-level", models.FieldCurrentWaterLevel, "current_level", "Current water level updated successfully"},
	{"/is-bottle-on-dock", models.FieldIsBottleOnDock, "is_on_dock", "Bottle dock status updated successfully"},
}

func (rs *RestfulServer) profileSetter(route profileSetterRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery(route.param)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter " + route.param})
			return
		}

		if err := rs.Hydration.Profile.UpdateField(c.Request.Context(), userIDOf(c), route.field, raw); err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": route.message})
	}
}

type profileGetterRoute struct {
	path  string
	key   string
	value func(*models.User) any
}

var profileGetters = []profileGetterRoute{
	{"/bottle-weight", "bottle_weight", func(u *models.User) any { return nilable(u.BottleWeight) }},
	{"/sleep-time", "sleep_time", func(u *models.User) any { return nilable(u.SleepTime) }},
	{"/wakeup-time", "wakeup_time", func(u *models.User) any { return nilable(u.WakeupTime) }},
	{"/daily-goal", "daily_goal", func(u *models.User) any { return nilable(u.DailyGoal) }},
	{"/current-water-level", "current_water_level", func(u *models.User) any {
		if u.CurrentWaterLevel == nil {
			return nil
		}
		// bottles display whole grams
		return int(*u.CurrentWaterLevel)
	}},
	{"/is-bottle-on-dock", "is_bottle_on_dock", func(u *models.User) any { return nilable(u.IsBottleOnDock) }},
}

func nilable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func (rs *RestfulServer) profileGetter(route profileGetterRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := rs.Hydration.Profile.GetUser(c.Request.Context(), userIDOf(c))
		if err != nil {
			abortWithError(c, err)
			return
		}

		value := route.value(user)
		if value == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": route.key + " not set"})
			return
		}

		c.JSON(http.StatusOK, gin.H{route.key: value})
	}
}

type LedModeRequest struct {
	Mode int `json:"mode"`
}

// a missing mode switches the ring off
var ledModeRequestSchema = z.Struct(z.Shape{
	"mode": z.Int().GTE(int(ingest.LedModeOff)).LTE(int(ingest.LedModeAlert)),
})

func (rs *RestfulServer) PutLedMode(c *gin.Context) {
	if rs.Led == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "led commands are not available"})
		return
	}

	var req LedModeRequest
	if err := ledModeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	user, err := rs.Hydration.Profile.GetUser(c.Request.Context(), userIDOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := rs.Led.SetLedMode(c.Request.Context(), user.SensorID, ingest.LedMode(req.Mode)); err != nil {
		if statusFor(err) == http.StatusBadRequest {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Led mode updated successfully"})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(limiterKeyOf(c), req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if rs.Ingest != nil {
		body["ingest"] = gin.H{
			"state": rs.Ingest.State().String(),
			"stats": rs.Ingest.Stats(),
		}
	}
	c.JSON(http.StatusOK, body)
}
