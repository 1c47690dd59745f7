package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/water-intake-service/pkg/hydration/mocks"
	_ "liyu1981.xyz/water-intake-service/pkg/testing"

	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/db"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/ingest"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

var testNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T) *RestfulServer {
	dbInstance := db.MustOpen(db.UseNamedMemorySqliteDialector(uuid.NewString()))
	t.Cleanup(func() { _ = dbInstance.Close() })

	hydrationObj := &hydration.Hydration{
		Db:  dbInstance,
		Now: func() time.Time { return testNow },
	}
	hydrationObj.WithDefaultServices()

	gin.SetMode(gin.TestMode)
	rs := &RestfulServer{
		Server:    gin.New(),
		Hydration: hydrationObj,
		// default we use no limiter, if need, later assign it rs.RateLimiterStore = hydration.NewRateLimiterStore(...)
	}

	rs.Setup()

	return rs
}

func doRequest(rs *RestfulServer, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, rs *RestfulServer, body map[string]any) models.User {
	t.Helper()
	w := doRequest(rs, "POST", "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

type fakeIngest struct{}

func (fakeIngest) State() ingest.State { return ingest.StateReceiving }
func (fakeIngest) Stats() ingest.Stats {
	return ingest.Stats{Total: 3, ByKind: map[ingest.Kind]uint64{ingest.KindOK: 2, ingest.KindDeviceNotFound: 1}}
}

type fakeLed struct {
	deviceID string
	mode     ingest.LedMode
	err      error
}

func (f *fakeLed) SetLedMode(ctx context.Context, deviceID string, mode ingest.LedMode) error {
	f.deviceID = deviceID
	f.mode = mode
	return f.err
}

func TestHealthCheck(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := doRequest(rs, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	rs.Ingest = fakeIngest{}
	w = doRequest(rs, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"status": "ok",
		"ingest": {
			"state": "receiving",
			"stats": {"total": 3, "by_kind": {"ok": 2, "device_not_found": 1}}
		}
	}`, w.Body.String())
}

func TestCreateAndGetUser(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	user := createUser(t, rs, map[string]any{
		"name":          "ana",
		"sensor_id":     "esp32-n2vf7inz",
		"bottle_weight": 480,
		"daily_goal":    2000,
		"wakeup_time":   "07:00",
	})
	assert.NotZero(t, user.ID)
	assert.Equal(t, common.Ptr("07:00:00"), user.WakeupTime)
	assert.Nil(t, user.SleepTime)

	w := doRequest(rs, "GET", fmt.Sprintf("/api/v1/user/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "esp32-n2vf7inz", got.SensorID)
	assert.Equal(t, common.Ptr(480), got.BottleWeight)

	// duplicate sensor
	w = doRequest(rs, "POST", "/api/v1/users", map[string]any{"name": "bob", "sensor_id": "esp32-n2vf7inz"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// validation
	w = doRequest(rs, "POST", "/api/v1/users", map[string]any{"name": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(rs, "POST", "/api/v1/users", map[string]any{"name": "bob", "sensor_id": "x", "wakeup_time": "late"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(rs, "GET", "/api/v1/user/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(rs, "GET", "/api/v1/user/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWaterIntakeRoutes(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	user := createUser(t, rs, map[string]any{"name": "ana", "sensor_id": "D1", "bottle_weight": 500})
	base := fmt.Sprintf("/api/v1/user/%d", user.ID)

	w := doRequest(rs, "GET", base+"/today-water-intake", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(rs, "GET", base+"/week-water-intake", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(rs, "GET", base+"/total-water-intake", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_water_intake": 0}`, w.Body.String())

	ctx := context.Background()
	_, err := rs.Hydration.Accountant.RecordWeight(ctx, "D1", 650.37, testNow.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = rs.Hydration.Accountant.RecordWeight(ctx, "D1", 600.1, testNow.Add(-time.Hour))
	require.NoError(t, err)
	_, err = rs.Hydration.Accountant.RecordWeight(ctx, "D1", 700, testNow.Add(-48*time.Hour))
	require.NoError(t, err)

	w = doRequest(rs, "GET", base+"/today-water-intake", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var today []WaterIntake
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &today))
	require.Len(t, today, 2)
	assert.Equal(t, 150.37, today[0].Data)
	assert.Equal(t, 100.1, today[1].Data)

	w = doRequest(rs, "GET", base+"/week-water-intake", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var week []WaterIntake
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Len(t, week, 3)
	assert.Equal(t, 200.0, week[0].Data, "oldest first")

	w = doRequest(rs, "GET", base+"/total-water-intake", nil)
	assert.JSONEq(t, `{"total_water_intake": 250.47}`, w.Body.String())

	w = doRequest(rs, "GET", "/api/v1/user/9999/today-water-intake", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileSettersAndGetters(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	user := createUser(t, rs, map[string]any{"name": "ana", "sensor_id": "D1"})
	base := fmt.Sprintf("/api/v1/user/%d", user.ID)

	for _, path := range []string{"/bottle-weight", "/sleep-time", "/wakeup-time", "/daily-goal", "/current-water-level", "/is-bottle-on-dock"} {
		w := doRequest(rs, "GET", base+path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "unset %s", path)
	}

	setters := []struct {
		query string
		get   string
		want  string
	}{
		{"/set-daily-goal?new_daily_goal=2500", "/daily-goal", `{"daily_goal": 2500}`},
		{"/set-wakeup-time?new_wakeup_time=06:30", "/wakeup-time", `{"wakeup_time": "06:30:00"}`},
		{"/set-sleep-time?new_sleep_time=23:00:00", "/sleep-time", `{"sleep_time": "23:00:00"}`},
		{"/set-bottle-weight?new_bottle_weight=450", "/bottle-weight", `{"bottle_weight": 450}`},
		{"/current-water-level?current_level=321.9", "/current-water-level", `{"current_water_level": 321}`},
		{"/is-bottle-on-dock?is_on_dock=false", "/is-bottle-on-dock", `{"is_bottle_on_dock": false}`},
	}
	for _, s := range setters {
		w := doRequest(rs, "PUT", base+s.query, nil)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", s.query, w.Body.String())

		w = doRequest(rs, "GET", base+s.get, nil)
		require.Equal(t, http.StatusOK, w.Code, s.get)
		assert.JSONEq(t, s.want, w.Body.String())
	}

	w := doRequest(rs, "PUT", base+"/set-weight?new_weight=70.5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Weight updated successfully"}`, w.Body.String())

	w = doRequest(rs, "PUT", base+"/set-sensor-id?new_sensor_id=D9", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	tare, err := rs.Hydration.Registry.ResolveTare(context.Background(), "D9")
	require.NoError(t, err)
	assert.Equal(t, 450, tare)

	// bad values, missing parameters and unknown users
	w = doRequest(rs, "PUT", base+"/set-daily-goal?new_daily_goal=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(rs, "PUT", base+"/set-daily-goal", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(rs, "PUT", base+"/set-wakeup-time?new_wakeup_time=noon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(rs, "PUT", "/api/v1/user/9999/set-daily-goal?new_daily_goal=1000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoalProgressRoute(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	user := createUser(t, rs, map[string]any{"name": "ana", "sensor_id": "D1", "bottle_weight": 100, "daily_goal": 300})

	_, err := rs.Hydration.Accountant.RecordWeight(context.Background(), "D1", 450, testNow.Add(-time.Minute))
	require.NoError(t, err)

	w := doRequest(rs, "GET", fmt.Sprintf("/api/v1/user/%d/goal-progress", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var progress models.GoalProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.True(t, progress.Reached)
	assert.Equal(t, 350.0, progress.Total)
}

func TestLedMode(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	user := createUser(t, rs, map[string]any{"name": "ana", "sensor_id": "esp32-n2vf7inz"})
	path := fmt.Sprintf("/api/v1/user/%d/led-mode", user.ID)

	w := doRequest(rs, "PUT", path, map[string]any{"mode": 3})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	led := &fakeLed{}
	rs.Led = led

	w = doRequest(rs, "PUT", path, map[string]any{"mode": 3})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "esp32-n2vf7inz", led.deviceID)
	assert.Equal(t, ingest.LedModeGoalReached, led.mode)

	w = doRequest(rs, "PUT", path, map[string]any{"mode": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	led.err = errors.New("not connected")
	w = doRequest(rs, "PUT", path, map[string]any{"mode": 1})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(rs, "PUT", "/api/v1/user/9999/led-mode", map[string]any{"mode": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserRateLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	rs.RateLimiterStore = hydration.NewRateLimiterStore(0.001, 1)
	user := createUser(t, rs, map[string]any{"name": "ana", "sensor_id": "D1"})
	base := fmt.Sprintf("/api/v1/user/%d", user.ID)

	w := doRequest(rs, "GET", base, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(rs, "GET", base+"/daily-goal", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// the limiter route itself is not limited
	w = doRequest(rs, "POST", base+"/limiter", map[string]any{"rate": 100, "burst": 10})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(rs, "GET", base, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(rs, "POST", base+"/limiter", map[string]any{"rate": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRateLimiterIgnoresZeroPadding(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	rs.RateLimiterStore = hydration.NewRateLimiterStore(0.001, 1)
	user := createUser(t, rs, map[string]any{"name": "ana", "sensor_id": "D1"})

	codes := []int{}
	for _, format := range []string{"/api/v1/user/%d", "/api/v1/user/0%d", "/api/v1/user/00%d", "/api/v1/user/000%d"} {
		w := doRequest(rs, "GET", fmt.Sprintf(format, user.ID), nil)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	// a limiter posted through a padded id applies to the plain one
	w := doRequest(rs, "POST", fmt.Sprintf("/api/v1/user/00%d/limiter", user.ID), map[string]any{"rate": 100, "burst": 10})
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(rs, "GET", fmt.Sprintf("/api/v1/user/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStoreFailuresMapToServerError(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIProfile := mocks.NewMockIProfile(ctrl)
	mockIIntake := mocks.NewMockIIntake(ctrl)

	rs := setupTestServer(t)
	rs.Hydration.WithServices(hydration.ServiceOpts{Profile: mockIProfile, Intake: mockIIntake})

	storeDown := fmt.Errorf("%w: database is locked", hydration.ErrPersistence)
	mockIProfile.EXPECT().GetUser(gomock.Any(), uint(7)).Return(nil, storeDown)
	mockIIntake.EXPECT().Today(gomock.Any(), uint(7)).Return(nil, storeDown)
	mockIProfile.EXPECT().
		UpdateField(gomock.Any(), uint(7), models.FieldDailyGoal, "1500").
		Return(nil)

	w := doRequest(rs, "GET", "/api/v1/user/7", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(rs, "GET", "/api/v1/user/7/today-water-intake", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(rs, "PUT", "/api/v1/user/7/set-daily-goal?new_daily_goal=1500", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
