package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/ingest"
)

const ctxKeyUserID = "user_id"

// IngestStatus is what /healthz reports about the ingestion loop.
type IngestStatus interface {
	State() ingest.State
	Stats() ingest.Stats
}

// LedSetter sends an animation command to a bottle.
type LedSetter interface {
	SetLedMode(ctx context.Context, deviceID string, mode ingest.LedMode) error
}

type RestfulServer struct {
	Server           *gin.Engine
	Hydration        *hydration.Hydration
	RateLimiterStore *hydration.RateLimiterStore
	// Led is nil when the service runs without a command connection.
	Led    LedSetter
	Ingest IngestStatus
}

func (rs *RestfulServer) GetLimiter(userID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(userID)
	}
}

func (rs *RestfulServer) CheckUserLimiter(userID string) bool {
	limiter := rs.GetLimiter(userID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(userID string, userRate float64, userBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(userID, rate.Limit(userRate), userBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(rs.AccessLog)

	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/api/v1")
	api.POST("/users", rs.CreateUser)

	user := api.Group("/user/:user_id", rs.ParseUserID)
	user.POST("/limiter", rs.PostLimiter)

	limited := user.Group("", rs.LimitUser)
	{
		limited.GET("", rs.GetUser)
		limited.GET("/today-water-intake", rs.GetTodayWaterIntake)
		limited.GET("/week-water-intake", rs.GetWeekWaterIntake)
		limited.GET("/total-water-intake", rs.GetTotalWaterIntake)
		limited.GET("/goal-progress", rs.GetGoalProgress)
		limited.PUT("/led-mode", rs.PutLedMode)

		for _, route := range profileSetters {
			limited.PUT(route.path, rs.profileSetter(route))
		}
		for _, route := range profileGetters {
			limited.GET(route.path, rs.profileGetter(route))
		}
	}
}

// ParseUserID rejects non numeric user ids before any handler runs.
func (rs *RestfulServer) ParseUserID(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || userID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	c.Set(ctxKeyUserID, uint(userID))
	c.Next()
}

func (rs *RestfulServer) LimitUser(c *gin.Context) {
	if !rs.CheckUserLimiter(limiterKeyOf(c)) {
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}
	c.Next()
}

func (rs *RestfulServer) AccessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	common.GetLoggerWith(common.LoggerNameRestfulServer).Info("Served request",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func userIDOf(c *gin.Context) uint {
	return c.MustGet(ctxKeyUserID).(uint)
}

// limiterKeyOf keys limiters on the parsed id, so /user/7 and /user/007 share one.
func limiterKeyOf(c *gin.Context) string {
	return strconv.FormatUint(uint64(userIDOf(c)), 10)
}
