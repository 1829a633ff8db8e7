package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/fleet"
	"liyu1981.xyz/vigilant/pkg/metrics"
)

type RestfulServer struct {
	Server     *gin.Engine
	Fleet      *fleet.Fleet
	Authorizer fleet.Authorizer
	// RateLimiterStore is optional; nil disables per-rig rate limiting.
	RateLimiterStore *fleet.RateLimiterStore
}

func (rs *RestfulServer) CheckRigLimiter(rigID string) bool {
	return rs.RateLimiterStore.Allow(rigID)
}

// SetLimiter reports false when no limiter store is configured.
func (rs *RestfulServer) SetLimiter(rigID string, rigRate float64, rigBurst int) bool {
	if rs.RateLimiterStore == nil {
		return false
	}
	rs.RateLimiterStore.SetLimiter(rigID, rate.Limit(rigRate), rigBurst)
	return true
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(metrics.GinMiddleware())

	rs.Server.GET("/", rs.Root)
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := rs.Server.Group("/api")
	{
		api.POST("/heartbeat", rs.RequireAPIKey(), rs.PostHeartbeat)
		api.GET("/rigs", rs.ListRigs)

		rigs := api.Group("/rigs/:rig_id")
		{
			rigs.GET("", rs.GetRig)
			rigs.GET("/heartbeats", rs.ListHeartbeats)
			rigs.POST("/limiter", rs.RequireAPIKey(), rs.PostLimiter)
		}
	}
}

// RequireAPIKey rejects the request before any handler reads the body.
func (rs *RestfulServer) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rs.Authorizer.Check(c.GetHeader("Authorization")); err != nil {
			if c.FullPath() == "/api/heartbeat" {
				metrics.CountHeartbeat("http", metrics.OutcomeUnauthorized)
			}
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

func abortWithDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}

func abortWithError(c *gin.Context, err error) {
	code, detail := statusFor(err)
	if code == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	abortWithDetail(c, code, detail)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, fleet.ErrUnauthorized):
		if errors.Is(err, fleet.ErrInvalidAPIKey) {
			return http.StatusUnauthorized, "Invalid API key"
		}
		return http.StatusUnauthorized, "Invalid authorization"
	case errors.Is(err, fleet.ErrMissingRigID):
		return http.StatusBadRequest, "Missing rig_id"
	case errors.Is(err, fleet.ErrInvalidTimestamp):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, fleet.ErrInvalidCursor):
		return http.StatusBadRequest, "Invalid cursor"
	case errors.Is(err, fleet.ErrRigNotFound):
		return http.StatusNotFound, "Rig not found"
	default:
		return http.StatusInternalServerError, "Failed to process request"
	}
}
