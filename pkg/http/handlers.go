package http

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/fleet"
	"liyu1981.xyz/vigilant/pkg/metrics"
	"liyu1981.xyz/vigilant/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const healthCheckTimeout = 2 * time.Second

func (rs *RestfulServer) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": common.ServiceName,
		"version": common.ServiceVersion,
		"status":  "running",
	})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := rs.Fleet.Db.Ping(ctx); err != nil {
		abortWithDetail(c, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) PostHeartbeat(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		metrics.CountHeartbeat("http", metrics.OutcomeRejected)
		abortWithDetail(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	report, err := models.DecodeReport(body)
	if err != nil {
		metrics.CountHeartbeat("http", metrics.OutcomeRejected)
		abortWithDetail(c, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}

	if rigID, ok := report.RigID(); ok && !rs.CheckRigLimiter(rigID) {
		metrics.CountHeartbeat("http", metrics.OutcomeRateLimited)
		abortWithDetail(c, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	ack, err := rs.Fleet.Ingestor.Ingest(c.Request.Context(), report)
	if err != nil {
		if fleet.IsClientError(err) {
			metrics.CountHeartbeat("http", metrics.OutcomeRejected)
		} else {
			metrics.CountHeartbeat("http", metrics.OutcomeFailed)
		}
		abortWithError(c, err)
		return
	}

	metrics.CountHeartbeat("http", metrics.OutcomeStored)
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"rig_id":    ack.RigID,
		"timestamp": ack.Timestamp,
	})
}

func (rs *RestfulServer) ListRigs(c *gin.Context) {
	rigs, err := rs.Fleet.Query.ListRigs(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(rigs),
		"rigs":  rigs,
	})
}

func (rs *RestfulServer) GetRig(c *gin.Context) {
	detail, err := rs.Fleet.Query.GetRig(c.Request.Context(), c.Param("rig_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (rs *RestfulServer) ListHeartbeats(c *gin.Context) {
	limit := 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			abortWithDetail(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	page, err := rs.Fleet.Query.ListHeartbeats(c.Request.Context(), c.Param("rig_id"), limit, c.Query("cursor"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{
		"count":      len(page.Heartbeats),
		"heartbeats": page.Heartbeats,
	}
	if page.NextCursor != "" {
		resp["next_cursor"] = page.NextCursor
	}
	c.JSON(http.StatusOK, resp)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().Required().GTE(0),
	"Burst": z.Int().Required().GTE(0),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	rigID := c.Param("rig_id")

	var req LimiterRequest
	if issues := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); issues != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid limiter request: "+flattenIssues(issues))
		return
	}

	if !rs.SetLimiter(rigID, req.Rate, req.Burst) {
		abortWithDetail(c, http.StatusConflict, "Rate limiting is disabled")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rig_id": rigID,
		"rate":   req.Rate,
		"burst":  req.Burst,
	})
}

// flattenIssues renders a zog issue map as "field: message" pairs in a stable order.
func flattenIssues(issues map[string][]*z.ZogIssue) string {
	var parts []string
	for field, list := range issues {
		if strings.HasPrefix(field, "$") {
			continue
		}
		for _, issue := range list {
			parts = append(parts, field+": "+issue.Message)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
