package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeStored       = "stored"
	OutcomeRejected     = "rejected"
	OutcomeUnauthorized = "unauthorized"
	OutcomeRateLimited  = "rate_limited"
	OutcomeFailed       = "failed"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigilant_http_requests_total",
			Help: "Total HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	RpcCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigilant_grpc_requests_total",
			Help: "Total gRPC calls by full method and status code.",
		},
		[]string{"method", "code"},
	)

	HeartbeatCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigilant_heartbeats_total",
			Help: "Heartbeat submissions by transport and outcome.",
		},
		[]string{"transport", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RpcCounter, HeartbeatCounter)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware counts requests per matched route template. Unmatched paths
// share a single label so probes cannot blow up cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestCounter.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func CountHeartbeat(transport, outcome string) {
	HeartbeatCounter.WithLabelValues(transport, outcome).Inc()
}
