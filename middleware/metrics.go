package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialbbs/utils"
)

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		// Route templates keep label cardinality bounded; unmatched paths share one label
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		utils.HTTPRequestsTotal.WithLabelValues(route, ctx.Request.Method, strconv.Itoa(ctx.Writer.Status())).Inc()
		utils.HTTPRequestDuration.WithLabelValues(route, ctx.Request.Method).Observe(time.Since(start).Seconds())
	}
}
