package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go/godeltaprof"
)

// registerProfilingRoutes exposes delta pprof profiles (heap/mutex/block)
// for continuous-profiling scrapers, following the same delta-sampling
// shape Grafana Agent's pyroscope.scrape integration expects.
func registerProfilingRoutes(engine *gin.Engine) {
	heap := godeltaprof.NewHeapProfiler()
	mutex := godeltaprof.NewMutexProfiler()
	block := godeltaprof.NewBlockProfiler()

	debug := engine.Group("/debug/pprof")
	debug.GET("/delta_heap", func(c *gin.Context) {
		c.Header("Content-Type", "application/octet-stream")
		if err := heap.Profile(c.Writer); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	})
	debug.GET("/delta_mutex", func(c *gin.Context) {
		c.Header("Content-Type", "application/octet-stream")
		if err := mutex.Profile(c.Writer); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	})
	debug.GET("/delta_block", func(c *gin.Context) {
		c.Header("Content-Type", "application/octet-stream")
		if err := block.Profile(c.Writer); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	})
}
