package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/pkg/middleware/requestid"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta initialises response metadata storage on the request context.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records cache hit information for the current response.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// ResponseMeta returns the metadata to attach to a response, stamped with the request id and
// the time spent since start.
func ResponseMeta(c *gin.Context, start time.Time) map[string]interface{} {
	meta := ensureMeta(c)
	if id := requestid.Value(c); id != "" {
		meta["request_id"] = id
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	return meta
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
