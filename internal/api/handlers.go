package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/config"
	"chat-relay/internal/reflection"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host": cfg.Server.Host,
				"port": cfg.Server.Port,
			},
			"upstream": gin.H{"url": cfg.Upstream.URL},
			"memory":   gin.H{"url": cfg.Memory.URL},
		})
	}
}

// ReflectionLister is the read side of the reflection store.
type ReflectionLister interface {
	ListByThread(ctx context.Context, threadID string) ([]reflection.Record, error)
}

// GET /api/reflections/:thread
func ListReflectionsHandler(store ReflectionLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		thread := c.Param("thread")
		records, err := store.ListByThread(c.Request.Context(), thread)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "storage_failure",
				"message": "failed to fetch reflections",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"thread":      thread,
			"reflections": records,
		})
	}
}
