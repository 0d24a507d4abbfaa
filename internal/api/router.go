package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/config"
	"chat-relay/internal/llm"
	"chat-relay/internal/memory"
	"chat-relay/internal/reflection"
)

func SetupRouter(cfg *config.Config, client *llm.Client, store *reflection.Store, mem *memory.Client) *gin.Engine {
	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "method_not_allowed",
			"message": "method not allowed",
		})
	})
	r.Use(corsMiddleware())

	r.GET("/health", healthHandler)
	r.GET("/config", configHandler(cfg))

	// Core relay plus the read path for stored reflections
	r.POST("/api/chat", RelayHandler(client, store, mem))
	r.GET("/api/reflections/:thread", ListReflectionsHandler(store))

	return r
}

// corsMiddleware permits all origins and short-circuits preflight requests
// with an empty success response.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
