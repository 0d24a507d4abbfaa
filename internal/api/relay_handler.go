package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/config"
	"chat-relay/internal/llm"
	"chat-relay/internal/memory"
	"chat-relay/internal/reflection"
)

// Sampling defaults applied when the caller omits a parameter.
const (
	defaultTemperature      = 0.6
	defaultTopP             = 1.0
	defaultTopK             = 40
	defaultMaxTokens        = 4096
	defaultPresencePenalty  = 0.0
	defaultFrequencyPenalty = 0.0
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound request body. Pointer fields distinguish
// "omitted" from an explicit zero so defaults only fill real gaps.
type ChatRequest struct {
	Model            string            `json:"model"`
	Messages         []ChatMessage     `json:"messages"`
	Temperature      *float64          `json:"temperature"`
	TopP             *float64          `json:"top_p"`
	TopK             *int              `json:"top_k"`
	MaxTokens        *int              `json:"max_tokens"`
	PresencePenalty  *float64          `json:"presence_penalty"`
	FrequencyPenalty *float64          `json:"frequency_penalty"`
	Stream           bool              `json:"stream"`
	Tools            []json.RawMessage `json:"tools"`
	ToolChoice       json.RawMessage   `json:"tool_choice"`
	CurrentThreadID  string            `json:"currentThreadId"`
}

// ReflectionSaver is the write side of the reflection store.
type ReflectionSaver interface {
	Save(ctx context.Context, threadID string, r reflection.Reflection) (string, error)
}

// MemoryWriter records conversation turns with the long-term memory service.
type MemoryWriter interface {
	Add(ctx context.Context, apiKey string, turns []memory.Turn, userID string) error
}

// RelayHandler proxies a chat-completion request upstream. Streamed responses
// are piped through unmodified; buffered responses get reflection extraction,
// best-effort persistence, and a best-effort memory write before the upstream
// body is returned verbatim.
func RelayHandler(client *llm.Client, store ReflectionSaver, mem MemoryWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "invalid JSON body",
			})
			return
		}

		var missing []string
		if req.Model == "" {
			missing = append(missing, "model")
		}
		if len(req.Messages) == 0 {
			missing = append(missing, "messages")
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "missing required field(s): " + strings.Join(missing, ", "),
			})
			return
		}

		// Credentials are read per request, never cached
		inferenceKey := os.Getenv(config.EnvInferenceAPIKey)
		memoryKey := os.Getenv(config.EnvMemoryAPIKey)
		if inferenceKey == "" || memoryKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "server_config",
				"message": "missing API credentials",
			})
			return
		}

		payload := buildUpstreamPayload(&req)

		if req.Stream {
			relayStream(c, client, inferenceKey, payload)
			return
		}

		ctx := c.Request.Context()
		res, err := client.Complete(ctx, inferenceKey, payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "upstream_failure",
				"message": err.Error(),
			})
			return
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			c.Data(res.StatusCode, contentTypeOrJSON(res.ContentType), res.Body)
			return
		}

		reply := llm.ReplyText(res.Body)

		threadID := req.CurrentThreadID
		if threadID == "" {
			threadID = reflection.DefaultThreadID
		}
		for _, ref := range reflection.Extract(reply) {
			if _, err := store.Save(ctx, threadID, ref); err != nil {
				log.Printf("[Relay] reflection write failed (thread %s): %v", threadID, err)
			}
		}

		if lastUser, ok := lastUserMessage(req.Messages); ok && reply != "" {
			userID := req.CurrentThreadID
			if userID == "" {
				userID = memory.DefaultUserID
			}
			turns := []memory.Turn{
				{Role: "user", Content: lastUser},
				{Role: "assistant", Content: reply},
			}
			if err := mem.Add(ctx, memoryKey, turns, userID); err != nil {
				log.Printf("[Relay] memory write failed (user %s): %v", userID, err)
			}
		}

		c.Data(http.StatusOK, contentTypeOrJSON(res.ContentType), res.Body)
	}
}

// relayStream pipes the upstream event stream to the caller chunk by chunk.
// Upstream errors before the stream starts are relayed verbatim; a mid-stream
// failure produces a single terminal event before the connection closes.
func relayStream(c *gin.Context, client *llm.Client, apiKey string, payload map[string]interface{}) {
	resp, err := client.Stream(c.Request.Context(), apiKey, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "upstream_failure",
			"message": err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.Data(resp.StatusCode, contentTypeOrJSON(resp.Header.Get("Content-Type")), body)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			c.Writer.Flush()
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Printf("[Relay] stream interrupted: %v", err)
			fmt.Fprint(c.Writer, "data: {\"error\":\"stream_interrupted\"}\n\n")
			c.Writer.Flush()
			return
		}
	}
}

// buildUpstreamPayload merges caller-supplied values over the defaults.
// tools/tool_choice ride along only when tools were supplied.
func buildUpstreamPayload(req *ChatRequest) map[string]interface{} {
	payload := map[string]interface{}{
		"model":             req.Model,
		"messages":          req.Messages,
		"temperature":       floatOr(req.Temperature, defaultTemperature),
		"top_p":             floatOr(req.TopP, defaultTopP),
		"top_k":             intOr(req.TopK, defaultTopK),
		"max_tokens":        intOr(req.MaxTokens, defaultMaxTokens),
		"presence_penalty":  floatOr(req.PresencePenalty, defaultPresencePenalty),
		"frequency_penalty": floatOr(req.FrequencyPenalty, defaultFrequencyPenalty),
		"stream":            req.Stream,
	}
	if len(req.Tools) > 0 {
		payload["tools"] = req.Tools
		if len(req.ToolChoice) > 0 {
			payload["tool_choice"] = req.ToolChoice
		}
	}
	return payload
}

func lastUserMessage(messages []ChatMessage) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content, true
		}
	}
	return "", false
}

func contentTypeOrJSON(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}

func floatOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
