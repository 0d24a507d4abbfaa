package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserID namespaces memory writes when the caller omits a thread id.
const DefaultUserID = "default-user"

// Turn is one role/content pair in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client handles communication with the long-term memory service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Add records an ordered list of conversation turns for a user.
func (c *Client) Add(ctx context.Context, apiKey string, turns []Turn, userID string) error {
	payload := map[string]interface{}{
		"messages": turns,
		"user_id":  userID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal memory payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/memories/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create memory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("memory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("memory service returned status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
