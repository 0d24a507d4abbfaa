package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		// No client timeout: streamed completions can run for minutes.
		HTTPClient: &http.Client{Timeout: 0},
	}
}

// Result holds a buffered upstream response, success or not, so the caller
// can relay status and body verbatim.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Complete performs a buffered (non-streaming) chat-completion call.
func (c *Client) Complete(ctx context.Context, apiKey string, payload map[string]interface{}) (*Result, error) {
	resp, err := c.post(ctx, apiKey, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Stream performs a streaming chat-completion call and returns the raw
// response. The caller owns resp.Body and must close it; a non-2xx status is
// returned as-is so its body can be relayed verbatim.
func (c *Client) Stream(ctx context.Context, apiKey string, payload map[string]interface{}) (*http.Response, error) {
	return c.post(ctx, apiKey, payload)
}

func (c *Client) post(ctx context.Context, apiKey string, payload map[string]interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	return resp, nil
}

// ReplyText pulls the assistant's reply out of a buffered chat-completion
// body. Returns "" when the expected field path is absent.
func ReplyText(body []byte) string {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if len(parsed.Choices) == 0 {
		return ""
	}
	return parsed.Choices[0].Message.Content
}
