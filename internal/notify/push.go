package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPPushSender implements PushSender against the organization's push
// gateway: a JSON-over-HTTP endpoint that accepts a token batch and reports
// per-token success. Tokens are opaque device identifiers registered by the
// external push-token endpoint.
type HTTPPushSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPPushSender creates a push sender for the given gateway endpoint.
func NewHTTPPushSender(endpoint, apiKey string) *HTTPPushSender {
	return &HTTPPushSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// pushRequest is the gateway's batch send payload.
type pushRequest struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// pushResponse is the gateway's per-token result report.
type pushResponse struct {
	Results []struct {
		Token   string `json:"token"`
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	} `json:"results"`
}

// SendBatch sends the message to every token in the batch. Per-token
// rejections are reflected in the returned count, not as an error; only a
// channel-level failure returns one.
func (s *HTTPPushSender) SendBatch(
	ctx context.Context,
	tokens []string,
	title, body string,
	data map[string]string,
) (int, error) {
	reqBody, err := json.Marshal(pushRequest{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("push gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var result pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode push response: %w", err)
	}

	succeeded := 0
	for _, r := range result.Results {
		if r.Success {
			succeeded++
		}
	}
	return succeeded, nil
}
