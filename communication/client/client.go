package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"connect4/communication"
	"connect4/experiments/metrics"
)

// StatusError is returned for non-2xx responses and carries the server's message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	serverURL string
	http      *http.Client
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for the move server at serverURL, e.g. http://127.0.0.1:5001.
func New(serverURL string, options ...Option) *Client {
	c := &Client{ // Default values
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: time.Minute},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Move(ctx context.Context, req communication.MoveRequest) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	err := c.do(ctx, http.MethodPost, communication.MovePath, req, &resp)
	return resp, err
}

func (c *Client) Metrics(ctx context.Context) (metrics.Summary, error) {
	var summary metrics.Summary
	err := c.do(ctx, http.MethodGet, communication.MetricsPath, nil, &summary)
	return summary, err
}

func (c *Client) ResetMetrics(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, communication.MetricsResetPath, struct{}{}, nil)
}

// EndGame records the outcome of a game against the AI; winner 0 is a draw.
func (c *Client) EndGame(ctx context.Context, winner int) error {
	return c.do(ctx, http.MethodPost, communication.GameEndPath, communication.GameEndRequest{Winner: winner}, nil)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, communication.HealthPath, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e communication.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
