// Package client talks to a running agent over its local HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/reelforge/reelforge-agent/internal/api"
	"github.com/reelforge/reelforge-agent/internal/export"
	"github.com/reelforge/reelforge-agent/internal/playback"
)

// APIError is a non-2xx answer from the agent.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("agent returned HTTP %d (%s): %s [%s]", e.StatusCode, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("agent returned HTTP %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// IsUnauthorized reports whether err means the token was rejected.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			// narration waits on the speech provider
			Timeout: 90 * time.Second,
		},
		logger: logger,
	}
}

// BaseURL returns the agent address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var out api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var out api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) State(ctx context.Context) (*playback.State, error) {
	var out playback.State
	if err := c.do(ctx, http.MethodGet, "/playback/state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Narrate(ctx context.Context, req api.NarrationRequest) (*api.NarrationResponse, error) {
	var out api.NarrationResponse
	if err := c.do(ctx, http.MethodPost, "/narration", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Play(ctx context.Context) (*playback.State, error) {
	return c.transport(ctx, "play")
}

func (c *Client) Pause(ctx context.Context) (*playback.State, error) {
	return c.transport(ctx, "pause")
}

func (c *Client) Toggle(ctx context.Context) (*playback.State, error) {
	return c.transport(ctx, "toggle")
}

func (c *Client) Stop(ctx context.Context) (*playback.State, error) {
	return c.transport(ctx, "stop")
}

func (c *Client) transport(ctx context.Context, op string) (*playback.State, error) {
	var out playback.State
	if err := c.do(ctx, http.MethodPost, "/playback/"+op, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Timeline(ctx context.Context) (*api.TimelineResponse, error) {
	var out api.TimelineResponse
	if err := c.do(ctx, http.MethodGet, "/timeline", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMedia(ctx context.Context) ([]api.MediaResponse, error) {
	var out api.MediaListResponse
	if err := c.do(ctx, http.MethodGet, "/media", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) AddMedia(ctx context.Context, req api.AddMediaRequest) (*api.MediaResponse, error) {
	var out api.MediaResponse
	if err := c.do(ctx, http.MethodPost, "/media", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMedia(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/media/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ExportCaptions(ctx context.Context, req api.ExportCaptionsRequest) (*export.Result, error) {
	var out export.Result
	if err := c.do(ctx, http.MethodPost, "/export/captions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var envelope api.ErrorResponse
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Error
			apiErr.Field = envelope.Field
		}
		c.logger.Debug("agent request failed", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
