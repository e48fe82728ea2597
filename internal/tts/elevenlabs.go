package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModel   = "eleven_multilingual_v2"
)

// APIError is a non-200 response from the speech provider with the status preserved.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "speech provider API key is invalid or expired"
	case http.StatusForbidden:
		return "speech provider API key does not have access to this voice"
	case http.StatusNotFound:
		return "voice not found, check the voice id"
	case http.StatusTooManyRequests:
		return "speech provider rate limit or quota exceeded, try again later"
	case http.StatusUnprocessableEntity:
		return fmt.Sprintf("speech provider rejected the request: %s", e.Body)
	default:
		return fmt.Sprintf("speech provider returned status %d: %s", e.StatusCode, e.Body)
	}
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Service synthesizes speech through the ElevenLabs text-to-speech API.
type Service struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewService returns nil when no API key is configured.
func NewService(cfg Config) *Service {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Service{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type voiceSettings struct {
	Speed float64 `json:"speed"`
	Pitch float64 `json:"pitch"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func (s *Service) Synthesize(ctx context.Context, req NarrationRequest) (*Result, error) {
	req = req.Normalize()

	body, err := json.Marshal(speechRequest{
		Text:          req.Text,
		ModelID:       s.model,
		VoiceSettings: voiceSettings{Speed: req.Speed, Pitch: req.Pitch},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}

	httpReq.Header.Set("xi-api-key", s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Result{Data: audio, ContentType: contentType}, nil
}
