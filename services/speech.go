package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const speechTimeout = 15 * time.Second

// SpeechProvider synthesizes narration audio. This is a best-effort side
// channel: callers never fail a primary response on a synthesis error.
type SpeechProvider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type ElevenLabsService struct {
	APIKey     string
	VoiceID    string
	BaseURL    string
	HTTPClient *http.Client
}

func NewElevenLabsService() *ElevenLabsService {
	return &ElevenLabsService{
		APIKey:     os.Getenv("ELEVENLABS_API_KEY"),
		VoiceID:    GetEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		BaseURL:    "https://api.elevenlabs.io",
		HTTPClient: &http.Client{Timeout: speechTimeout},
	}
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (s *ElevenLabsService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(elevenLabsRequest{Text: text, ModelID: "eleven_multilingual_v2"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", s.BaseURL, s.VoiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %v: %w", err, ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech synthesis returned status %d: %s: %w", resp.StatusCode, string(body), ErrUpstreamUnavailable)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %v: %w", err, ErrUpstreamUnavailable)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech synthesis returned no audio: %w", ErrEmptyResponse)
	}
	return audio, nil
}
