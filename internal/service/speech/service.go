// Package speech wraps the hosted speech-to-text API used for voice input.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mindhaven/backend/internal/config"
)

const recognizeURL = "https://speech.googleapis.com/v1/speech:recognize"

// Service calls the recognition endpoint with the configured key.
type Service struct {
	cfg        config.SpeechConfig
	httpClient *http.Client
	baseURL    string
}

// NewService creates the speech client.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    recognizeURL,
	}
}

// Request is one transcription call. Audio is base64-encoded content, the
// way the recognition API expects it.
type Request struct {
	Audio           string `json:"audio"`
	Encoding        string `json:"encoding,omitempty"`
	SampleRateHertz int    `json:"sampleRateHertz,omitempty"`
	LanguageCode    string `json:"languageCode,omitempty"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding,omitempty"`
	SampleRateHertz int    `json:"sampleRateHertz,omitempty"`
	LanguageCode    string `json:"languageCode"`
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe converts recorded audio into text. An empty transcript is not
// an error; it means nothing was recognized.
func (s *Service) Transcribe(ctx context.Context, req Request) (string, error) {
	language := req.LanguageCode
	if language == "" {
		language = s.cfg.Language
	}

	payload := recognizeRequest{
		Config: recognizeConfig{
			Encoding:        req.Encoding,
			SampleRateHertz: req.SampleRateHertz,
			LanguageCode:    language,
		},
	}
	payload.Audio.Content = req.Audio

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"?key="+s.cfg.APIKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("speech response decode failed: %w", err)
	}

	var parts []string
	for _, result := range parsed.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
