// Package speech turns bulletin text into audio via the Google Cloud
// Text-to-Speech REST API.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultBaseURL = "https://texttospeech.googleapis.com/v1"

// Synthesizer is a thin client for the text:synthesize endpoint. Voice and
// audio parameters are fixed for the bulletin's radio-style delivery.
type Synthesizer struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string // overridable for testing
}

// NewSynthesizer creates a Synthesizer using the shared outbound HTTP client.
func NewSynthesizer(client *http.Client, apiKey string) *Synthesizer {
	return &Synthesizer{
		apiKey:     apiKey,
		httpClient: client,
		baseURL:    defaultBaseURL,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		VolumeGainDB  float64 `json:"volumeGainDb"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

// Synthesize converts text to LINEAR16 audio bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("text-to-speech api key is not configured")
	}

	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = "en-GB"
	reqBody.Voice.Name = "en-GB-Neural2-F"
	reqBody.Voice.SSMLGender = "FEMALE"
	reqBody.AudioConfig.AudioEncoding = "LINEAR16"
	reqBody.AudioConfig.SpeakingRate = 1.0
	reqBody.AudioConfig.VolumeGainDB = 6.0
	reqBody.AudioConfig.Pitch = -4

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/text:synthesize", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return nil, fmt.Errorf("synthesize failed (HTTP %d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("synthesize failed (HTTP %d): %s", resp.StatusCode, apiErr.Error.Message)
	}

	var out struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode synthesize response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}
