package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const (
	deepgramBaseURL     = "https://api.deepgram.com"
	transcriptionModel  = "nova-2"
	transcriptionLocale = "en"
)

// Transcriber converts an audio file into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// DeepgramClient calls the Deepgram pre-recorded transcription endpoint.
type DeepgramClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewDeepgramClient(apiKey string) *DeepgramClient {
	return &DeepgramClient{
		apiKey:  apiKey,
		baseURL: deepgramBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// NewDeepgramClientWithBaseURL is used by tests to point at a stub server.
func NewDeepgramClientWithBaseURL(apiKey, baseURL string) *DeepgramClient {
	c := NewDeepgramClient(apiKey)
	c.baseURL = baseURL
	return c
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends the audio file for transcription with punctuation and
// paragraphing enabled. The transcript is mandatory: an empty result is an
// error.
func (c *DeepgramClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer audio.Close()

	params := url.Values{}
	params.Set("model", transcriptionModel)
	params.Set("smart_format", "true")
	params.Set("punctuate", "true")
	params.Set("paragraphs", "true")
	params.Set("language", transcriptionLocale)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/listen?"+params.Encode(), audio)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "audio/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription service returned status %d", resp.StatusCode)
	}

	var dgResp deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&dgResp); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	if len(dgResp.Results.Channels) == 0 || len(dgResp.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("no transcript in response")
	}

	transcript := dgResp.Results.Channels[0].Alternatives[0].Transcript
	if transcript == "" {
		return "", fmt.Errorf("empty transcript")
	}

	return transcript, nil
}
