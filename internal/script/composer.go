package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"url-roaster/internal/config"
)

// ErrGeneration wraps any failure of the text-generation call, so callers
// can report the stage distinctly before any video cost is incurred.
var ErrGeneration = errors.New("script generation failed")

// Composer turns scraped page text into a short persona-flavoured script
// via the Gemini generateContent REST endpoint.
type Composer struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewComposer creates a Composer from config.
func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    cfg.GeminiBaseURL,
		model:      cfg.GeminiModel,
		apiKey:     cfg.GeminiAPIKey,
	}
}

// Compose submits the persona prompt for text and returns the trimmed
// generated script. Generation is non-deterministic; only the template
// selection is guaranteed.
func (c *Composer) Compose(ctx context.Context, text string, persona Persona) (string, error) {
	log.Printf("[Script] Writing %s script (%d chars of source text)", persona, len(text))

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": persona.Prompt(text)},
				},
			},
		},
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrGeneration, resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrGeneration, err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response contained no candidates", ErrGeneration)
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	generated := strings.TrimSpace(sb.String())
	if generated == "" {
		return "", fmt.Errorf("%w: model returned empty text", ErrGeneration)
	}
	return generated, nil
}
