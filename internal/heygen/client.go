package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"url-roaster/internal/config"
)

const (
	// DefaultAvatarID is used whenever the avatar catalog cannot be read.
	DefaultAvatarID = "Viola_public_58_20240509"

	avatarStyle = "normal"
	voiceID     = "1bd001e7e50f421d891986aad5158bc8"

	outputWidth  = 1280
	outputHeight = 720
)

var (
	// ErrSubmission means the render job was never accepted; no job id exists.
	ErrSubmission = errors.New("video submission failed")
	// ErrJobFailed is the terminal "failed" status reported by polling.
	// Credits for the job are already spent at this point.
	ErrJobFailed = errors.New("video rendering failed")
	// ErrNoAvatars means the catalog call succeeded but listed nothing.
	ErrNoAvatars = errors.New("avatar catalog is empty")
	// ErrPollTimeout means MaxPollWait elapsed before a terminal status.
	ErrPollTimeout = errors.New("gave up waiting for video job")
)

// Client talks to the HeyGen avatar-video API: avatar catalog, job
// submission and status polling.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxPollWait  time.Duration
}

// NewClient creates a Client from config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:      cfg.HeyGenBaseURL,
		apiKey:       cfg.HeyGenAPIKey,
		pollInterval: cfg.PollInterval,
		maxPollWait:  cfg.MaxPollWait,
	}
}

// ResolveAvatar queries the avatar catalog and returns the first avatar id.
// Failure is returned explicitly so the fallback decision stays visible in
// the caller; SubmitVideo handles it and never lets it sink the flow.
func (c *Client) ResolveAvatar(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/avatars", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch avatars: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar catalog returned status %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Avatars []struct {
				AvatarID string `json:"avatar_id"`
			} `json:"avatars"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("malformed avatar catalog: %w", err)
	}
	if len(result.Data.Avatars) == 0 {
		return "", ErrNoAvatars
	}
	return result.Data.Avatars[0].AvatarID, nil
}

// SubmitVideo resolves an avatar (falling back to DefaultAvatarID), submits
// a render job for the script and returns the job id. Every call costs
// credits; callers must gate it behind an explicit user confirmation.
func (c *Client) SubmitVideo(ctx context.Context, script string) (string, error) {
	avatarID, err := c.ResolveAvatar(ctx)
	if err != nil {
		log.Printf("[HeyGen] Avatar lookup failed (%v), using fallback %s", err, DefaultAvatarID)
		avatarID = DefaultAvatarID
	} else {
		log.Printf("[HeyGen] Using avatar %s", avatarID)
	}

	payload := map[string]interface{}{
		"video_inputs": []map[string]interface{}{
			{
				"character": map[string]string{
					"type":         "avatar",
					"avatar_id":    avatarID,
					"avatar_style": avatarStyle,
				},
				"voice": map[string]string{
					"type":       "text",
					"input_text": script,
					"voice_id":   voiceID,
				},
			},
		},
		"dimension": map[string]int{"width": outputWidth, "height": outputHeight},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/video/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrSubmission, resp.StatusCode, string(respBody))
	}

	var result struct {
		Error json.RawMessage `json:"error"`
		Data  struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrSubmission, err)
	}
	if len(result.Error) > 0 && string(result.Error) != "null" {
		return "", fmt.Errorf("%w: %s", ErrSubmission, result.Error)
	}
	if result.Data.VideoID == "" {
		return "", fmt.Errorf("%w: response carried no video_id", ErrSubmission)
	}
	return result.Data.VideoID, nil
}

// PollVideo queries job status until it reaches completed or failed,
// sleeping pollInterval between attempts. Non-terminal statuses (pending,
// processing, or anything unrecognized) are reported through progress.
// The loop runs until a terminal status unless ctx is cancelled or
// MaxPollWait is configured and elapses.
func (c *Client) PollVideo(ctx context.Context, jobID string, progress func(status string)) (string, error) {
	statusURL := fmt.Sprintf("%s/v1/video_status.get?video_id=%s", c.baseURL, url.QueryEscape(jobID))

	var deadline time.Time
	if c.maxPollWait > 0 {
		deadline = time.Now().Add(c.maxPollWait)
	}

	for {
		status, videoURL, err := c.videoStatus(ctx, statusURL)
		if err != nil {
			return "", err
		}

		switch status {
		case "completed":
			return videoURL, nil
		case "failed":
			return "", ErrJobFailed
		}

		if progress != nil {
			progress(status)
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return "", fmt.Errorf("%w after %s (job %s still %s)", ErrPollTimeout, c.maxPollWait, jobID, status)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) videoStatus(ctx context.Context, statusURL string) (status, videoURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("status poll failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Data struct {
			Status   string `json:"status"`
			VideoURL string `json:"video_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("malformed status response: %w", err)
	}
	return result.Data.Status, result.Data.VideoURL, nil
}
