// Package imghost uploads images to the external hosting service and
// returns their durable URLs.
package imghost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the image hosting API.
type Client struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewClient creates an upload client with the given credentials.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// uploadPayload is the JSON body sent to the upload endpoint. Exactly
// one of File (base64 image data) or URL (remote fetch) is set.
type uploadPayload struct {
	File string `json:"file,omitempty"`
	URL  string `json:"url,omitempty"`
	Name string `json:"name,omitempty"`
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends raw image bytes and returns the hosted secure URL.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	return c.send(ctx, uploadPayload{
		File: base64.StdEncoding.EncodeToString(data),
		Name: name,
	})
}

// UploadFromURL asks the host to fetch a remote image itself.
func (c *Client) UploadFromURL(ctx context.Context, remoteURL string) (string, error) {
	return c.send(ctx, uploadPayload{URL: remoteURL})
}

func (c *Client) send(ctx context.Context, payload uploadPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/upload", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image host returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("image host response missing secure_url")
	}
	return out.SecureURL, nil
}
