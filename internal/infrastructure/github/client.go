package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// Config holds GitHub contents API configuration
type Config struct {
	Token   string // Personal access token with repo scope
	Repo    string // "owner/name"
	Branch  string
	BaseURL string // defaults to https://api.github.com
}

// Client is a minimal GitHub contents API client. Every mutation of an
// existing file must carry the file's current blob sha; GitHub rejects a
// stale sha with 409, which is the optimistic-concurrency contract the
// asset store builds on.
type Client struct {
	config     Config
	httpClient *http.Client
}

// ContentResult is the subset of the contents API response we keep
type ContentResult struct {
	SHA         string
	DownloadURL string
	Path        string
}

type contentPayload struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"` // base64
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type contentResponse struct {
	Content struct {
		SHA         string `json:"sha"`
		DownloadURL string `json:"download_url"`
		Path        string `json:"path"`
	} `json:"content"`
	Message string `json:"message"`
}

// NewClient creates a new contents API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// contentsURL escapes each path segment individually; escaping the whole
// path would encode the separators and address the wrong resource
func (c *Client) contentsURL(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.config.BaseURL, c.config.Repo, strings.Join(segments, "/"))
}

// PutContents creates or updates a file. Pass an empty sha to create; pass
// the current blob sha to update an existing file.
func (c *Client) PutContents(ctx context.Context, path string, data []byte, message, sha string) (*ContentResult, error) {
	payload := contentPayload{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     sha,
		Branch:  c.config.Branch,
	}

	resp, err := c.do(ctx, http.MethodPut, c.contentsURL(path), payload)
	if err != nil {
		return nil, err
	}
	return &ContentResult{
		SHA:         resp.Content.SHA,
		DownloadURL: resp.Content.DownloadURL,
		Path:        path,
	}, nil
}

// DeleteContents removes a file, gated on its current blob sha
func (c *Client) DeleteContents(ctx context.Context, path, sha, message string) error {
	payload := contentPayload{
		Message: message,
		SHA:     sha,
		Branch:  c.config.Branch,
	}
	_, err := c.do(ctx, http.MethodDelete, c.contentsURL(path), payload)
	return err
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload contentPayload) (*contentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.config.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contents API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// fall through to decode
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		// GitHub answers 409 (and sometimes 422) when the supplied sha does
		// not match the current blob
		return nil, fmt.Errorf("%w: %s", domain.ErrConcurrencyConflict, apiMessage(respBody))
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, apiMessage(respBody))
	default:
		return nil, fmt.Errorf("contents API returned %d: %s", resp.StatusCode, apiMessage(respBody))
	}

	var decoded contentResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &decoded, nil
}

func apiMessage(body []byte) string {
	var decoded struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		return decoded.Message
	}
	return string(body)
}
