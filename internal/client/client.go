package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/models"
)

// maxRetries is the number of extra attempts after the first request.
const maxRetries = 2

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	URL        string
}

// StatusError is returned by the typed calls for any status other than 200.
type StatusError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Message)
}

// Client talks to the resumeapp web service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	sleep   func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// WithSleep replaces the wait between retries.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func terminal(status int) bool {
	switch status {
	case http.StatusOK, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError:
		return true
	}
	return false
}

// WebServiceCall sends the request and retries up to twice while the
// status is not one of 200, 400, 404 or 500, waiting 1s then 2s. The last
// response is returned either way. Transport errors are not retried.
func (c *Client) WebServiceCall(ctx context.Context, method, path string, body any) (*Response, error) {
	target := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, target, err)
		}
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if terminal(resp.StatusCode) || attempt >= maxRetries {
			return &Response{StatusCode: resp.StatusCode, Body: data, URL: target}, nil
		}

		delay := time.Duration(attempt+1) * time.Second
		logger.Debug().Int("status", resp.StatusCode).Dur("retry_in", delay).Str("url", target).Msg("retrying request")
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) getJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.WebServiceCall(ctx, method, path, body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: resp.URL, Message: errorMessage(resp.Body)}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", resp.URL, err)
	}
	return nil
}

// errorMessage unwraps the JSON string error body the API returns.
func errorMessage(body []byte) string {
	var msg string
	if err := json.Unmarshal(body, &msg); err == nil {
		return msg
	}
	return string(bytes.TrimSpace(body))
}

func (c *Client) Users(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := c.getJSON(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

func (c *Client) UsersBySkill(ctx context.Context, skill string) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := c.getJSON(ctx, http.MethodGet, "/skill/"+url.PathEscape(skill)+"/users", nil, &users)
	return users, err
}

func (c *Client) Skills(ctx context.Context, userID string) ([]string, error) {
	var skills []string
	err := c.getJSON(ctx, http.MethodGet, "/skills/"+url.PathEscape(userID), nil, &skills)
	return skills, err
}

// Upload sends the file content base64-encoded under its base name.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*models.UploadResponse, error) {
	req := models.UploadRequest{Filename: filename, Data: base64.StdEncoding.EncodeToString(data)}
	var out models.UploadResponse
	if err := c.getJSON(ctx, http.MethodPost, "/resume/upload", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Download(ctx context.Context, userID string) (*models.ResumeDownload, error) {
	var out models.ResumeDownload
	if err := c.getJSON(ctx, http.MethodGet, "/resume/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
