// Package vision is a client for the Azure Computer Vision image
// segmentation API, used for remote background removal.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIVersion is the segmentation API version requested.
const APIVersion = "2023-02-01-preview"

// DefaultTimeout bounds a single segmentation request.
const DefaultTimeout = 60 * time.Second

// Mode selects what the segmentation endpoint returns.
type Mode string

const (
	// ModeBackgroundRemoval returns the foreground on a transparent background.
	ModeBackgroundRemoval Mode = "backgroundRemoval"

	// ModeForegroundMatting returns a grayscale alpha matte of the foreground.
	ModeForegroundMatting Mode = "foregroundMatting"
)

// ErrMissingCredentials is returned by NewClient when the key, region or
// endpoint is empty.
var ErrMissingCredentials = errors.New("missing Azure Computer Vision credentials")

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("vision API returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("vision API returned status %d: %s", e.StatusCode, e.Message)
}

// errorResponse is the JSON error envelope returned by the service.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client provides access to the segmentation API.
type Client struct {
	endpoint   string
	apiKey     string
	region     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for the resource at endpoint, e.g.
// "https://myresource.cognitiveservices.azure.com".
func NewClient(endpoint, apiKey, region string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" || apiKey == "" || region == "" {
		return nil, ErrMissingCredentials
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		region:     region,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SegmentURL returns the request URL for mode.
func (c *Client) SegmentURL(mode Mode) string {
	q := url.Values{}
	q.Set("api-version", APIVersion)
	q.Set("mode", string(mode))
	return c.endpoint + "/computervision/imageanalysis:segment?" + q.Encode()
}

// Segment uploads the encoded image and returns the processed image bytes
// (PNG) produced by the service.
func (c *Client) Segment(ctx context.Context, mode Mode, image []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SegmentURL(mode), bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, body)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("vision API returned an empty image")
	}
	return body, nil
}

// RemoveBackground is Segment with ModeBackgroundRemoval.
func (c *Client) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	return c.Segment(ctx, ModeBackgroundRemoval, image)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
}

func parseError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Message: "failed to process image"}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		apiErr.Code = er.Error.Code
		apiErr.Message = er.Error.Message
	}
	return apiErr
}
