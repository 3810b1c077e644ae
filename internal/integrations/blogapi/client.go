package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// BaseURL is the address of the blog backend
const BaseURL = "http://127.0.0.1:8000"

// Client handles integration with the blog REST backend.
// Every call is a single round trip; failures are logged and
// turned into the sentinel value of the calling method.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new backend client
func NewClient(baseURL string, log *logrus.Logger) *Client {
	return &Client{
		url:    strings.TrimRight(baseURL, "/"),
		client: &http.Client{},
		log:    log,
	}
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: %d", e.Method, e.Path, e.Code)
}

var (
	errEmptyBody = errors.New("empty response body")
	errMissingID = errors.New("response has no id")
)

// checkID rejects single-entity responses that decoded to nothing, such as null
func checkID(id int) error {
	if id == 0 {
		return errMissingID
	}
	return nil
}

// do sends one JSON request and decodes the response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debugf("Backend error body for %s %s: %s", method, path, string(raw))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
