package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is the booking API client. Authenticated resources go through the
// Gateway; public ones (login, specialties, doctor directory) are sent
// without credentials.
type Client struct {
	baseURL string
	gw      *Gateway
}

// New creates a new API client.
func New(baseURL string, gw *Gateway) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		gw:      gw,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type access int

const (
	public access = iota
	authenticated
)

func (c *Client) get(ctx context.Context, a access, path string, out any) error {
	return c.doRequest(ctx, a, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, a access, path string, body any, out any) error {
	return c.doRequest(ctx, a, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, a access, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var resp *http.Response
	if a == authenticated {
		resp, err = c.gw.Do(req)
	} else {
		resp, err = c.gw.send(req)
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readHTTPError extracts the server's message from an error body. The
// backend uses "mensaje"; framework-level errors use "message" or "error".
func readHTTPError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Mensaje string `json:"mensaje"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		for _, m := range []string{apiErr.Mensaje, apiErr.Message, apiErr.Error} {
			if m != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: m}
			}
		}
	}
	msg := strings.TrimSpace(string(respBody))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}
