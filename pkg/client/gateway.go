package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// CredentialReader yields the currently stored credential.
type CredentialReader interface {
	Read() (string, bool)
}

// Gateway sends authenticated requests. It attaches the stored credential
// to every request and ends the session when the backend answers 401.
// It neither retries nor imposes timeouts; use the request context for that.
type Gateway struct {
	creds          CredentialReader
	httpClient     *http.Client
	onUnauthorized func()
	logger         *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway builds a Gateway that reads credentials from creds and calls
// onUnauthorized once for every 401 response.
func NewGateway(creds CredentialReader, onUnauthorized func(), opts ...GatewayOption) *Gateway {
	g := &Gateway{
		creds:          creds,
		httpClient:     &http.Client{},
		onUnauthorized: onUnauthorized,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request builds and sends a request. Caller headers are kept except
// Authorization, which only the Gateway sets.
func (g *Gateway) Request(ctx context.Context, method, url string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return g.Do(req)
}

// Do sends req with the stored credential as a bearer token. The caller's
// request is not modified.
//
// A 401 response is consumed: the logout callback runs and ErrSessionEnded
// is returned with a nil response. Every other status is returned as-is.
// Failing to get any response yields a *TransportError.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k := range req.Header {
		if strings.EqualFold(k, "Authorization") {
			delete(req.Header, k)
		}
	}
	if tok, ok := g.creds.Read(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	reqID := req.Header.Get("X-Request-ID")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Debug("request failed", "method", req.Method, "path", req.URL.Path, "request_id", reqID, "error", err)
		return nil, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	g.logger.Debug("request done", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20)) //nolint:errcheck // drain for connection reuse
		resp.Body.Close()                                     //nolint:errcheck // best-effort close
		g.logger.Warn("authorization rejected, ending session", "method", req.Method, "path", req.URL.Path, "request_id", reqID)
		if g.onUnauthorized != nil {
			g.onUnauthorized()
		}
		return nil, ErrSessionEnded
	}
	return resp, nil
}

// send issues req without credentials, for public endpoints.
func (g *Gateway) send(req *http.Request) (*http.Response, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	return resp, nil
}
