// Package api is the typed HTTP client for the Mentra backend.
//
// Every method is a thin, sequential mapping onto one REST endpoint: build the
// request, attach the bearer token, decode the JSON response or translate the
// failure into an apperror sentinel. There is no retry, no caching and no
// client-side reconciliation — the backend's response is always authoritative.
//
// WHY ONE do() FUNC INSTEAD OF N HAND-WRITTEN REQUESTS?
// The backend speaks a single dialect: JSON bodies, a bearer token header, and
// failures as {"detail": "..."} with a meaningful status code. Funnelling all
// ~70 endpoints through one request/decode/translate function means the error
// mapping and logging exist exactly once; the per-endpoint methods reduce to
// path + payload + response type, which is the part worth reading.
//
// WHY DOES Client NOT STORE A TOKEN?
// The client holds a TokenSource, not a token. Ownership of the credential
// stays with the session store (the only writer of persisted state); the
// client asks for the current value at send time, so a logout in one part of
// the program is instantly visible to every in-flight caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mentra-app/mentra-cli/internal/apperror"
)

// TokenSource supplies the current bearer token, if any. The Session Store is
// the only production implementation; tests plug in a literal.
type TokenSource interface {
	// Token returns the bearer token and whether one is held.
	Token() (string, bool)
}

// StaticToken is a fixed-token TokenSource, used during the restore handshake
// and in tests.
type StaticToken string

func (t StaticToken) Token() (string, bool) { return string(t), t != "" }

// Client talks to the Mentra REST API rooted at baseURL (".../api").
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// New creates a Client. tokens may be nil for a purely anonymous client.
func New(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newLoggingTransport(http.DefaultTransport, logger),
		},
		tokens: tokens,
		logger: logger,
	}
}

// SetTokenSource attaches the token source after construction. The session
// store and the client depend on each other, so the composition root creates
// the client first and completes the loop with this call before any request.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// WithToken returns a shallow copy of the client bound to a fixed token.
// Used by the Session Store to probe a candidate token before adopting it.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.tokens = StaticToken(token)
	return &clone
}

// detailBody is the error envelope the backend sends on every failure.
type detailBody struct {
	Detail string `json:"detail"`
}

// do runs one request and decodes the JSON response into out (when non-nil).
// Non-2xx responses become *apperror.AppError; transport failures become
// ErrUnavailable. The caller never sees a raw *http.Response.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: building request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail detailBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&detail)
		return apperror.FromStatus(resp.StatusCode, detail.Detail)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// postJSON marshals body as JSON; a nil body sends an empty POST, which is how
// the read/like/follow endpoints are called.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, reader, contentType, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: encoding %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(buf), "application/json", out)
}

func (c *Client) patch(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, "", out)
}

func (c *Client) patchJSON(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: encoding %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPatch, path, bytes.NewReader(buf), "application/json", out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

// download fetches path and returns the raw bytes (PDF reports, materials).
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("api: building download request %s: %w", path, err)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var detail detailBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&detail)
		return nil, apperror.FromStatus(resp.StatusCode, detail.Detail)
	}
	return io.ReadAll(resp.Body)
}

// upload sends a single file as multipart/form-data under fieldName.
func (c *Client) upload(ctx context.Context, path, fieldName, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return fmt.Errorf("api: preparing upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("api: buffering upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: finalising upload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), out)
}

// query builds an escaped query string from pairs, skipping empty values.
// The backend takes several mutation parameters as query fields rather than a
// JSON body (a FastAPI idiosyncrasy the client must mirror).
func query(pairs ...string) string {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			values.Set(pairs[i], pairs[i+1])
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
