package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
)

// loggingTransport wraps the HTTP transport to stamp each outgoing request
// with a correlation id and log its outcome. This is the client-side
// counterpart of server request-logging middleware: method, path, status,
// duration, one line per call.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func newLoggingTransport(base http.RoundTripper, logger *slog.Logger) *loggingTransport {
	return &loggingTransport{base: base, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := xid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("request_id", requestID),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t.logger.Debug("request completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
