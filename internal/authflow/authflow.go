// Package authflow runs the loopback half of the Google sign-in.
//
// The backend finishes the OAuth code exchange itself and redirects the
// browser to the client with the issued token in the query string. Here that
// "client" is a short-lived localhost HTTP listener: we hand the browser off
// to Google, catch the redirect, pull out the token and shut down.
package authflow

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// CallbackPath is where the backend's redirect lands.
const CallbackPath = "/google-callback"

const donePage = `<!doctype html>
<html><body style="font-family: sans-serif; text-align: center; padding-top: 4rem">
<h2>Giriş tamamlandı</h2>
<p>Bu pencereyi kapatıp terminale dönebilirsiniz.</p>
</body></html>`

// Listener catches a single token redirect on localhost.
type Listener struct {
	logger *slog.Logger
	srv    *http.Server
	ln     net.Listener
	tokens chan string
}

// NewListener binds to addr ("127.0.0.1:0" picks a free port). The server is
// not serving until Start.
func NewListener(addr string, logger *slog.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		logger: logger,
		ln:     ln,
		tokens: make(chan string, 1),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get(CallbackPath, l.handleCallback)

	l.srv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return l, nil
}

// RedirectURL is the URL the backend should redirect to, e.g.
// "http://127.0.0.1:53123/google-callback".
func (l *Listener) RedirectURL() string {
	return "http://" + l.ln.Addr().String() + CallbackPath
}

// Start serves in the background until Close.
func (l *Listener) Start() {
	go func() {
		if err := l.srv.Serve(l.ln); err != nil && err != http.ErrServerClosed {
			l.logger.Error("callback listener failed", "error", err)
		}
	}()
}

// Wait blocks until the redirect delivers a token or ctx expires.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	select {
	case token := <-l.tokens:
		return token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops the listener. Safe to call after Wait has returned.
func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.srv.Shutdown(ctx)
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	// Only the first redirect counts; a refresh of the done page is ignored.
	select {
	case l.tokens <- token:
	default:
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(donePage))
}
