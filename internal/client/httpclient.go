package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type tokenKey struct{}

// WithToken returns a context carrying the backend token of the current session.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token stored by WithToken, or an empty string.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// bearerTransport attaches the session token to requests bound for the backend host.
// Redirect hops to any other host go out without it.
type bearerTransport struct {
	next http.RoundTripper
	host string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := TokenFromContext(req.Context())
	if token == "" || !strings.EqualFold(req.URL.Host, t.host) {
		return t.next.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)

	return t.next.RoundTrip(clone)
}

// CreateHTTPClient initializes an HTTP client that injects the bearer token
// found in the request context into requests for the host of backendURL.
func CreateHTTPClient(log *slog.Logger, timeout time.Duration, backendURL string) *http.Client {
	var host string
	if parsed, err := url.Parse(backendURL); err == nil {
		host = parsed.Host
	}

	return &http.Client{
		Transport: &bearerTransport{next: http.DefaultTransport, host: host},
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
