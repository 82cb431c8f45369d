package httputil

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
)

type contextKey string

const nonceKey contextKey = "csp-nonce"

const nonceBytes = 16

// GenerateNonce returns base64url-encoded random bytes for a CSP nonce, or
// "" when the system RNG fails. An empty nonce leaves nonce-gated tags inert.
func GenerateNonce() string {
	var b [nonceBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		slog.Error("csp nonce unavailable", "error", err)
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// WithNonce returns r carrying a fresh nonce, and the nonce itself.
func WithNonce(r *http.Request) (*http.Request, string) {
	nonce := GenerateNonce()
	return r.WithContext(ContextWithNonce(r.Context(), nonce)), nonce
}

func ContextWithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceKey, nonce)
}

// NonceFromContext returns "" when no nonce was attached.
func NonceFromContext(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey).(string)
	return nonce
}
