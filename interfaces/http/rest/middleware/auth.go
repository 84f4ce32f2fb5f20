package middleware

import (
	"context"
	"errors"
	"mime"
	"net"
	"net/http"
	"strings"

	"orgchart-backend/pkg/auth"
	apperrors "orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

type contextKey string

const claimsKey contextKey = "editorClaims"

// maxFormMemory is the part of a multipart body kept in memory while parsing
const maxFormMemory = 8 << 20

// TokenField is the form field carrying the editor token on the current API
const TokenField = "authToken"

// ClaimsFromContext returns the editor claims stored by Authenticate
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// WithClaims stores editor claims in ctx
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Authenticate validates the editor token before any handler logic runs. The
// token is read from the named form field, falling back to an
// Authorization: Bearer header. Tokens issued for another chart are refused.
func Authenticate(
	validator *auth.JWTValidator,
	chartKey string,
	field string,
	errHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ParseForm(r); err != nil {
				errHandler.Handle(w, r, apperrors.NewValidationError("malformed form body").WithCause(err))
				return
			}

			token := r.FormValue(field)
			if token == "" {
				token = extractToken(r)
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Rejected editor token", zap.Error(err), zap.String("path", r.URL.Path))
				errHandler.Handle(w, r, apperrors.NewUnauthorizedError(unauthorizedMessage(err)))
				return
			}
			if claims.ChartKey != chartKey {
				errHandler.Handle(w, r, apperrors.NewUnauthorizedError("Token was issued for another chart"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RateLimit rejects clients exceeding the per-IP request budget
func RateLimit(limiter *auth.IPRateLimiter, errHandler *apperrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), getClientIP(r))
			if err != nil || !allowed {
				errHandler.Handle(w, r, apperrors.NewRateLimitError(limiter.Limit(), "minute"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimit caps the request body size
func BodyLimit(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ParseForm parses urlencoded and multipart bodies once; later calls are no-ops
func ParseForm(r *http.Request) error {
	if r.MultipartForm != nil || r.PostForm != nil {
		return nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		err := r.ParseMultipartForm(maxFormMemory)
		if errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
		return err
	}
	return r.ParseForm()
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Missing auth token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid auth token"
	}
}

// extractToken reads a bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return authHeader
}

// getClientIP returns the host part of RemoteAddr. Forwarding headers are
// only honoured when the router runs chi's RealIP in front of this.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
