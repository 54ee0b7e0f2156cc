package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	audit "consortium/pkg/platform/audit"
	request "consortium/pkg/platform/middleware/request"
	"consortium/pkg/requestcontext"
)

// JWTValidator defines the interface for validating operator tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*OperatorClaims, error)
}

// OperatorClaims is what the middleware needs from a validated token.
type OperatorClaims struct {
	OperatorID string
	Scopes     []string
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type contextKeyScopes struct{}

// GetOperatorID retrieves the authenticated operator from the context.
func GetOperatorID(ctx context.Context) string {
	return requestcontext.OperatorID(ctx)
}

// GetScopes returns the scopes granted to the authenticated operator.
func GetScopes(ctx context.Context) []string {
	scopes, _ := ctx.Value(contextKeyScopes{}).([]string)
	return scopes
}

// WithOperator injects an authenticated operator. Useful in handler tests
// that skip the middleware.
func WithOperator(ctx context.Context, operatorID string, scopes ...string) context.Context {
	ctx = requestcontext.WithOperatorID(ctx, operatorID)
	return context.WithValue(ctx, contextKeyScopes{}, scopes)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid operator bearer token.
// publisher may be nil.
func RequireAuth(validator JWTValidator, publisher AuditPublisher, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				recordFailure(ctx, publisher, "missing token")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				recordFailure(ctx, publisher, "invalid token")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOperator(ctx, claims.OperatorID, claims.Scopes...)))
		})
	}
}

// RequireScope rejects authenticated operators lacking scope.
func RequireScope(scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !slices.Contains(GetScopes(ctx), scope) {
				logger.WarnContext(ctx, "forbidden - missing scope",
					"scope", scope,
					"operator_id", GetOperatorID(ctx),
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Operator lacks required scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func recordFailure(ctx context.Context, publisher AuditPublisher, reason string) {
	if publisher == nil {
		return
	}
	_ = publisher.Emit(ctx, audit.Event{
		Subject:   requestcontext.ClientIP(ctx),
		Action:    string(audit.EventOperatorAuthFailed),
		Decision:  "denied",
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}
