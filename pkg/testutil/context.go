package testutil

import (
	"net/http"

	authmw "consortium/pkg/platform/middleware/auth"
)

// WithOperator marks req as authenticated for operatorID with scopes,
// simulating what the auth middleware does.
func WithOperator(req *http.Request, operatorID string, scopes ...string) *http.Request {
	return req.WithContext(authmw.WithOperator(req.Context(), operatorID, scopes...))
}
