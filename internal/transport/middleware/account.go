package middleware

import (
	"context"
	"net/http"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/pkg/ctxutil"
)

// AccountFromCtx returns the authenticated account or domain.ErrUnauthorized.
// Use in REST handlers, not as HTTP middleware.
func AccountFromCtx(ctx context.Context) (domain.AccountID, error) {
	id, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return domain.AccountID(id), nil
}

// RequireAccount rejects requests that carry no authenticated account.
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.AccountIDFromCtx(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
