package middleware

import (
	"net/http"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/pkg/logger"
)

// UserContext adds the authenticated user id and email to the request logger. Mount it after the auth middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := internal.UserIDFromContext(r.Context())
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		fields := []any{"userID", userID}
		if email := internal.EmailFromContext(r.Context()); email != "" {
			fields = append(fields, "userEmail", email)
		}
		ctx := logger.With(r.Context(), fields...)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
