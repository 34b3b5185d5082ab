package auth

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"barbershop/internal/respond"
)

// SessionMiddleware attaches the session named by the request cookie to the
// request context. Requests without a valid cookie carry an anonymous session.
func SessionMiddleware(gate *Gate, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := Anonymous()
			if c, err := r.Cookie(cookieName); err == nil {
				sess = gate.Resolve(r.Context(), c.Value)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireAuthenticated rejects anonymous requests with 401 before the wrapped
// handler runs. It must be mounted after SessionMiddleware.
func RequireAuthenticated(gate *Gate, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Authorize(SessionFromContext(r.Context())); err != nil {
				respond.Error(w, logger, uuid.New().String(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
