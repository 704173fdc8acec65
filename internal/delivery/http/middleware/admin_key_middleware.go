package middleware

import (
	"crypto/subtle"
	"net/http"

	"clinic-backend/pkg/response"
)

// AdminKeyMiddleware guards destructive public-surface actions (review
// deletion) with an out-of-band key supplied per request in the x-admin-key
// header. The key is never part of a session.
type AdminKeyMiddleware struct {
	key string
}

func NewAdminKeyMiddleware(key string) *AdminKeyMiddleware {
	return &AdminKeyMiddleware{key: key}
}

func (m *AdminKeyMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.key == "" {
			response.Forbidden(w, "Admin key is not configured")
			return
		}
		provided := r.Header.Get("x-admin-key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.key)) != 1 {
			response.Forbidden(w, "Invalid admin key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
