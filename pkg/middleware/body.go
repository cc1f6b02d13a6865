package middleware

import "net/http"

// MaxBodySize limits request bodies to limit bytes. Reads past the limit
// fail with *http.MaxBytesError, which handlers report as a bad request.
func MaxBodySize(limit int64) Func {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
