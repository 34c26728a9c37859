package middleware

import (
	"net/http"

	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

const DefaultMaxBodyBytes = 1 << 20

// MaxBodyBytes caps request bodies at limit bytes, DefaultMaxBodyBytes when
// limit is not positive. Declared lengths above the limit are refused up
// front, other bodies fail when read past it.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				utils.WriteErrorAndStatusCode(w, internal_errors.TooLarge("Request body too large"))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
