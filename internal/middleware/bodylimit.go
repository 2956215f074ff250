package middleware

import (
	"net/http"

	"github.com/hitoshi/toakuai/internal/model"
)

// DefaultMaxBodyBytes はリクエストボディの上限（16 KiB）。
const DefaultMaxBodyBytes int64 = 16 * 1024

// NewBodyLimitMiddleware はリクエストボディをmaxBytesに制限するミドルウェアを返す。
// Content-Lengthが上限を超える場合はハンドラを呼ばずに413を返す。
// Content-Lengthがない場合は読み取り時に上限を超えた時点でデコードエラーになる。
func NewBodyLimitMiddleware(maxBytes int64) func(next http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				WriteAPIError(w, model.NewPayloadTooLargeError())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
