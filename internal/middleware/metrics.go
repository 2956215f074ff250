package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPObserver はHTTPリクエストの結果を受け取る。metrics.Collectorが満たす。
type HTTPObserver interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// NewMetricsMiddleware はリクエストごとのステータスと所要時間をobserverに渡すミドルウェアを返す。
// ラベルの爆発を避けるため、パスではなくchiのルートパターンを使う。
func NewMetricsMiddleware(observer HTTPObserver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			observer.RecordHTTPRequest(r.Method, route, rec.statusCode, time.Since(start))
		})
	}
}

// routePattern はchiがマッチしたルートパターンを返す。ハンドラ実行後に呼ぶこと。
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
