package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/toakuai/internal/middleware"
)

// DictionaryService はルーターが必要とするサービスインターフェースの集合。
// dictionary.Serviceが満たす。
type DictionaryService interface {
	UserServiceInterface
	WordServiceInterface
	CommentServiceInterface
	VoteServiceInterface
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Service DictionaryService

	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	MaxBodyBytes      int64

	// 運用
	HealthChecker  HealthChecker
	Metrics        middleware.HTTPObserver // nilの場合はHTTPメトリクスを記録しない
	MetricsHandler http.Handler            // nilの場合は/metricsを公開しない
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → Recovery → SecurityHeaders → CORS → Logging → Metrics → BodyLimit → RateLimit(General)
//
// 書き込み系（POST/DELETE）には追加でRateLimit(Write)を適用する。
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	// --- 運用ルート ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	userHandler := NewUserHandler(deps.Service)
	wordHandler := NewWordHandler(deps.Service)
	commentHandler := NewCommentHandler(deps.Service)
	voteHandler := NewVoteHandler(deps.Service)

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodyBytes
	}

	// --- 辞書API ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewBodyLimitMiddleware(maxBody))

		write := func(h http.HandlerFunc) http.Handler { return h }
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
			wm := deps.RateLimiter.WriteMiddleware()
			write = func(h http.HandlerFunc) http.Handler { return wm(h) }
		}

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/{id}", userHandler.GetUser)
			r.Get("/by-name/{username}", userHandler.GetUserByName)
		})

		r.Route("/api/words", func(r chi.Router) {
			r.Get("/", wordHandler.FindWord)
			r.Method(http.MethodPost, "/", write(wordHandler.CreateWord))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", wordHandler.GetWord)
				r.Method(http.MethodDelete, "/", write(wordHandler.DeleteWord))

				r.Get("/comments", commentHandler.ListComments)
				r.Method(http.MethodPost, "/comments", write(commentHandler.AddComment))

				r.Get("/votes", wordHandler.WordVotes)
			})
		})

		r.Get("/api/comments/{id}", commentHandler.GetComment)
		r.Method(http.MethodPost, "/api/votes", write(voteHandler.CastVote))
	})

	return r
}
