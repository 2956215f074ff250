package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/toakuai/internal/config"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/dictionary"
	"github.com/hitoshi/toakuai/internal/handler"
	"github.com/hitoshi/toakuai/internal/logger"
	"github.com/hitoshi/toakuai/internal/metrics"
	"github.com/hitoshi/toakuai/internal/middleware"
	"github.com/hitoshi/toakuai/internal/repository"
	"github.com/hitoshi/toakuai/internal/vote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込んでログレベルを反映する。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	level := logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ログレベルの反映
	l, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Warn("unknown LOG_LEVEL, falling back to info", slog.String("log_level", cfg.LogLevel))
	}
	level.Set(l)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, err := ParseCommand(args)
	if err != nil {
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// poolConfig はConfigからコネクションプールの設定を組み立てる。
func poolConfig(cfg *config.Config) database.PoolConfig {
	return database.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		AcquireTimeout:  cfg.DBAcquireTimeout,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}
}

// Server はHTTPハンドラーと停止処理をまとめたもの。
type Server struct {
	Handler http.Handler
	stop    func()
}

// Close はバックグラウンドで動くレートリミッターのクリーンアップを停止する。
func (s *Server) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// NewServer はプールから全依存関係をワイヤリングし、HTTPハンドラーを構築する。
// メトリクスはregに登録する。
func NewServer(cfg *config.Config, pool *database.Pool, reg *prometheus.Registry) *Server {
	// 1. メトリクス
	collector := metrics.NewCollector(reg)
	metrics.RegisterDBStats(reg, pool.DB())
	pool.SetObserver(collector)

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(pool)
	wordRepo := repository.NewPostgresWordRepo(pool)
	commentRepo := repository.NewPostgresCommentRepo(pool)
	voteRepo := repository.NewPostgresVoteRepo(pool)

	// 3. ドメインサービスの初期化
	aggregator := vote.NewAggregator(voteRepo)
	service := dictionary.NewService(userRepo, wordRepo, commentRepo, voteRepo, aggregator)

	// 4. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitWrite),
	)
	metrics.RegisterRateLimiter(reg, rateLimiter)

	router := handler.NewRouter(&handler.RouterDeps{
		Service:           service,
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		HealthChecker:     pool,
		Metrics:           collector,
		MetricsHandler:    metrics.Handler(reg),
	})

	return &Server{Handler: router, stop: rateLimiter.Stop}
}

// newRegistry はプロセスとランタイムのコレクタを登録したレジストリを返す。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続（失敗時はリトライしない）
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(connectCtx, poolConfig(cfg))
	cancelConnect()
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("database connection established",
		slog.Int("max_conns", cfg.DBMaxConns),
		slog.Duration("acquire_timeout", cfg.DBAcquireTimeout),
	)

	// 2. ワイヤリング
	srv := NewServer(cfg, pool, newRegistry())
	defer srv.Close()

	// 3. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
// URL形式でない接続文字列は全体を伏せる。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
