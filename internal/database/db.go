package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// ErrAcquireTimeout はAcquireTimeout以内にコネクションを借りられなかった場合のエラー。
var ErrAcquireTimeout = errors.New("timed out waiting for a database connection")

// ErrPoolClosed はClose済みのPoolから借りようとした場合のエラー。
var ErrPoolClosed = errors.New("database pool is closed")

// PoolConfig はコネクションプールの設定。
// 接続文字列はパースせず、そのままドライバに渡す。
type PoolConfig struct {
	DatabaseURL     string
	MaxConns        int           // 同時に借りられるコネクション数の上限（デフォルト: 5）
	AcquireTimeout  time.Duration // コネクション取得待ちの上限（デフォルト: 5s）
	ConnMaxLifetime time.Duration // 0の場合は無期限
}

// Observer はコネクション取得とクエリの結果を受け取る。メトリクス用。
type Observer interface {
	RecordAcquire(wait time.Duration, err error)
	RecordQuery(op string, duration time.Duration, err error)
}

// Pool はリポジトリに注入する上限付きコネクションプール。
// 各操作はAcquireで1本借り、終了時（エラー・キャンセルを含む）に必ずCloseで返却する。
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
	observer       Observer

	closeOnce sync.Once
	closeErr  error
}

// Open はPostgreSQLのコネクションプールを生成する。
// sql.Openは接続を試行しないため、実際の接続確認にはConnectまたはPingを使用すること。
func Open(cfg PoolConfig) (*Pool, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 5
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.AcquireTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Pool{db: db, acquireTimeout: timeout}, nil
}

// Connect はプールを生成し、接続できることを確認する。
// 接続に失敗した場合はリトライせずにエラーを返す。
func Connect(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	p, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return p, nil
}

// SetObserver は観測者を設定する。Acquire開始前に呼ぶこと。
func (p *Pool) SetObserver(o Observer) {
	p.observer = o
}

// ObserveQuery はリポジトリ操作1回分の所要時間と結果を観測者に渡す。
func (p *Pool) ObserveQuery(op string, duration time.Duration, err error) {
	if p.observer != nil {
		p.observer.RecordQuery(op, duration, err)
	}
}

// Acquire はコネクションを1本借りる。
// プールが枯渇している場合はgoroutineを待機させ、AcquireTimeoutを超えるとErrAcquireTimeoutを返す。
// 呼び出し側は必ずdefer conn.Close()で返却すること。
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	start := time.Now()

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.db.Conn(acquireCtx)
	if err != nil {
		err = p.classifyAcquireError(ctx, acquireCtx, err)
	}
	if p.observer != nil {
		p.observer.RecordAcquire(time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (p *Pool) classifyAcquireError(parent, acquireCtx context.Context, err error) error {
	// database/sqlはClose済みを非公開のエラー値で返す
	if err.Error() == "sql: database is closed" {
		return ErrPoolClosed
	}
	// 呼び出し側のキャンセルはそのまま返し、取得待ちの上限超過だけをタイムアウトとして扱う
	if parent.Err() == nil && errors.Is(acquireCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrAcquireTimeout, p.acquireTimeout)
	}
	return fmt.Errorf("failed to acquire connection: %w", err)
}

// Ping はデータベースに接続できるかを確認する。ヘルスチェックにも使用する。
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// PingContext はhandler.HealthCheckerを満たす。
func (p *Pool) PingContext(ctx context.Context) error {
	return p.Ping(ctx)
}

// stats はプールの統計情報を返す。
func (p *Pool) stats() sql.DBStats {
	return p.db.Stats()
}

// DB は内部の*sql.DBを返す。メトリクスコレクタの登録に使用する。
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Close は新規の貸し出しを止め、返却済みのコネクションを閉じる。
// 貸し出し中のコネクションは返却時に閉じられる。複数回呼んでも安全。
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.db.Close()
	})
	return p.closeErr
}
