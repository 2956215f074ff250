// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
	"github.com/hitoshi/toakuai/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "toakuai"

var _ database.Observer = (*Collector)(nil)

// Collector はPrometheusメトリクスを収集する実装。
// database.Observerとmiddleware.HTTPObserverを満たす。
type Collector struct {
	storeOps        *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	acquireWait     prometheus.Histogram
	acquireFailures *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "リポジトリ操作の結果別の合計数",
		}, []string{"op", "outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "リポジトリ操作の所要時間（コネクション取得待ちを含む、秒）",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		acquireWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pool_acquire_wait_seconds",
			Help:      "コネクション取得の待ち時間（秒）",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		}),
		acquireFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_acquire_failures_total",
			Help:      "コネクション取得失敗の理由別の合計数",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTPリクエストのルート・ステータスコード別の合計数",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTPリクエストの処理時間（秒）",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.storeOps,
		c.storeLatency,
		c.acquireWait,
		c.acquireFailures,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// RegisterDBStats はsql.DBStats（使用中・待機中コネクション数など）をレジストリに登録する。
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB) {
	reg.MustRegister(collectors.NewDBStatsCollector(db, namespace))
}

// LimiterCounter はクライアントごとのリミッター数を返す。middleware.RateLimiterが満たす。
type LimiterCounter interface {
	GeneralLimiterCount() int
	WriteLimiterCount() int
}

// RegisterRateLimiter は追跡中のクライアント数を種別ごとのゲージとして登録する。
// 値はスクレイプ時に読み出す。
func RegisterRateLimiter(reg prometheus.Registerer, rl LimiterCounter) {
	gauge := func(limitType string, count func() int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "rate_limit_clients",
			Help:        "レート制限で追跡中のクライアント数",
			ConstLabels: prometheus.Labels{"limit_type": limitType},
		}, func() float64 { return float64(count()) })
	}
	reg.MustRegister(
		gauge("general", rl.GeneralLimiterCount),
		gauge("write", rl.WriteLimiterCount),
	)
}

// RecordAcquire はコネクション取得の待ち時間と失敗理由を記録する。
func (c *Collector) RecordAcquire(wait time.Duration, err error) {
	c.acquireWait.Observe(wait.Seconds())
	if err == nil {
		return
	}

	reason := "error"
	switch {
	case errors.Is(err, database.ErrAcquireTimeout):
		reason = "timeout"
	case errors.Is(err, database.ErrPoolClosed):
		reason = "closed"
	case errors.Is(err, context.Canceled):
		reason = "canceled"
	}
	c.acquireFailures.WithLabelValues(reason).Inc()
}

// RecordQuery はリポジトリ操作1回分の所要時間と結果を記録する。
func (c *Collector) RecordQuery(op string, duration time.Duration, err error) {
	c.storeOps.WithLabelValues(op, Outcome(err)).Inc()
	c.storeLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordHTTPRequest はHTTPリクエストのステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// Outcome はリポジトリ操作のエラーをメトリクスのラベル値に変換する。
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}

	var sErr *repository.StoreError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrRowShapeMismatch):
		return "row_shape_mismatch"
	case errors.Is(err, model.ErrMalformedIdentifier):
		return "malformed_identifier"
	case errors.As(err, &sErr):
		return string(sErr.Kind)
	default:
		return "error"
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
