package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約試行の総数（outcome: success, conflict, not_found, invalid, exhausted, error）
	BookingsTotal *prometheus.CounterVec

	// 行ロック獲得からコミットまでの所要時間
	SeatLockDuration prometheus.Histogram

	// 一時的競合によるリトライの総数
	ReserveRetriesTotal prometheus.Counter

	// 上映回ごとの空き座席キャッシュの更新回数（result: hit, miss, refresh）
	AvailabilityCacheTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking attempts by outcome",
			},
			[]string{"outcome"},
		),
		SeatLockDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seat_lock_duration_seconds",
				Help:    "Time spent holding the per-slot row lock",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		ReserveRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "reserve_retries_total",
				Help: "Total number of reserve retries caused by transient contention",
			},
		),
		AvailabilityCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availability_cache_total",
				Help: "Availability cache operations by result",
			},
			[]string{"result"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.SeatLockDuration,
		m.ReserveRetriesTotal,
		m.AvailabilityCacheTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
