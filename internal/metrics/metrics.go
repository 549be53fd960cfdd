// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// アップロードパイプラインやサービス層から利用する。
type MetricsCollector interface {
	RecordScanSuccess()
	RecordScanEmpty()
	RecordScanFailure(reason string)
	RecordQuotaDenied()
	RecordUploadLatency(duration time.Duration)
	RecordNoteCreated()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	scanSuccess   prometheus.Counter
	scanEmpty     prometheus.Counter
	scanFail      *prometheus.CounterVec
	quotaDenied   prometheus.Counter
	uploadLatency prometheus.Histogram
	notesCreated  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scanSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanote_scan_success_total",
			Help: "テキスト抽出に成功しノートを作成したスキャンの合計数",
		}),
		scanEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanote_scan_empty_total",
			Help: "テキストを抽出できなかったスキャンの合計数",
		}),
		scanFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanote_scan_fail_total",
			Help: "処理エラーで完了しなかったスキャンの合計数",
		}, []string{"reason"}),
		quotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanote_quota_denied_total",
			Help: "月間クォータ超過で拒否したアップロードの合計数",
		}),
		uploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanote_upload_latency_seconds",
			Help:    "アップロード処理全体のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanote_notes_created_total",
			Help: "作成されたノートの合計数（手動作成を含む）",
		}),
	}

	reg.MustRegister(
		c.scanSuccess,
		c.scanEmpty,
		c.scanFail,
		c.quotaDenied,
		c.uploadLatency,
		c.notesCreated,
	)

	return c
}

// RecordScanSuccess はノート作成に至ったスキャンを記録する。
func (c *Collector) RecordScanSuccess() {
	c.scanSuccess.Inc()
}

// RecordScanEmpty はテキストが空だったスキャンを記録する。
func (c *Collector) RecordScanEmpty() {
	c.scanEmpty.Inc()
}

// RecordScanFailure は処理エラーで終わったスキャンを記録する。
func (c *Collector) RecordScanFailure(reason string) {
	c.scanFail.WithLabelValues(reason).Inc()
}

// RecordQuotaDenied はクォータ超過による拒否を記録する。
func (c *Collector) RecordQuotaDenied() {
	c.quotaDenied.Inc()
}

// RecordUploadLatency はアップロード処理のレイテンシを記録する。
func (c *Collector) RecordUploadLatency(duration time.Duration) {
	c.uploadLatency.Observe(duration.Seconds())
}

// RecordNoteCreated はノート作成を記録する。
func (c *Collector) RecordNoteCreated() {
	c.notesCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
