package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "receptai"

// HTTP 指標
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	httpActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of in-flight HTTP requests",
		},
	)
)

// 模型呼叫指標
var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total number of model calls by outcome",
		},
		[]string{"provider", "model", "outcome"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "Model call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "model"},
	)
	aiInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ai_inflight_calls",
			Help:      "Model calls currently holding a gate slot, including abandoned ones",
		},
	)
	aiAbandonedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_abandoned_calls_total",
			Help:      "Model calls that completed after the caller stopped waiting",
		},
	)
)

// 食譜與價格指標
var (
	recipeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_generations_total",
			Help:      "Recipe generation results by classification",
		},
		[]string{"result"},
	)
	priceCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_operations_total",
			Help:      "Price cache lookups by result",
		},
		[]string{"result"},
	)
	priceCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_cache_entries",
			Help:      "Entries currently stored in the price cache",
		},
	)
)

// Handler 回傳 /metrics 處理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RequestStarted 記錄請求開始
func RequestStarted() {
	httpActiveRequests.Inc()
}

// RecordRequest 記錄請求完成
func RecordRequest(method, path string, status int, duration time.Duration) {
	httpActiveRequests.Dec()
	statusStr := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
}

// RecordAICall 記錄模型呼叫結果
func RecordAICall(provider, model, outcome string, duration time.Duration) {
	aiRequestsTotal.WithLabelValues(provider, model, outcome).Inc()
	aiRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// SetAIInflight 更新佔用中的模型呼叫數
func SetAIInflight(n int) {
	aiInflight.Set(float64(n))
}

// RecordAbandonedCall 記錄被放棄但仍完成的模型呼叫
func RecordAbandonedCall() {
	aiAbandonedTotal.Inc()
}

// RecordRecipeOutcome 記錄食譜生成結果
func RecordRecipeOutcome(result string) {
	recipeOutcomesTotal.WithLabelValues(result).Inc()
}

// RecordPriceCache 記錄價格快取命中或未命中
func RecordPriceCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	priceCacheTotal.WithLabelValues(result).Inc()
}

// SetPriceCacheEntries 更新價格快取條目數
func SetPriceCacheEntries(n int) {
	priceCacheEntries.Set(float64(n))
}
