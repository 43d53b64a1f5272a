package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/service"
	"github.com/takeourcarsnow/receptai.fun/internal/core/price"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Runtime    map[string]interface{} `json:"runtime"`
	PriceCache *price.Stats           `json:"price_cache,omitempty"`
	AI         *service.Status        `json:"ai,omitempty"`
}

// Pinger 外部依賴的連線檢查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler 健康檢查處理器
type Handler struct {
	version    string
	priceCache *price.Cache
	ai         *service.Service
	deps       map[string]Pinger
}

// NewHandler 創建健康檢查處理器，priceCache 與 ai 可為 nil
func NewHandler(version string, priceCache *price.Cache, ai *service.Service) *Handler {
	return &Handler{
		version:    version,
		priceCache: priceCache,
		ai:         ai,
		deps:       make(map[string]Pinger),
	}
}

// AddDependency 註冊就緒檢查時需要探測的依賴
func (h *Handler) AddDependency(name string, p Pinger) {
	h.deps[name] = p
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.priceCache != nil {
		stats := h.priceCache.GetStats()
		response.PriceCache = &stats
	}
	if h.ai != nil {
		status := h.ai.Status()
		response.AI = &status
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查，任一依賴無法連線時返回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	ready := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			common.LogWarn("Dependency not ready",
				zap.String("dependency", name),
				zap.Error(err),
			)
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"checks": checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
