package api

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	catalogHandler "github.com/takeourcarsnow/receptai.fun/internal/api/handlers/catalog"
	"github.com/takeourcarsnow/receptai.fun/internal/api/handlers/health"
	priceHandler "github.com/takeourcarsnow/receptai.fun/internal/api/handlers/price"
	recipeHandler "github.com/takeourcarsnow/receptai.fun/internal/api/handlers/recipe"
	"github.com/takeourcarsnow/receptai.fun/internal/api/middleware"
	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/service"
	"github.com/takeourcarsnow/receptai.fun/internal/core/catalog"
	"github.com/takeourcarsnow/receptai.fun/internal/core/price"
	recipeService "github.com/takeourcarsnow/receptai.fun/internal/core/recipe"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/config"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/metrics"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/redisstore"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由依賴的服務
type Services struct {
	Catalog *catalog.Catalog
	Prices  *price.Service
	Recipes *recipeService.Service

	// 以下可為 nil
	AI      *service.Service
	Limiter middleware.Limiter
	Dedup   *middleware.Deduplicator
	Redis   *redisstore.Store
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()
	// 允許 %2F 等編碼字元出現在食材名稱中
	router.UseRawPath = true

	// 註冊基礎中間件
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.RequestContext())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.Recovery())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID", "Retry-After"},
		MaxAge:          12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.Server.RequestTimeout > 0 {
		router.Use(requestTimeout(cfg.Server.RequestTimeout))
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, svc.Prices.Cache(), svc.AI)
	if svc.Redis != nil {
		healthHandler.AddDependency("redis", svc.Redis)
	}
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API 路由組
	api := router.Group("/api")
	if svc.Dedup != nil {
		api.Use(svc.Dedup.Middleware())
	}
	{
		catalogH := catalogHandler.NewHandler(svc.Catalog)
		api.GET("/catalog", catalogH.List)
		api.GET("/ingredients", catalogH.List)

		api.GET("/prices/:ingredient", priceHandler.NewHandler(svc.Prices).Get)

		recipeHandlers := []gin.HandlerFunc{}
		if svc.Limiter != nil {
			recipeHandlers = append(recipeHandlers, middleware.RateLimit(svc.Limiter))
		}
		recipeHandlers = append(recipeHandlers, recipeHandler.NewHandler(svc.Recipes, cfg.App.Debug).Generate)
		api.POST("/recipe", recipeHandlers...)
		api.POST("/generate-recipe", recipeHandlers...)
	}

	router.NoRoute(staticFallback(cfg.Server.StaticDir))

	common.LogInfo("Router setup completed successfully",
		zap.String("static_dir", cfg.Server.StaticDir),
		zap.Bool("rate_limit", svc.Limiter != nil),
		zap.Bool("dedup", svc.Dedup != nil),
		zap.Bool("redis", svc.Redis != nil),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

// requestTimeout 為請求上下文設置整體時限
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogWarn("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
				zap.Duration("timeout", timeout),
			)
		}
	}
}

// staticFallback 未知的 /api 路徑返回 JSON 404，其餘路徑提供靜態檔案，找不到時回退到 index.html
func staticFallback(dir string) gin.HandlerFunc {
	notFound := func(c *gin.Context) {
		c.JSON(common.ErrNotFound.Status, common.ErrNotFound.Response(""))
	}

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") || dir == "" {
			notFound(c)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}

		// path.Clean 以根目錄為基準，避免跳出靜態目錄
		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			notFound(c)
			return
		}
		c.File(index)
	}
}
