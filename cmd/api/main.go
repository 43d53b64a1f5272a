package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/api"
	"github.com/takeourcarsnow/receptai.fun/internal/api/middleware"
	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/service"
	"github.com/takeourcarsnow/receptai.fun/internal/core/catalog"
	"github.com/takeourcarsnow/receptai.fun/internal/core/price"
	"github.com/takeourcarsnow/receptai.fun/internal/core/recipe"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/config"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/metrics"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/redisstore"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	active := cfg.ActiveProvider()
	common.LogInfo("載入設定",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("key_hint", config.MaskAPIKey(active.APIKey)),
		zap.String("model", active.Model),
		zap.Duration("recipe_timeout", cfg.Recipe.Timeout),
	)

	// 目錄損壞時不啟動
	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		common.LogFatal("Ingredient catalog is corrupt", zap.Error(err))
	}
	common.LogInfo("食材目錄已載入", zap.Int("items", cat.Size()))

	// 價格快取與查詢
	priceCache := price.NewCache(cfg.Price.ValidityWindow, nil)
	priceCache.StartEvery(priceCache.Window(), func(removed, remaining int) {
		metrics.SetPriceCacheEntries(remaining)
		if removed > 0 {
			common.LogDebug("價格快取清理完成",
				zap.Int("removed", removed),
				zap.Int("remaining", remaining),
			)
		}
	})
	defer priceCache.Close()
	prices := price.NewService(priceCache, price.DefaultVendors(nil))

	// AI 與食譜服務
	aiService, err := service.NewService(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize AI service", zap.Error(err))
	}
	defer aiService.Close()
	recipes := recipe.NewService(aiService, recipe.OptionsFromConfig(cfg.Recipe))

	svc := api.Services{
		Catalog: cat,
		Prices:  prices,
		Recipes: recipes,
		AI:      aiService,
	}

	// 限流後端
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case config.RateLimitBackendRedis:
			store, err := redisstore.New(cfg.Redis)
			if err != nil {
				common.LogFatal("Failed to connect rate limit backend", zap.Error(err))
			}
			defer store.Close()
			svc.Redis = store
			svc.Limiter = middleware.NewRedisLimiter(store, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		default:
			svc.Limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
		common.LogInfo("已啟用限流",
			zap.String("backend", cfg.RateLimit.Backend),
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	}

	if cfg.DedupWindow > 0 {
		dedup := middleware.NewDeduplicator(cfg.DedupWindow)
		defer dedup.Close()
		svc.Dedup = dedup
	}

	// 設置路由
	router := api.SetupRouter(cfg, svc)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
