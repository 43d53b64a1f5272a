package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 支援的 AI 提供者
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// 支援的限流後端
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	AI          AIConfig        `mapstructure:"ai"`
	Gemini      ProviderConfig  `mapstructure:"gemini"`
	OpenRouter  ProviderConfig  `mapstructure:"openrouter"`
	Recipe      RecipeConfig    `mapstructure:"recipe"`
	Price       PriceConfig     `mapstructure:"price"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Redis       RedisConfig     `mapstructure:"redis"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	StaticDir      string        `mapstructure:"static_dir"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// AIConfig AI 配置
type AIConfig struct {
	Provider    string `mapstructure:"provider"`
	MaxInflight int    `mapstructure:"max_inflight"`
}

// ProviderConfig 單一模型提供者設定
type ProviderConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RecipeConfig 食譜生成設定
type RecipeConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	ParseRetries   int           `mapstructure:"parse_retries"`
	MaxIngredients int           `mapstructure:"max_ingredients"`
}

// PriceConfig 價格快取設定
type PriceConfig struct {
	ValidityWindow time.Duration `mapstructure:"validity_window"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Backend  string        `mapstructure:"backend"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ActiveProvider 回傳目前選用提供者的設定
func (c *Config) ActiveProvider() ProviderConfig {
	if c.AI.Provider == ProviderOpenRouter {
		return c.OpenRouter
	}
	return c.Gemini
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"ai.provider":         "AI_PROVIDER",
		"gemini.api_key":      "GEMINI_API_KEY",
		"gemini.model":        "GEMINI_MODEL",
		"openrouter.api_key":  "OPENROUTER_API_KEY",
		"openrouter.model":    "OPENROUTER_MODEL",
		"server.port":         "PORT",
		"redis.addr":          "REDIS_ADDR",
		"redis.password":      "REDIS_PASSWORD",
		"rate_limit.enabled":  "RATE_LIMIT_ENABLED",
		"rate_limit.backend":  "RATE_LIMIT_BACKEND",
		"rate_limit.requests": "RATE_LIMIT_REQUESTS",
		"rate_limit.window":   "RATE_LIMIT_WINDOW",
		"dedup_window":        "DEDUP_WINDOW",
		"log_level":           "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration", "ai_provider:", v.GetString("ai.provider"),
		"gemini_api_key:", MaskAPIKey(v.GetString("gemini.api_key")),
		"openrouter_api_key:", MaskAPIKey(v.GetString("openrouter.api_key")))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "receptai")

	// 伺服器設定
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "45s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "40s")
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// AI 設定
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.max_inflight", 16)

	v.SetDefault("gemini.model", "gemini-pro")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.max_tokens", 2048)
	v.SetDefault("gemini.temperature", 0.9)
	v.SetDefault("gemini.timeout", "60s")

	v.SetDefault("openrouter.model", "google/gemini-2.0-flash-001")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.max_tokens", 2048)
	v.SetDefault("openrouter.temperature", 0.9)
	v.SetDefault("openrouter.timeout", "60s")

	// 食譜設定
	v.SetDefault("recipe.timeout", "30s")
	v.SetDefault("recipe.parse_retries", 0)
	v.SetDefault("recipe.max_ingredients", 50)

	// 價格快取
	v.SetDefault("price.validity_window", "1h")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", RateLimitBackendMemory)
	v.SetDefault("rate_limit.requests", 20)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes")
	}

	switch config.AI.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}
	if config.AI.MaxInflight <= 0 {
		return fmt.Errorf("invalid ai max inflight")
	}

	if config.Recipe.Timeout <= 0 {
		return fmt.Errorf("invalid recipe timeout")
	}
	if config.Recipe.ParseRetries < 0 {
		return fmt.Errorf("invalid recipe parse retries")
	}
	if config.Recipe.MaxIngredients <= 0 {
		return fmt.Errorf("invalid recipe max ingredients")
	}

	if config.Price.ValidityWindow <= 0 {
		return fmt.Errorf("invalid price validity window")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
		switch config.RateLimit.Backend {
		case RateLimitBackendMemory, RateLimitBackendRedis:
		default:
			return fmt.Errorf("unknown rate limit backend %q", config.RateLimit.Backend)
		}
	}

	return nil
}
