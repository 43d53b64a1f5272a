package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/config"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "receptai:ratelimit:"

// fixedWindowScript 計數加一，第一次計數時設定過期時間，返回 {計數, 剩餘毫秒}
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// Store Redis 計數器，僅保存帶 TTL 的限流計數
type Store struct {
	client *redis.Client
}

// New 建立 Redis 連線並測試
func New(cfg config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 已連線", zap.String("addr", cfg.Addr))
	return NewWithClient(client), nil
}

// NewWithClient 以既有的客戶端建立
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Result 一次計數的結果
type Result struct {
	Allowed    bool
	Count      int64
	Remaining  int64
	RetryAfter time.Duration
}

// Allow 固定視窗計數：視窗內第一次計數時設定 TTL，超過 limit 即拒絕
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	fullKey := keyPrefix + key

	vals, err := fixedWindowScript.Run(ctx, s.client, []string{fullKey}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("failed to count request: %w", err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("unexpected counter reply %v", vals)
	}

	count := vals[0]
	retryAfter := time.Duration(vals[1]) * time.Millisecond
	if retryAfter <= 0 {
		retryAfter = window
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:    count <= int64(limit),
		Count:      count,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}

// Ping 檢查連線
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *Store) Close() error {
	return s.client.Close()
}
