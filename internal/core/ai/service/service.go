package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/gemini"
	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/openrouter"
	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/provider"
	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/queue"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/config"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/metrics"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrTimeout 模型在時限內沒有回應
var ErrTimeout = common.ErrRaceTimeout

// Status AI 服務狀態
type Status struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Gate     *queue.Status `json:"gate"`
}

// Service AI 服務
type Service struct {
	provider provider.Provider
	gate     *queue.Manager
}

// NewService 依設定建立提供者與呼叫閘門
func NewService(cfg *config.Config) (*Service, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	gate := queue.NewManager(cfg.AI.MaxInflight, metrics.SetAIInflight)
	return NewServiceWithProvider(p, gate), nil
}

// NewServiceWithProvider 以指定的提供者與閘門建立服務
func NewServiceWithProvider(p provider.Provider, gate *queue.Manager) *Service {
	return &Service{
		provider: p,
		gate:     gate,
	}
}

// NewProvider 依 ai.provider 建立提供者
func NewProvider(cfg *config.Config) (provider.Provider, error) {
	active := cfg.ActiveProvider()
	pc := provider.Config{
		APIKey:      active.APIKey,
		Model:       active.Model,
		BaseURL:     active.BaseURL,
		MaxTokens:   active.MaxTokens,
		Temperature: active.Temperature,
		Timeout:     active.Timeout,
	}

	switch cfg.AI.Provider {
	case config.ProviderGemini:
		return gemini.NewClient(pc), nil
	case config.ProviderOpenRouter:
		return openrouter.NewClient(pc), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// Generate 呼叫模型並與 timeout 競賽。
//
// 逾時返回 ErrTimeout。被放棄的呼叫會收到取消訊號，但提供者端可能已開始計費，
// 且在真正返回前持續佔用閘門名額。閘門已滿時不呼叫提供者，直接返回過載錯誤。
func (s *Service) Generate(ctx context.Context, prompt string, timeout time.Duration) (*provider.Response, error) {
	requestID := common.RequestIDFromContext(ctx)
	model := s.provider.GetModel()
	name := s.provider.Name()

	ticket, err := s.gate.Acquire()
	if err != nil {
		metrics.RecordAICall(name, model, "rejected", 0)
		return nil, &provider.Error{
			Kind:     provider.ErrorKindOverloaded,
			Provider: name,
			Message:  "too many model calls in flight",
			Err:      err,
		}
	}

	start := time.Now()
	resp, err := common.RaceTimeout(ctx, timeout, func(callCtx context.Context) (*provider.Response, error) {
		defer ticket.Release()
		return s.provider.Generate(callCtx, provider.NewPromptRequest(prompt))
	}, func(late *provider.Response, lateErr error) {
		metrics.RecordAbandonedCall()
		fields := []zap.Field{
			zap.String("model", model),
			zap.Duration("耗時", time.Since(start)),
			zap.String("request_id", requestID),
		}
		if late != nil {
			fields = append(fields, zap.Int("total_tokens", late.Usage.TotalTokens))
		}
		if lateErr != nil {
			fields = append(fields, zap.Error(lateErr))
		}
		common.LogWarn("被放棄的模型呼叫已結束", fields...)
	})
	duration := time.Since(start)

	switch {
	case errors.Is(err, common.ErrRaceTimeout):
		ticket.MarkAbandoned()
		metrics.RecordAICall(name, model, "timeout", duration)
		common.LogWarn("模型呼叫逾時，已放棄等待；提供者可能仍完成請求並計費",
			zap.String("model", model),
			zap.Duration("timeout", timeout),
			zap.String("request_id", requestID),
		)
		return nil, ErrTimeout
	case err != nil:
		metrics.RecordAICall(name, model, provider.KindOf(err).String(), duration)
		common.LogAICall(model, duration, err, requestID)
		return nil, err
	}

	metrics.RecordAICall(name, model, "success", duration)
	common.LogAICall(model, duration, nil, requestID)
	return resp, nil
}

// Status 服務狀態
func (s *Service) Status() Status {
	return Status{
		Provider: s.provider.Name(),
		Model:    s.provider.GetModel(),
		Gate:     s.gate.GetQueueStatus(),
	}
}

// Close 關閉服務
func (s *Service) Close() error {
	s.gate.Close()
	return s.provider.Close()
}
