package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/provider"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/config"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/metrics"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultTimeout 等待模型的預設時限
const DefaultTimeout = 30 * time.Second

// Generator 受時限約束的模型呼叫
type Generator interface {
	Generate(ctx context.Context, prompt string, timeout time.Duration) (*provider.Response, error)
}

// Options 食譜服務設定
type Options struct {
	Timeout        time.Duration
	ParseRetries   int
	MaxIngredients int
}

// OptionsFromConfig 由設定取得食譜服務選項
func OptionsFromConfig(cfg config.RecipeConfig) Options {
	return Options{
		Timeout:        cfg.Timeout,
		ParseRetries:   cfg.ParseRetries,
		MaxIngredients: cfg.MaxIngredients,
	}
}

// Service 食譜生成服務
type Service struct {
	ai   Generator
	opts Options
}

// NewService 創建新的食譜生成服務
func NewService(ai Generator, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ParseRetries < 0 {
		opts.ParseRetries = 0
	}
	return &Service{
		ai:   ai,
		opts: opts,
	}
}

// Generate 依食材生成食譜。
// 失敗時返回 *GenerationError，其 Kind 決定回應狀態碼。
func (s *Service) Generate(ctx context.Context, ingredients []string) (*common.Recipe, error) {
	recipe, err := s.generate(ctx, ingredients)

	outcome := "valid"
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		outcome = genErr.Kind.String()
	}
	metrics.RecordRecipeOutcome(outcome)

	return recipe, err
}

func (s *Service) generate(ctx context.Context, ingredients []string) (*common.Recipe, error) {
	cleaned, err := s.validateInput(ingredients)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(cleaned)
	requestID := common.RequestIDFromContext(ctx)

	var lastErr *GenerationError
	for attempt := 0; attempt <= s.opts.ParseRetries; attempt++ {
		if attempt > 0 {
			common.LogInfo("模型輸出無法使用，重新請求",
				zap.Int("attempt", attempt+1),
				zap.String("reason", lastErr.Kind.String()),
				zap.String("request_id", requestID),
			)
		}

		recipe, genErr := s.attempt(ctx, prompt, requestID)
		if genErr == nil {
			return recipe, nil
		}
		lastErr = genErr

		if genErr.Kind != KindParseFailed && genErr.Kind != KindValidationFailed {
			break
		}
	}
	return nil, lastErr
}

// attempt 單次呼叫模型並處理輸出
func (s *Service) attempt(ctx context.Context, prompt, requestID string) (*common.Recipe, *GenerationError) {
	resp, err := s.ai.Generate(ctx, prompt, s.opts.Timeout)
	if err != nil {
		return nil, classifyModelError(err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, newError(KindModelError, errors.New("invalid response from model"))
	}

	text := Sanitize(resp.Content)
	common.LogDebug("AI 回應內容 (recipe/generate)",
		zap.Int("ai_response_length", len(text)),
		zap.String("ai_response_preview", common.Truncate(text, 200)),
		zap.String("request_id", requestID),
	)

	var recipe common.Recipe
	if err := common.ParseJSON(text, &recipe); err != nil {
		common.LogWarn("無法解析模型輸出",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		return nil, &GenerationError{Kind: KindParseFailed, Err: fmt.Errorf("failed to parse model output: %w", err), Raw: text}
	}

	if err := validateRecipe(&recipe); err != nil {
		common.LogWarn("模型輸出缺少必要欄位",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		return nil, &GenerationError{Kind: KindValidationFailed, Err: err, Raw: text}
	}

	return &recipe, nil
}

func (s *Service) validateInput(ingredients []string) ([]string, *GenerationError) {
	if len(ingredients) == 0 {
		return nil, newError(KindBadRequest, errors.New("ingredients must be a non-empty list"))
	}
	if s.opts.MaxIngredients > 0 && len(ingredients) > s.opts.MaxIngredients {
		return nil, newError(KindBadRequest, fmt.Errorf("too many ingredients: %d > %d", len(ingredients), s.opts.MaxIngredients))
	}

	cleaned := make([]string, 0, len(ingredients))
	for i, ing := range ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			return nil, newError(KindBadRequest, fmt.Errorf("ingredient %d is empty", i))
		}
		cleaned = append(cleaned, ing)
	}
	return cleaned, nil
}

// validateRecipe 標題與步驟必須存在且非空，其餘欄位原樣保留
func validateRecipe(r *common.Recipe) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("recipe title is missing")
	}
	if len(r.Instructions) == 0 {
		return errors.New("recipe instructions are missing")
	}
	return nil
}

// classifyModelError 將提供者錯誤對應到食譜錯誤分類
func classifyModelError(err error) *GenerationError {
	if errors.Is(err, common.ErrRaceTimeout) {
		return newError(KindTimeout, err)
	}

	switch provider.KindOf(err) {
	case provider.ErrorKindTimeout:
		return newError(KindTimeout, err)
	case provider.ErrorKindOverloaded:
		return newError(KindServiceOverloaded, err)
	case provider.ErrorKindInternal, provider.ErrorKindInvalidResponse:
		return newError(KindModelError, err)
	default:
		return newError(KindInternal, err)
	}
}
