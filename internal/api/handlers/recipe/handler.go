package recipe

import (
	"context"
	"errors"
	"net/http"

	"github.com/takeourcarsnow/receptai.fun/internal/core/recipe"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generator 依食材生成食譜
type Generator interface {
	Generate(ctx context.Context, ingredients []string) (*common.Recipe, error)
}

// Handler 食譜處理器
type Handler struct {
	recipes Generator
	debug   bool
}

// NewHandler 創建食譜處理器；debug 開啟時錯誤回應附帶模型原始輸出
func NewHandler(recipes Generator, debug bool) *Handler {
	return &Handler{
		recipes: recipes,
		debug:   debug,
	}
}

// Generate 處理食譜生成請求
func (h *Handler) Generate(c *gin.Context) {
	requestID := common.RequestIDFromContext(c.Request.Context())

	var req common.RecipeRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(c, common.ErrBodyTooLarge.Wrap(err), "")
			return
		}
		common.LogWarn("Invalid recipe request body",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.fail(c, common.ErrInvalidIngredients.Wrap(err), "")
		return
	}

	common.LogInfo("收到食譜生成請求",
		zap.Int("ingredients", len(req.Ingredients)),
		zap.String("request_id", requestID),
	)

	result, err := h.recipes.Generate(c.Request.Context(), req.Ingredients)
	if err != nil {
		ce, raw := toCustomError(err)
		common.LogError("Recipe generation failed",
			zap.Error(err),
			zap.Int("status", ce.Status),
			zap.String("request_id", requestID),
		)
		h.fail(c, ce, raw)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) fail(c *gin.Context, ce *common.CustomError, raw string) {
	details := ""
	if h.debug {
		details = raw
		if details == "" && ce.Err != nil {
			details = ce.Err.Error()
		}
	}
	c.JSON(ce.Status, ce.Response(details))
}

// toCustomError 將食譜錯誤分類對應到回應錯誤，並取出模型原始輸出
func toCustomError(err error) (*common.CustomError, string) {
	var genErr *recipe.GenerationError
	if !errors.As(err, &genErr) {
		return common.ErrRecipeFailed.Wrap(err), ""
	}

	switch genErr.Kind {
	case recipe.KindBadRequest:
		return common.ErrInvalidIngredients.Wrap(err), ""
	case recipe.KindParseFailed, recipe.KindValidationFailed:
		return common.ErrRecipeUnreadable.Wrap(err), genErr.Raw
	case recipe.KindTimeout:
		return common.ErrRecipeTimeout.Wrap(err), ""
	case recipe.KindServiceOverloaded:
		return common.ErrModelOverloaded.Wrap(err), ""
	case recipe.KindModelError:
		return common.ErrModelFailure.Wrap(err), ""
	default:
		return common.ErrRecipeFailed.Wrap(err), ""
	}
}
