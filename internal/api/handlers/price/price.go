package price

import (
	"context"
	"net/http"

	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Looker 依顯示名稱查詢報價
type Looker interface {
	Lookup(ctx context.Context, displayName string) []common.PriceQuote
}

// Handler 價格查詢處理器
type Handler struct {
	prices Looker
}

// NewHandler 創建價格查詢處理器
func NewHandler(prices Looker) *Handler {
	return &Handler{prices: prices}
}

// Get 查詢單一食材的報價，任何內部錯誤都降級為空列表
func (h *Handler) Get(c *gin.Context) {
	// 路由參數已由 gin 解碼
	name := c.Param("ingredient")

	quotes := h.lookup(c, name)
	if quotes == nil {
		quotes = []common.PriceQuote{}
	}
	c.JSON(http.StatusOK, quotes)
}

func (h *Handler) lookup(c *gin.Context, name string) (quotes []common.PriceQuote) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("價格查詢失敗，返回空列表",
				zap.Any("panic", r),
				zap.String("ingredient", name),
				zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
			)
			quotes = nil
		}
	}()
	return h.prices.Lookup(c.Request.Context(), name)
}
