package catalog

import (
	"net/http"

	"github.com/takeourcarsnow/receptai.fun/internal/core/catalog"

	"github.com/gin-gonic/gin"
)

// Handler 食材目錄處理器
type Handler struct {
	catalog *catalog.Catalog
}

// NewHandler 創建食材目錄處理器
func NewHandler(c *catalog.Catalog) *Handler {
	return &Handler{catalog: c}
}

// List 返回分類到顯示名稱列表的對應
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Display())
}
