package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie/internal/service"
	"github.com/user/moovie/internal/utils"
	"go.uber.org/zap"
)

// Handler HTTP 处理器
type Handler struct {
	Watchlist *service.WatchlistService
	Auth      *service.AuthService
	Profile   *service.ProfileService
	Catalog   *service.CatalogService
	log       *zap.Logger
}

// NewHandler 创建处理器
func NewHandler(watchlist *service.WatchlistService, auth *service.AuthService, profile *service.ProfileService, catalog *service.CatalogService, log *zap.Logger) *Handler {
	return &Handler{
		Watchlist: watchlist,
		Auth:      auth,
		Profile:   profile,
		Catalog:   catalog,
		log:       log,
	}
}

// bindJSON 解析请求体，失败时直接写入 400/413 响应
func (h *Handler) bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		h.log.Debug("[Handler] 请求体解析失败", zap.String("path", c.FullPath()), zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.Error(c, http.StatusRequestEntityTooLarge, "请求体过大")
			return false
		}
		utils.BadRequest(c, "请求体格式错误")
		return false
	}
	return true
}

// respondError 按错误分类写入响应，内部错误只返回通用信息
func (h *Handler) respondError(c *gin.Context, err error) {
	utils.Error(c, service.StatusCode(err), service.PublicMessage(err))
}
