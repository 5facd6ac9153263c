package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie/internal/middleware"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/utils"
)

// GetProfile 获取个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.Profile.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// UpdateGenres 更新喜爱类型
func (h *Handler) UpdateGenres(c *gin.Context) {
	var in model.GenresInput
	if !h.bindJSON(c, &in) {
		return
	}

	profile, err := h.Profile.UpdateFavoriteGenres(c.Request.Context(), middleware.GetUserID(c), in.FavoriteGenres)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// DeleteProfile 注销账号，同时删除片单
func (h *Handler) DeleteProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.Profile.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	// 当前令牌一并作废
	_ = h.Auth.Logout(middleware.GetToken(c))
	utils.Message(c, "账号已删除")
}
