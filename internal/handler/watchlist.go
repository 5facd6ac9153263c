package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie/internal/middleware"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/utils"
)

// ListWatchlist 获取当前用户的片单
func (h *Handler) ListWatchlist(c *gin.Context) {
	entries, err := h.Watchlist.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, entries)
}

// AddToWatchlist 添加影片到片单
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var in model.CreateEntryInput
	if !h.bindJSON(c, &in) {
		return
	}

	entry, err := h.Watchlist.Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, entry)
}

// UpdateWatchlistEntry 局部更新状态/备注/标签
func (h *Handler) UpdateWatchlistEntry(c *gin.Context) {
	var patch model.EntryPatch
	if !h.bindJSON(c, &patch) {
		return
	}

	entry, err := h.Watchlist.UpdateDetails(c.Request.Context(), middleware.GetUserID(c), c.Param("movieId"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, entry)
}

// RemoveFromWatchlist 从片单删除影片
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	if err := h.Watchlist.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("movieId")); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Message(c, "已从片单移除")
}
