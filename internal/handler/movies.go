package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie/internal/utils"
)

// SearchMovies 搜索外部影片库
func (h *Handler) SearchMovies(c *gin.Context) {
	results, err := h.Catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, results)
}

// MovieDetail 影片详情
func (h *Handler) MovieDetail(c *gin.Context) {
	detail, err := h.Catalog.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, detail)
}
