package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie/internal/middleware"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/utils"
)

// Signup 注册
func (h *Handler) Signup(c *gin.Context) {
	var in model.SignupInput
	if !h.bindJSON(c, &in) {
		return
	}

	res, err := h.Auth.Signup(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, res)
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var in model.LoginInput
	if !h.bindJSON(c, &in) {
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, res)
}

// Verify 校验当前令牌并返回用户信息
func (h *Handler) Verify(c *gin.Context) {
	user, err := h.Auth.Verify(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"user": user})
}

// Logout 注销当前令牌
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(middleware.GetToken(c)); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Message(c, "已退出登录")
}
