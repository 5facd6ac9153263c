package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie/internal/metrics"
	"github.com/user/moovie/internal/service"
	"github.com/user/moovie/internal/utils"
)

const (
	userIDKey = "user_id"
	tokenKey  = "token"
)

// Authenticator 校验令牌并返回用户 ID
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// RequireAuth 必须登录中间件
// 只接受 Authorization: Bearer <token>，不读取 Cookie、请求体或查询参数
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.Abort(c, service.StatusCode(err), service.PublicMessage(err))
			return
		}

		// 将用户信息存入上下文
		c.Set(userIDKey, userID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// bearerToken 解析 "Bearer <token>"，scheme 不区分大小写
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(userIDKey); exists {
		return userID.(uint)
	}
	return 0
}

// GetToken 从上下文获取当前请求的令牌
func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
