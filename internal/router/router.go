package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/moovie/internal/config"
	"github.com/user/moovie/internal/handler"
	"github.com/user/moovie/internal/middleware"
	"github.com/user/moovie/internal/utils"
	"go.uber.org/zap"
)

// New 创建 Gin 引擎并挂载全局中间件与路由
func New(cfg *config.Config, h *handler.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.BodyLimit(middleware.MaxBodyBytes))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "")
	})

	api := r.Group("/api")

	// ==================== 认证 ====================
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.GET("/verify", middleware.RequireAuth(h.Auth), h.Verify)
		auth.POST("/logout", middleware.RequireAuth(h.Auth), h.Logout)
	}

	// ==================== 影片库（公开）====================
	movies := api.Group("/movies")
	{
		movies.GET("/search", h.SearchMovies)
		movies.GET("/:id", h.MovieDetail)
	}

	// ==================== 片单（需要登录）====================
	watchlist := api.Group("/watchlist")
	watchlist.Use(middleware.RequireAuth(h.Auth))
	{
		watchlist.GET("", h.ListWatchlist)
		watchlist.POST("", h.AddToWatchlist)
		watchlist.PUT("/:movieId", h.UpdateWatchlistEntry)
		watchlist.DELETE("/:movieId", h.RemoveFromWatchlist)
	}

	// ==================== 个人资料（需要登录）====================
	profile := api.Group("/profile")
	profile.Use(middleware.RequireAuth(h.Auth))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateGenres)
		profile.PATCH("/genres", h.UpdateGenres)
		profile.DELETE("", h.DeleteProfile)
	}
}
