package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/moovie/internal/config"
	"github.com/user/moovie/internal/handler"
	"github.com/user/moovie/internal/logger"
	"github.com/user/moovie/internal/repository"
	"github.com/user/moovie/internal/router"
	"github.com/user/moovie/internal/service"
	"go.uber.org/zap"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	zlog := logger.New(cfg.LogLevel, cfg.Env)
	defer func() { _ = zlog.Sync() }()

	if cfg.UsesDefaultSecret() {
		if cfg.IsProduction() {
			zlog.Fatal("生产环境必须设置 APP_SECRET")
		}
		zlog.Warn("正在使用默认 APP_SECRET，请勿用于生产环境")
	}
	if cfg.OMDbAPIKey == "" {
		zlog.Warn("未设置 OMDB_API_KEY，影片搜索接口将不可用")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库与服务
	repos := repository.NewRepositories(db)
	auth := service.NewAuthService(repos.User, cfg.AppSecret, cfg.JWTExpiry, logger.WithComponent(zlog, "auth"))
	h := handler.NewHandler(
		service.NewWatchlistService(repos.Watchlist, logger.WithComponent(zlog, "watchlist")),
		auth,
		service.NewProfileService(repos.User, repos.Watchlist, auth, logger.WithComponent(zlog, "profile")),
		service.NewCatalogService(cfg.OMDbBaseURL, cfg.OMDbAPIKey, 10*time.Second, logger.WithComponent(zlog, "catalog")),
		zlog,
	)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.New(cfg, h, logger.WithComponent(zlog, "http"))

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		zlog.Info("服务器启动", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("服务器强制关闭", zap.Error(err))
	}

	zlog.Info("服务器已退出")
}
