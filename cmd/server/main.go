package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/api/handler"
	"github.com/thelucidbox/courseagenda-sub000/internal/api/router"
	"github.com/thelucidbox/courseagenda-sub000/internal/jobs"
	"github.com/thelucidbox/courseagenda-sub000/internal/oracle"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/memory"
	"github.com/thelucidbox/courseagenda-sub000/internal/service"
	"github.com/thelucidbox/courseagenda-sub000/pkg/database"
	"github.com/thelucidbox/courseagenda-sub000/pkg/jwt"
	applogger "github.com/thelucidbox/courseagenda-sub000/pkg/logger"
	"github.com/thelucidbox/courseagenda-sub000/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化存储后端
	var repo *repository.Repository
	var db *gorm.DB
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("使用内存存储后端，进程退出后数据丢失")
		repo = memory.NewRepository()
	default:
		db, err = database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		logger.Info("数据库连接成功")

		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewRepository(db)
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器与大纲抽取客户端
	jwtMgr := jwt.NewManager(&cfg.Auth)
	extractor := oracle.NewGeminiExtractor(&cfg.Oracle, logger)

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, extractor, jwtMgr, logger)
	h := handler.NewHandler(svc, jwtMgr, rdb)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动令牌刷新定时任务
	refresher := jobs.NewTokenRefresher(cfg, repo, logger)
	if err := refresher.Start(); err != nil {
		logger.Fatal("启动令牌刷新任务失败", zap.Error(err))
	}

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	refresher.Stop()

	if db != nil {
		if closeDB, _ := db.DB(); closeDB != nil {
			closeDB.Close()
		}
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go
