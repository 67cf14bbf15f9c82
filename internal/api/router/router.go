package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/api/handler"
	"github.com/thelucidbox/courseagenda-sub000/internal/api/middleware"
	"github.com/thelucidbox/courseagenda-sub000/pkg/jwt"
	"github.com/thelucidbox/courseagenda-sub000/pkg/redis"
)

// 大纲 PDF 最大 20MB，普通 JSON 请求限 1MB
const (
	uploadBodyLimit  = 20 << 20
	defaultBodyLimit = 1 << 20
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，限流防撞库）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", middleware.BodyLimit(defaultBodyLimit), h.Auth.Register)
			auth.POST("/login", middleware.BodyLimit(defaultBodyLimit), h.Auth.Login)
			auth.POST("/refresh", middleware.BodyLimit(defaultBodyLimit), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.PATCH("/me", h.User.UpdateMe)
				users.DELETE("/me", h.User.DeleteMe)
			}

			// 大纲模块（上传触发后台抽取，限流防滥用额度）
			syllabi := authorized.Group("/syllabi")
			{
				syllabi.POST("/text", middleware.RateLimit(rdb, 10, time.Minute), h.Syllabus.UploadText)
				syllabi.POST("/upload", middleware.RateLimit(rdb, 10, time.Minute), middleware.BodyLimit(uploadBodyLimit), h.Syllabus.UploadPDF)
				syllabi.GET("", h.Syllabus.List)
				syllabi.GET("/:id", h.Syllabus.Get)
				syllabi.PATCH("/:id", h.Syllabus.Update)
				syllabi.DELETE("/:id", h.Syllabus.Delete)
				syllabi.POST("/:id/events", h.Syllabus.CreateEvent)
			}

			// 课程事件模块
			events := authorized.Group("/events")
			{
				events.PATCH("/:id", h.Syllabus.UpdateEvent)
				events.DELETE("/:id", h.Syllabus.DeleteEvent)
			}

			// 学习计划模块
			plans := authorized.Group("/plans")
			{
				plans.POST("", h.Plan.Create)
				plans.GET("", h.Plan.List)
				plans.GET("/:id", h.Plan.Get)
				plans.DELETE("/:id", h.Plan.Delete)

				// 日历导出
				plans.GET("/:id/export/ics", h.Export.DownloadICS)
				plans.GET("/:id/export/xlsx", h.Export.DownloadXLSX)
				plans.POST("/:id/export/google", h.Export.SyncGoogle)
				plans.GET("/:id/export/outlook", h.Export.OutlookPayload)
			}

			// 日历提供方令牌
			export := authorized.Group("/export")
			{
				export.PUT("/tokens", h.Export.SaveToken)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
