package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/api/handler"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/api/middleware"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/jwt"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/redis"
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
	// 请求体上限取文件上限再加 1MB 余量，覆盖 multipart 开销
	r.Use(middleware.BodyLimit(int64(cfg.Storage.MaxFileSizeMB+1) << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 船舶模块
			vessels := authorized.Group("/vessels")
			{
				vessels.GET("", h.Vessel.ListVessels)
				vessels.GET("/:id", h.Vessel.GetVessel)
				vessels.POST("", middleware.RoleAuth("admin", "office"), h.Vessel.CreateVessel)
				vessels.PUT("/:id", middleware.RoleAuth("admin", "office"), h.Vessel.UpdateVessel)
				vessels.DELETE("/:id", middleware.RoleAuth("admin"), h.Vessel.DeleteVessel)
				vessels.GET("/:id/compliance", h.Vessel.GetCompliance)
				vessels.GET("/:id/contract-stats", h.Vessel.GetContractStats)
				vessels.GET("/:id/contracts", h.Vessel.ListContracts)
				vessels.GET("/:id/crew", h.Crew.ListCrew)
				vessels.GET("/:id/calendar.ics", h.Calendar.VesselCalendar)
			}

			// 船员模块
			crew := authorized.Group("/crew")
			{
				crew.GET("", h.Crew.ListCrew)
				crew.GET("/:id", h.Crew.GetCrewMember)
				crew.POST("", middleware.RoleAuth("admin", "office"), h.Crew.CreateCrewMember)
				crew.PUT("/:id", middleware.RoleAuth("admin", "office"), h.Crew.UpdateCrewMember)
				crew.DELETE("/:id", middleware.RoleAuth("admin"), h.Crew.DeleteCrewMember)
				crew.POST("/:id/sign-on", middleware.RoleAuth("admin", "office"), h.Crew.SignOn)
				crew.POST("/:id/sign-off", middleware.RoleAuth("admin", "office"), h.Crew.SignOff)
				crew.GET("/:id/rotations", h.Crew.ListRotations)
				crew.GET("/:id/documents", h.Crew.ListDocuments)
				crew.GET("/:id/compliance", h.Crew.GetCompliance)
				crew.POST("/:id/documents", middleware.RoleAuth("admin", "office"), h.Document.CreateDocument)
				crew.GET("/:id/contracts", h.Contract.ListByCrewMember)
			}

			// 证件模块
			documents := authorized.Group("/documents")
			{
				documents.GET("/expiring", h.Document.ListExpiring)
				documents.GET("/:id", h.Document.GetDocument)
				documents.PUT("/:id", middleware.RoleAuth("admin", "office"), h.Document.UpdateDocument)
				documents.DELETE("/:id", middleware.RoleAuth("admin"), h.Document.DeleteDocument)
				documents.POST("/:id/file", middleware.RoleAuth("admin", "office"), h.Document.UploadFile)
				documents.GET("/:id/file", h.Document.DownloadFile)
			}

			// 合同模块
			contracts := authorized.Group("/contracts")
			{
				contracts.POST("", middleware.RoleAuth("admin", "office"), h.Contract.CreateContract)
				contracts.GET("/:id", h.Contract.GetContract)
				contracts.PUT("/:id", middleware.RoleAuth("admin", "office"), h.Contract.UpdateContract)
				contracts.POST("/:id/complete", middleware.RoleAuth("admin", "office"), h.Contract.CompleteContract)
			}

			// 仪表盘模块
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/summary", h.Dashboard.Summary)
				dashboard.GET("/drilldown", h.Dashboard.Drilldown)
			}

			// 邮件设置模块
			emailSettings := authorized.Group("/email-settings")
			{
				emailSettings.GET("", middleware.RoleAuth("admin", "office"), h.EmailSettings.GetSettings)
				emailSettings.PUT("", middleware.RoleAuth("admin"), h.EmailSettings.UpdateSettings)
			}

			// 邮件发送模块
			email := authorized.Group("/email")
			{
				email.POST("/send-test", middleware.RoleAuth("admin", "office"), h.Notification.SendTest)
				email.POST("/send-contract", middleware.RoleAuth("admin", "office"), h.Notification.SendContractNotice)
			}

			// 通知记录模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", middleware.RoleAuth("admin", "office"), h.Notification.ListNotifications)
				notifications.POST("/scan", middleware.RoleAuth("admin"), h.Notification.TriggerScan)
			}

			// OCR 识别模块
			authorized.POST("/ocr/scan", middleware.RoleAuth("admin", "office"), h.OCR.Scan)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/vessels/:id/compliance", middleware.RoleAuth("admin", "office"), h.Export.ExportVesselCompliance)
			}
		}
	}

	return r
}
