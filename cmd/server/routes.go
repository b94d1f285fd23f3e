package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/config"
	"github.com/openwrench/garagehub/internal/handler"
	"github.com/openwrench/garagehub/internal/middleware"
)

func registerRoutes(router *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 登录后接口
	api := v1.Group("")
	api.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		api.GET("/auth/me", h.Auth.Me)

		// 实时事件流
		api.GET("/events", h.SSE.Stream)

		// 工作台
		api.GET("/dashboard/summary", h.Dashboard.Summary)

		// 客户
		customers := api.Group("/customers")
		{
			customers.POST("", h.Customer.Create)
			customers.GET("", h.Customer.List)
			customers.GET("/:id", h.Customer.Get)
			customers.PATCH("/:id", h.Customer.Update)
			customers.DELETE("/:id", h.Customer.Delete)
			customers.GET("/:id/vehicles", h.Customer.Vehicles)
		}

		// 车辆
		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", h.Vehicle.Create)
			vehicles.GET("", h.Vehicle.List)
			vehicles.GET("/:id", h.Vehicle.Get)
			vehicles.PATCH("/:id", h.Vehicle.Update)
			vehicles.DELETE("/:id", h.Vehicle.Delete)
		}

		// 员工（管理角色才能改）
		employees := api.Group("/employees")
		{
			employees.GET("", h.Employee.List)
			employees.GET("/:id", h.Employee.Get)
			employees.POST("", middleware.RequireRole("manager"), h.Employee.Create)
			employees.PATCH("/:id", middleware.RequireRole("manager"), h.Employee.Update)
			employees.DELETE("/:id", middleware.RequireRole("manager"), h.Employee.Delete)
		}

		// 配件库存
		parts := api.Group("/parts")
		{
			parts.POST("", h.Inventory.Create)
			parts.GET("", h.Inventory.List)
			parts.GET("/:id", h.Inventory.Get)
			parts.PATCH("/:id", h.Inventory.Update)
			parts.POST("/:id/adjust-stock", h.Inventory.AdjustStock)
			parts.DELETE("/:id", middleware.RequireRole("manager"), h.Inventory.Delete)
		}

		// 工单
		jobCards := api.Group("/job-cards")
		{
			jobCards.POST("", h.JobCard.Create)
			jobCards.GET("", h.JobCard.List)
			jobCards.GET("/export", h.JobCard.Export)
			jobCards.GET("/:id", h.JobCard.Get)
			jobCards.PATCH("/:id", h.JobCard.Update)
			jobCards.DELETE("/:id", h.JobCard.Delete)
			jobCards.PATCH("/:id/status", h.JobCard.UpdateStatus)
			jobCards.GET("/:id/history", h.JobCard.History)
			jobCards.POST("/:id/parts", h.JobCard.AddPart)
			jobCards.DELETE("/:id/parts/:usageId", h.JobCard.RemovePart)

			// 检查项
			jobCards.POST("/:id/checklist", h.Checklist.CreateItem)
			jobCards.GET("/:id/checklist", h.Checklist.ListItems)
			jobCards.PATCH("/:id/checklist/:itemId", h.Checklist.UpdateItem)
			jobCards.DELETE("/:id/checklist/:itemId", h.Checklist.DeleteItem)
			jobCards.POST("/:id/checklist/:itemId/subtasks", h.Checklist.AddSubtask)
			jobCards.PATCH("/:id/checklist/:itemId/subtasks/:subtaskId/toggle", h.Checklist.ToggleSubtask)

			// 附件
			jobCards.POST("/:id/attachments", h.Attachment.Upload)
			jobCards.GET("/:id/attachments", h.Attachment.List)
			jobCards.GET("/:id/attachments/:attachmentId", h.Attachment.Download)
			jobCards.DELETE("/:id/attachments/:attachmentId", h.Attachment.Delete)
		}
	}
}
