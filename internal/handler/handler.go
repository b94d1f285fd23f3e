package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/repository"
	"github.com/openwrench/garagehub/internal/service"
	"github.com/openwrench/garagehub/internal/sse"
	"go.uber.org/zap"
)

// Handlers HTTP处理器集合
type Handlers struct {
	Auth       *AuthHandler
	Customer   *CustomerHandler
	Vehicle    *VehicleHandler
	Employee   *EmployeeHandler
	Inventory  *InventoryHandler
	JobCard    *JobCardHandler
	Checklist  *ChecklistHandler
	Attachment *AttachmentHandler
	Dashboard  *DashboardHandler
	SSE        *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(services *service.Services, hub *sse.Hub, logger *zap.Logger) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(services.Auth),
		Customer:   NewCustomerHandler(services.Customer),
		Vehicle:    NewVehicleHandler(services.Vehicle),
		Employee:   NewEmployeeHandler(services.Employee),
		Inventory:  NewInventoryHandler(services.Inventory),
		JobCard:    NewJobCardHandler(services.JobCard, services.Export, logger),
		Checklist:  NewChecklistHandler(services.Checklist),
		Attachment: NewAttachmentHandler(services.Attachment),
		Dashboard:  NewDashboardHandler(services.Dashboard),
		SSE:        NewSSEHandler(hub),
	}
}

// Success 200成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// Created 201创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// SuccessList 带分页的列表响应
func SuccessList(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":     items,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// BadRequest 400响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

// NotFound 404响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   message,
	})
}

// InternalError 500响应，细节进日志不出响应
func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal server error",
	})
}

// ctxLogger 取请求上下文里的logger，未挂载时退化为Nop
func ctxLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

// HandleError 统一把service层错误翻成HTTP响应
func HandleError(c *gin.Context, err error, notFoundMsg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, notFoundMsg)
	case errors.Is(err, service.ErrNumberExhausted):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "could not allocate job card number, please retry",
		})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "attachment storage unavailable",
		})
	default:
		ctxLogger(c).Error("unexpected error",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal server error",
			"details": err.Error(),
		})
	}
}

// GetUserID 从上下文取当前用户ID
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetGarageID 从上下文取当前门店ID
func GetGarageID(c *gin.Context) string {
	return c.GetString("garage_id")
}

// GetPagination 解析分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
