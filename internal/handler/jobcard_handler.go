package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
	"go.uber.org/zap"
)

// JobCardHandler 工单接口
type JobCardHandler struct {
	jobCardService *service.JobCardService
	exportService  *service.ExportService
	logger         *zap.Logger
}

// NewJobCardHandler 创建工单接口
func NewJobCardHandler(jobCardService *service.JobCardService, exportService *service.ExportService, logger *zap.Logger) *JobCardHandler {
	return &JobCardHandler{
		jobCardService: jobCardService,
		exportService:  exportService,
		logger:         logger,
	}
}

// Create POST /api/v1/job-cards
func (h *JobCardHandler) Create(c *gin.Context) {
	var req service.CreateJobCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	card, err := h.jobCardService.Create(c.Request.Context(), GetGarageID(c), GetUserID(c), &req)
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Created(c, card)
}

// Get GET /api/v1/job-cards/:id
func (h *JobCardHandler) Get(c *gin.Context) {
	card, err := h.jobCardService.Get(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, card)
}

// List GET /api/v1/job-cards
func (h *JobCardHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"priority":    c.Query("priority"),
		"job_type":    c.Query("job_type"),
		"customer_id": c.Query("customer_id"),
		"vehicle_id":  c.Query("vehicle_id"),
		"mechanic_id": c.Query("mechanic_id"),
		"search":      c.Query("keyword"),
		"from":        c.Query("date_from"),
		"to":          c.Query("date_to"),
	}

	cards, total, err := h.jobCardService.List(c.Request.Context(), GetGarageID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c)
		return
	}
	SuccessList(c, cards, total, page, pageSize)
}

// Update PATCH /api/v1/job-cards/:id
func (h *JobCardHandler) Update(c *gin.Context) {
	var req service.UpdateJobCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	card, err := h.jobCardService.Update(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, card)
}

// Delete DELETE /api/v1/job-cards/:id
func (h *JobCardHandler) Delete(c *gin.Context) {
	if err := h.jobCardService.Delete(c.Request.Context(), GetGarageID(c), c.Param("id")); err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, nil)
}

// UpdateStatus PATCH /api/v1/job-cards/:id/status
// 状态流转必须有操作人，操作人默认取当前登录用户
func (h *JobCardHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
		UserID string `json:"user_id"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = GetUserID(c)
	}

	card, err := h.jobCardService.UpdateStatus(c.Request.Context(), GetGarageID(c), c.Param("id"), req.Status, userID, req.Reason)
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, card)
}

// History GET /api/v1/job-cards/:id/history
func (h *JobCardHandler) History(c *gin.Context) {
	history, err := h.jobCardService.History(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, history)
}

// AddPart POST /api/v1/job-cards/:id/parts
func (h *JobCardHandler) AddPart(c *gin.Context) {
	var req service.AddPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	usage, err := h.jobCardService.AddPart(c.Request.Context(), GetGarageID(c), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Created(c, usage)
}

// RemovePart DELETE /api/v1/job-cards/:id/parts/:usageId
func (h *JobCardHandler) RemovePart(c *gin.Context) {
	if err := h.jobCardService.RemovePart(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("usageId")); err != nil {
		HandleError(c, err, "part usage not found")
		return
	}
	Success(c, nil)
}

// Export GET /api/v1/job-cards/export
func (h *JobCardHandler) Export(c *gin.Context) {
	filters := map[string]string{
		"status": c.Query("status"),
		"from":   c.Query("date_from"),
		"to":     c.Query("date_to"),
	}

	buf, filename, err := h.exportService.ExportJobCards(c.Request.Context(), GetGarageID(c), filters)
	if err != nil {
		h.logger.Error("export job cards failed", zap.Error(err))
		InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
