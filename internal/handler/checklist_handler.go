package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// ChecklistHandler 工单检查项接口
type ChecklistHandler struct {
	checklistService *service.ChecklistService
}

// NewChecklistHandler 创建检查项接口
func NewChecklistHandler(checklistService *service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistService: checklistService}
}

// CreateItem POST /api/v1/job-cards/:id/checklist
func (h *ChecklistHandler) CreateItem(c *gin.Context) {
	var req service.CreateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	item, err := h.checklistService.CreateItem(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Created(c, item)
}

// ListItems GET /api/v1/job-cards/:id/checklist
func (h *ChecklistHandler) ListItems(c *gin.Context) {
	items, err := h.checklistService.ListItems(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, items)
}

// UpdateItem PATCH /api/v1/job-cards/:id/checklist/:itemId
func (h *ChecklistHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	item, err := h.checklistService.UpdateItem(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("itemId"), &req)
	if err != nil {
		HandleError(c, err, "checklist item not found")
		return
	}
	Success(c, item)
}

// DeleteItem DELETE /api/v1/job-cards/:id/checklist/:itemId
func (h *ChecklistHandler) DeleteItem(c *gin.Context) {
	if err := h.checklistService.DeleteItem(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("itemId")); err != nil {
		HandleError(c, err, "checklist item not found")
		return
	}
	Success(c, nil)
}

// AddSubtask POST /api/v1/job-cards/:id/checklist/:itemId/subtasks
func (h *ChecklistHandler) AddSubtask(c *gin.Context) {
	var req service.AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	subtask, item, err := h.checklistService.AddSubtask(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("itemId"), &req)
	if err != nil {
		HandleError(c, err, "checklist item not found")
		return
	}
	Created(c, gin.H{
		"subtask":       subtask,
		"checklistItem": item,
	})
}

// ToggleSubtask PATCH /api/v1/job-cards/:id/checklist/:itemId/subtasks/:subtaskId/toggle
func (h *ChecklistHandler) ToggleSubtask(c *gin.Context) {
	item, err := h.checklistService.ToggleSubtask(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("itemId"), c.Param("subtaskId"))
	if err != nil {
		HandleError(c, err, "subtask not found")
		return
	}
	Success(c, item)
}
