package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// InventoryHandler 配件库存接口
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler 创建库存接口
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Create POST /api/v1/parts
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	part, err := h.inventoryService.Create(c.Request.Context(), GetGarageID(c), &req)
	if err != nil {
		HandleError(c, err, "part not found")
		return
	}
	Created(c, part)
}

// Get GET /api/v1/parts/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	part, err := h.inventoryService.Get(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "part not found")
		return
	}
	Success(c, part)
}

// List GET /api/v1/parts
func (h *InventoryHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("keyword"),
		"category":  c.Query("category"),
		"low_stock": c.Query("low_stock"),
	}

	parts, total, err := h.inventoryService.List(c.Request.Context(), GetGarageID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c)
		return
	}
	SuccessList(c, parts, total, page, pageSize)
}

// Update PATCH /api/v1/parts/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	part, err := h.inventoryService.Update(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "part not found")
		return
	}
	Success(c, part)
}

// AdjustStock POST /api/v1/parts/:id/adjust-stock
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	part, err := h.inventoryService.AdjustStock(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "part not found")
		return
	}
	Success(c, part)
}

// Delete DELETE /api/v1/parts/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.inventoryService.Delete(c.Request.Context(), GetGarageID(c), c.Param("id")); err != nil {
		HandleError(c, err, "part not found")
		return
	}
	Success(c, nil)
}
