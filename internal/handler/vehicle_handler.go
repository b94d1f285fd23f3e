package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// VehicleHandler 车辆接口
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler 创建车辆接口
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// Create POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), GetGarageID(c), &req)
	if err != nil {
		HandleError(c, err, "vehicle not found")
		return
	}
	Created(c, vehicle)
}

// Get GET /api/v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "vehicle not found")
		return
	}
	Success(c, vehicle)
}

// List GET /api/v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":      c.Query("keyword"),
		"customer_id": c.Query("customer_id"),
	}

	vehicles, total, err := h.vehicleService.List(c.Request.Context(), GetGarageID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c)
		return
	}
	SuccessList(c, vehicles, total, page, pageSize)
}

// Update PATCH /api/v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req service.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "vehicle not found")
		return
	}
	Success(c, vehicle)
}

// Delete DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), GetGarageID(c), c.Param("id")); err != nil {
		HandleError(c, err, "vehicle not found")
		return
	}
	Success(c, nil)
}
