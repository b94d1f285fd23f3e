package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// CustomerHandler 客户接口
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler 创建客户接口
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), GetGarageID(c), &req)
	if err != nil {
		HandleError(c, err, "customer not found")
		return
	}
	Created(c, customer)
}

// Get GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customerService.Get(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "customer not found")
		return
	}
	Success(c, customer)
}

// List GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("keyword"),
	}

	customers, total, err := h.customerService.List(c.Request.Context(), GetGarageID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c)
		return
	}
	SuccessList(c, customers, total, page, pageSize)
}

// Update PATCH /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "customer not found")
		return
	}
	Success(c, customer)
}

// Delete DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customerService.Delete(c.Request.Context(), GetGarageID(c), c.Param("id")); err != nil {
		HandleError(c, err, "customer not found")
		return
	}
	Success(c, nil)
}

// Vehicles GET /api/v1/customers/:id/vehicles
func (h *CustomerHandler) Vehicles(c *gin.Context) {
	vehicles, err := h.customerService.Vehicles(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "customer not found")
		return
	}
	Success(c, vehicles)
}
