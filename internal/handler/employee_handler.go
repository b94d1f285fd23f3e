package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// EmployeeHandler 员工接口
type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

// NewEmployeeHandler 创建员工接口
func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), GetGarageID(c), &req)
	if err != nil {
		HandleError(c, err, "employee not found")
		return
	}
	Created(c, employee)
}

// Get GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employeeService.Get(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "employee not found")
		return
	}
	Success(c, employee)
}

// List GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("keyword"),
		"role":   c.Query("role"),
		"status": c.Query("status"),
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), GetGarageID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c)
		return
	}
	SuccessList(c, employees, total, page, pageSize)
}

// Update PATCH /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), GetGarageID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, "employee not found")
		return
	}
	Success(c, employee)
}

// Delete DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeService.Delete(c.Request.Context(), GetGarageID(c), c.Param("id")); err != nil {
		HandleError(c, err, "employee not found")
		return
	}
	Success(c, nil)
}
