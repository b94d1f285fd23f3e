package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
)

// EmployeeService 员工服务
type EmployeeService struct {
	employeeRepo *repository.EmployeeRepository
}

// NewEmployeeService 创建员工服务
func NewEmployeeService(employeeRepo *repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Role       string     `json:"role"`
	Specialty  string     `json:"specialty"`
	HourlyRate *float64   `json:"hourly_rate"`
	JoinedAt   *time.Time `json:"joined_at"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	Name       *string    `json:"name"`
	Phone      *string    `json:"phone"`
	Role       *string    `json:"role"`
	Specialty  *string    `json:"specialty"`
	HourlyRate *float64   `json:"hourly_rate"`
	Status     *string    `json:"status"`
	JoinedAt   *time.Time `json:"joined_at"`
}

// Create 创建员工
func (s *EmployeeService) Create(ctx context.Context, garageID string, req *CreateEmployeeRequest) (*entity.Employee, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return nil, NewValidationError("hourly_rate", "hourly_rate cannot be negative")
	}

	role := req.Role
	if role == "" {
		role = "mechanic"
	}
	employee := &entity.Employee{
		ID:         uuid.New().String()[:32],
		GarageID:   garageID,
		Name:       strings.TrimSpace(req.Name),
		Phone:      req.Phone,
		Role:       role,
		Specialty:  req.Specialty,
		HourlyRate: req.HourlyRate,
		Status:     entity.EmployeeStatusActive,
		JoinedAt:   req.JoinedAt,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return employee, nil
}

// Get 员工详情
func (s *EmployeeService) Get(ctx context.Context, garageID, id string) (*entity.Employee, error) {
	return s.employeeRepo.FindByID(ctx, garageID, id)
}

// List 员工列表
func (s *EmployeeService) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Employee, int64, error) {
	return s.employeeRepo.List(ctx, garageID, page, pageSize, filters)
}

// Update 更新员工
func (s *EmployeeService) Update(ctx context.Context, garageID, id string, req *UpdateEmployeeRequest) (*entity.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, NewValidationError("name", "name cannot be empty")
		}
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.Specialty != nil {
		employee.Specialty = *req.Specialty
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, NewValidationError("hourly_rate", "hourly_rate cannot be negative")
		}
		employee.HourlyRate = req.HourlyRate
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.EmployeeStatusActive, entity.EmployeeStatusOnLeave, entity.EmployeeStatusResigned:
			employee.Status = *req.Status
		default:
			return nil, NewValidationError("status", "invalid employee status")
		}
	}
	if req.JoinedAt != nil {
		employee.JoinedAt = req.JoinedAt
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return employee, nil
}

// Delete 软删除员工
func (s *EmployeeService) Delete(ctx context.Context, garageID, id string) error {
	return s.employeeRepo.SoftDelete(ctx, garageID, id)
}
