package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
)

// CustomerService 客户服务
type CustomerService struct {
	customerRepo *repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(customerRepo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerRequest 创建客户请求
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateCustomerRequest 更新客户请求
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// Create 创建客户
func (s *CustomerService) Create(ctx context.Context, garageID string, req *CreateCustomerRequest) (*entity.Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewValidationError("name", "name is required")
	}

	customer := &entity.Customer{
		ID:       uuid.New().String()[:32],
		GarageID: garageID,
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

// Get 客户详情
func (s *CustomerService) Get(ctx context.Context, garageID, id string) (*entity.Customer, error) {
	return s.customerRepo.FindByID(ctx, garageID, id)
}

// List 客户列表
func (s *CustomerService) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, garageID, page, pageSize, filters)
}

// Update 更新客户
func (s *CustomerService) Update(ctx context.Context, garageID, id string, req *UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, NewValidationError("name", "name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// Delete 软删除客户
func (s *CustomerService) Delete(ctx context.Context, garageID, id string) error {
	return s.customerRepo.SoftDelete(ctx, garageID, id)
}

// Vehicles 客户名下车辆
func (s *CustomerService) Vehicles(ctx context.Context, garageID, customerID string) ([]entity.Vehicle, error) {
	if _, err := s.customerRepo.FindByID(ctx, garageID, customerID); err != nil {
		return nil, err
	}
	return s.customerRepo.ListVehicles(ctx, garageID, customerID)
}
