package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
)

// VehicleService 车辆服务
type VehicleService struct {
	vehicleRepo  *repository.VehicleRepository
	customerRepo *repository.CustomerRepository
}

// NewVehicleService 创建车辆服务
func NewVehicleService(vehicleRepo *repository.VehicleRepository, customerRepo *repository.CustomerRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo, customerRepo: customerRepo}
}

// CreateVehicleRequest 创建车辆请求
type CreateVehicleRequest struct {
	CustomerID     string `json:"customer_id"`
	RegistrationNo string `json:"registration_no"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	VIN            string `json:"vin"`
	Color          string `json:"color"`
	OdometerKm     int    `json:"odometer_km"`
	Notes          string `json:"notes"`
}

// UpdateVehicleRequest 更新车辆请求
type UpdateVehicleRequest struct {
	RegistrationNo *string `json:"registration_no"`
	Make           *string `json:"make"`
	Model          *string `json:"model"`
	Year           *int    `json:"year"`
	VIN            *string `json:"vin"`
	Color          *string `json:"color"`
	OdometerKm     *int    `json:"odometer_km"`
	Notes          *string `json:"notes"`
}

// Validate 校验创建请求，一次返回全部字段错误
func (r *CreateVehicleRequest) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(r.CustomerID) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: "customer_id", Message: "customer_id is required"})
	}
	if strings.TrimSpace(r.RegistrationNo) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: "registration_no", Message: "registration_no is required"})
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Create 创建车辆，客户必须属于同一门店
func (s *VehicleService) Create(ctx context.Context, garageID string, req *CreateVehicleRequest) (*entity.Vehicle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.FindByID(ctx, garageID, req.CustomerID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewValidationError("customer_id", "customer not found")
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	vehicle := &entity.Vehicle{
		ID:             uuid.New().String()[:32],
		GarageID:       garageID,
		CustomerID:     req.CustomerID,
		RegistrationNo: strings.ToUpper(strings.TrimSpace(req.RegistrationNo)),
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		VIN:            req.VIN,
		Color:          req.Color,
		OdometerKm:     req.OdometerKm,
		Notes:          req.Notes,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return vehicle, nil
}

// Get 车辆详情
func (s *VehicleService) Get(ctx context.Context, garageID, id string) (*entity.Vehicle, error) {
	return s.vehicleRepo.FindByID(ctx, garageID, id)
}

// List 车辆列表
func (s *VehicleService) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Vehicle, int64, error) {
	return s.vehicleRepo.List(ctx, garageID, page, pageSize, filters)
}

// Update 更新车辆
func (s *VehicleService) Update(ctx context.Context, garageID, id string, req *UpdateVehicleRequest) (*entity.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}

	if req.RegistrationNo != nil {
		if strings.TrimSpace(*req.RegistrationNo) == "" {
			return nil, NewValidationError("registration_no", "registration_no cannot be empty")
		}
		vehicle.RegistrationNo = strings.ToUpper(strings.TrimSpace(*req.RegistrationNo))
	}
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.VIN != nil {
		vehicle.VIN = *req.VIN
	}
	if req.Color != nil {
		vehicle.Color = *req.Color
	}
	if req.OdometerKm != nil {
		if *req.OdometerKm < 0 {
			return nil, NewValidationError("odometer_km", "odometer_km cannot be negative")
		}
		vehicle.OdometerKm = *req.OdometerKm
	}
	if req.Notes != nil {
		vehicle.Notes = *req.Notes
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return vehicle, nil
}

// Delete 软删除车辆
func (s *VehicleService) Delete(ctx context.Context, garageID, id string) error {
	return s.vehicleRepo.SoftDelete(ctx, garageID, id)
}
