package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// VehicleRepository 车辆仓库
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository 创建车辆仓库
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// FindByID 根据ID查找车辆
func (r *VehicleRepository) FindByID(ctx context.Context, garageID, id string) (*entity.Vehicle, error) {
	var vehicle entity.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ? AND garage_id = ? AND deleted_at IS NULL", id, garageID).
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// List 车辆列表（分页）
func (r *VehicleRepository) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Vehicle, int64, error) {
	var vehicles []entity.Vehicle
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Vehicle{}).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if customerID := filters["customer_id"]; customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("registration_no ILIKE ? OR vin ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&vehicles).Error

	return vehicles, total, err
}

// Create 创建车辆
func (r *VehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// Update 更新车辆
func (r *VehicleRepository) Update(ctx context.Context, vehicle *entity.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// SoftDelete 软删除车辆
func (r *VehicleRepository) SoftDelete(ctx context.Context, garageID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Vehicle{}).
		Where("id = ? AND garage_id = ? AND deleted_at IS NULL", id, garageID).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
