package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// CustomerRepository 客户仓库
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID 根据ID查找客户
func (r *CustomerRepository) FindByID(ctx context.Context, garageID, id string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND garage_id = ? AND deleted_at IS NULL", id, garageID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// List 客户列表（分页）
func (r *CustomerRepository) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&customers).Error

	return customers, total, err
}

// Create 创建客户
func (r *CustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update 更新客户
func (r *CustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SoftDelete 软删除客户
func (r *CustomerRepository) SoftDelete(ctx context.Context, garageID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Customer{}).
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

// ListVehicles 获取客户名下车辆
func (r *CustomerRepository) ListVehicles(ctx context.Context, garageID, customerID string) ([]entity.Vehicle, error) {
	var vehicles []entity.Vehicle
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND garage_id = ? AND deleted_at IS NULL", customerID, garageID).
		Order("created_at DESC").
		Find(&vehicles).Error
	return vehicles, err
}
