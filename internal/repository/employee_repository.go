package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// EmployeeRepository 员工仓库
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository 创建员工仓库
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByID 根据ID查找员工
func (r *EmployeeRepository) FindByID(ctx context.Context, garageID, id string) (*entity.Employee, error) {
	var employee entity.Employee
	err := r.db.WithContext(ctx).
		Where("id = ? AND garage_id = ? AND deleted_at IS NULL", id, garageID).
		First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// List 员工列表（分页）
func (r *EmployeeRepository) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Employee, int64, error) {
	var employees []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{}).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if role := filters["role"]; role != "" {
		query = query.Where("role = ?", role)
	}
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
		Find(&employees).Error

	return employees, total, err
}

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// SoftDelete 软删除员工
func (r *EmployeeRepository) SoftDelete(ctx context.Context, garageID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Employee{}).
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
