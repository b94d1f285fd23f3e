package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// PartRepository 配件库存仓库
type PartRepository struct {
	db *gorm.DB
}

// NewPartRepository 创建配件仓库
func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// FindByID 根据ID查找配件
func (r *PartRepository) FindByID(ctx context.Context, garageID, id string) (*entity.Part, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).
		Where("id = ? AND garage_id = ? AND deleted_at IS NULL", id, garageID).
		First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// List 配件列表（分页）
func (r *PartRepository) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Part, int64, error) {
	var parts []entity.Part
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Part{}).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("part_no ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if filters["low_stock"] == "true" {
		query = query.Where("stock_qty <= min_stock_qty")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("part_no ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&parts).Error

	return parts, total, err
}

// Create 创建配件
func (r *PartRepository) Create(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// Update 更新配件
func (r *PartRepository) Update(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// SoftDelete 软删除配件
func (r *PartRepository) SoftDelete(ctx context.Context, garageID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Part{}).
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

// CountLowStock 统计库存低于安全线的配件数
func (r *PartRepository) CountLowStock(ctx context.Context, garageID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Part{}).
		Where("garage_id = ? AND deleted_at IS NULL AND stock_qty <= min_stock_qty", garageID).
		Count(&count).Error
	return count, err
}
