package repository

import (
	"context"
	"errors"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// GarageRepository 门店仓库
type GarageRepository struct {
	db *gorm.DB
}

// NewGarageRepository 创建门店仓库
func NewGarageRepository(db *gorm.DB) *GarageRepository {
	return &GarageRepository{db: db}
}

// FindByID 根据ID查找门店
func (r *GarageRepository) FindByID(ctx context.Context, id string) (*entity.Garage, error) {
	var garage entity.Garage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&garage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &garage, nil
}

// FindByCode 根据门店编码查找门店
func (r *GarageRepository) FindByCode(ctx context.Context, code string) (*entity.Garage, error) {
	var garage entity.Garage
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&garage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &garage, nil
}

// Create 创建门店
func (r *GarageRepository) Create(ctx context.Context, garage *entity.Garage) error {
	return r.db.WithContext(ctx).Create(garage).Error
}

// Update 更新门店
func (r *GarageRepository) Update(ctx context.Context, garage *entity.Garage) error {
	return r.db.WithContext(ctx).Save(garage).Error
}
