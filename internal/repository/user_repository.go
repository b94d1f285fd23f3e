package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// UserRepository 登录账号仓库
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账号仓库
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID 根据ID查找账号
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByLoginID 根据门店编码+登录ID查找账号（登录入口）
func (r *UserRepository) FindByLoginID(ctx context.Context, garageCode, loginID string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN garages ON garages.id = users.garage_id").
		Where("garages.code = ? AND users.login_id = ? AND users.deleted_at IS NULL", garageCode, loginID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建账号
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新账号
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// TouchLastLogin 记录最近登录时间
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"updated_at":    now,
		}).Error
}

// List 门店账号列表
func (r *UserRepository) List(ctx context.Context, garageID string, page, pageSize int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&users).Error

	return users, total, err
}
