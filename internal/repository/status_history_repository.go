package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// StatusHistoryRepository 工单状态变更记录仓库
type StatusHistoryRepository struct {
	db *gorm.DB
}

// NewStatusHistoryRepository 创建状态变更记录仓库
func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

// Create 追加状态变更记录
func (r *StatusHistoryRepository) Create(ctx context.Context, h *entity.JobCardStatusHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(h).Error
}

// ListByJobCard 获取工单的状态变更记录（时间倒序）
func (r *StatusHistoryRepository) ListByJobCard(ctx context.Context, jobCardID string) ([]entity.JobCardStatusHistory, error) {
	var items []entity.JobCardStatusHistory
	err := r.db.WithContext(ctx).
		Where("job_card_id = ?", jobCardID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
