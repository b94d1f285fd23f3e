package repository

import (
	"context"
	"errors"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// AttachmentRepository 工单附件仓库
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件仓库
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// FindByID 根据ID查找附件
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*entity.JobCardAttachment, error) {
	var attachment entity.JobCardAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// ListByJobCard 获取工单附件列表
func (r *AttachmentRepository) ListByJobCard(ctx context.Context, jobCardID string) ([]entity.JobCardAttachment, error) {
	var attachments []entity.JobCardAttachment
	err := r.db.WithContext(ctx).
		Where("job_card_id = ?", jobCardID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// Create 创建附件记录
func (r *AttachmentRepository) Create(ctx context.Context, attachment *entity.JobCardAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// Delete 删除附件记录
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.JobCardAttachment{}).Error
}
