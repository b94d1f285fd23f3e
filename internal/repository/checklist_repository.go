package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// ChecklistRepository 工单检查项仓库
type ChecklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository 创建检查项仓库
func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// FindByID 根据ID查找检查项
func (r *ChecklistRepository) FindByID(ctx context.Context, id string) (*entity.ChecklistItem, error) {
	var item entity.ChecklistItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListByJobCard 获取工单下全部检查项
func (r *ChecklistRepository) ListByJobCard(ctx context.Context, jobCardID string) ([]entity.ChecklistItem, error) {
	var items []entity.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("job_card_id = ?", jobCardID).
		Order("display_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// CreateItem 创建检查项并在同一事务内重算工单冗余计数和费用
func (r *ChecklistRepository) CreateItem(ctx context.Context, item *entity.ChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return RecalcJobCardAggregates(tx, item.JobCardID)
	})
}

// UpdateItem 保存检查项并在同一事务内重算工单冗余计数和费用
func (r *ChecklistRepository) UpdateItem(ctx context.Context, item *entity.ChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return RecalcJobCardAggregates(tx, item.JobCardID)
	})
}

// SaveSubtasks 整体覆盖写子步骤列表（没有局部更新，读-改-写整个列表）
func (r *ChecklistRepository) SaveSubtasks(ctx context.Context, item *entity.ChecklistItem) error {
	return r.db.WithContext(ctx).
		Model(&entity.ChecklistItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"subtasks":   item.Subtasks,
			"updated_at": time.Now(),
		}).Error
}

// DeleteItem 删除检查项并重算工单冗余计数和费用
func (r *ChecklistRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item entity.ChecklistItem
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&entity.ChecklistItem{}).Error; err != nil {
			return err
		}
		return RecalcJobCardAggregates(tx, item.JobCardID)
	})
}

// RecalcJobCardAggregates 从检查项和配件行项全量重算工单的冗余字段。
// 进度计数与百分比永远重算而不是增量修补，保证
// completed <= total 且 progress == round(completed/total*100)。
func RecalcJobCardAggregates(tx *gorm.DB, jobCardID string) error {
	var counts struct {
		Total     int64   `gorm:"column:total"`
		Completed int64   `gorm:"column:completed"`
		LaborCost float64 `gorm:"column:labor_cost"`
	}
	err := tx.Model(&entity.ChecklistItem{}).
		Select("COUNT(*) AS total, "+
			"COUNT(*) FILTER (WHERE status = ?) AS completed, "+
			"COALESCE(SUM(estimated_minutes / 60.0 * labor_rate), 0) AS labor_cost",
			entity.ChecklistStatusCompleted).
		Where("job_card_id = ?", jobCardID).
		Scan(&counts).Error
	if err != nil {
		return err
	}

	var partsCost float64
	err = tx.Model(&entity.JobCardPart{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("job_card_id = ?", jobCardID).
		Scan(&partsCost).Error
	if err != nil {
		return err
	}

	progress := entity.CalcProgressPercentage(int(counts.Completed), int(counts.Total))

	return tx.Model(&entity.JobCard{}).
		Where("id = ?", jobCardID).
		Updates(map[string]interface{}{
			"total_checklist_items":     counts.Total,
			"completed_checklist_items": counts.Completed,
			"progress_percentage":       progress,
			"labor_cost":                counts.LaborCost,
			"parts_cost":                partsCost,
			"total_cost":                counts.LaborCost + partsCost,
			"updated_at":                time.Now(),
		}).Error
}
