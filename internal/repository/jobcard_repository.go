package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openwrench/garagehub/internal/entity"
	"gorm.io/gorm"
)

// JobCardRepository 工单仓库
type JobCardRepository struct {
	db *gorm.DB
}

// NewJobCardRepository 创建工单仓库
func NewJobCardRepository(db *gorm.DB) *JobCardRepository {
	return &JobCardRepository{db: db}
}

// FindByID 根据ID查找工单（软删除的不返回）
func (r *JobCardRepository) FindByID(ctx context.Context, garageID, id string) (*entity.JobCard, error) {
	var card entity.JobCard
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Preload("Parts").
		Where("id = ? AND garage_id = ? AND deleted_at IS NULL", id, garageID).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

// Create 创建工单
func (r *JobCardRepository) Create(ctx context.Context, card *entity.JobCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// Update 更新工单
func (r *JobCardRepository) Update(ctx context.Context, card *entity.JobCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// SoftDelete 软删除工单（置deleted_at，不物理删除）
func (r *JobCardRepository) SoftDelete(ctx context.Context, garageID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.JobCard{}).
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

// List 工单列表（分页）
func (r *JobCardRepository) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.JobCard, int64, error) {
	var cards []entity.JobCard
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.JobCard{}).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := filters["priority"]; priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if jobType := filters["job_type"]; jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}
	if customerID := filters["customer_id"]; customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if vehicleID := filters["vehicle_id"]; vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	if mechanicID := filters["mechanic_id"]; mechanicID != "" {
		query = query.Where("mechanic_id = ?", mechanicID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("job_card_number ILIKE ? OR customer_complaint ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if from := filters["from"]; from != "" {
		query = query.Where("created_at >= ?", from)
	}
	if to := filters["to"]; to != "" {
		query = query.Where("created_at <= ?", to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Customer").
		Preload("Vehicle").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&cards).Error

	return cards, total, err
}

// NextNumber 计算某门店当日下一个工单号候选
// 扫描该门店当日前缀下的最大号取后4位+1，并复查候选是否已被占用。
// 该读-算-查序列在并发下不保证唯一，真正的唯一性由job_card_number唯一索引兜底，
// 调用方在插入撞唯一约束时重试。
func (r *JobCardRepository) NextNumber(ctx context.Context, garageID string, day time.Time) (string, error) {
	prefix := entity.JobCardNumberPrefix(day)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.JobCard{}).
		Select("COALESCE(MAX(job_card_number), '')").
		Where("garage_id = ? AND job_card_number LIKE ?", garageID, prefix+"%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", fmt.Errorf("查询最大工单号失败: %w", err)
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber, prefix+"%04d", &seq)
	}
	seq++
	if seq > 9999 {
		// 当日序号用尽，按冲突处理让调用方重试直至放弃
		return "", gorm.ErrDuplicatedKey
	}

	candidate := entity.FormatJobCardNumber(day, seq)

	// 复查候选是否已存在（缩小读算窗口内并发插入造成的冲突概率）
	exists, err := r.NumberExists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if exists {
		return "", gorm.ErrDuplicatedKey
	}

	return candidate, nil
}

// NumberExists 工单号是否已存在（全系统唯一，不分门店）
func (r *JobCardRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.JobCard{}).
		Where("job_card_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询工单号失败: %w", err)
	}
	return count > 0, nil
}

// CountByStatus 按状态统计工单数
func (r *JobCardRepository) CountByStatus(ctx context.Context, garageID string) (map[string]int64, error) {
	var results []struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	err := r.db.WithContext(ctx).
		Model(&entity.JobCard{}).
		Select("status, COUNT(*) AS count").
		Where("garage_id = ? AND deleted_at IS NULL", garageID).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(results))
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountCreatedSince 统计某时间后创建的工单数
func (r *JobCardRepository) CountCreatedSince(ctx context.Context, garageID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.JobCard{}).
		Where("garage_id = ? AND deleted_at IS NULL AND created_at >= ?", garageID, since).
		Count(&count).Error
	return count, err
}

// ListForExport 导出用工单列表（不分页，带关联）
func (r *JobCardRepository) ListForExport(ctx context.Context, garageID string, filters map[string]string) ([]entity.JobCard, error) {
	var cards []entity.JobCard
	query := r.db.WithContext(ctx).
		Where("garage_id = ? AND deleted_at IS NULL", garageID)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if from := filters["from"]; from != "" {
		query = query.Where("created_at >= ?", from)
	}
	if to := filters["to"]; to != "" {
		query = query.Where("created_at <= ?", to)
	}

	err := query.
		Preload("Customer").
		Preload("Vehicle").
		Order("job_card_number ASC").
		Find(&cards).Error
	return cards, err
}
