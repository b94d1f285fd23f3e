package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
	"github.com/openwrench/garagehub/internal/sse"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxNumberAttempts 工单号分配最多尝试次数
const maxNumberAttempts = 5

// JobCardService 工单服务
type JobCardService struct {
	jobCardRepo  *repository.JobCardRepository
	historyRepo  *repository.StatusHistoryRepository
	customerRepo *repository.CustomerRepository
	vehicleRepo  *repository.VehicleRepository
	partRepo     *repository.PartRepository
	db           *gorm.DB
	logger       *zap.Logger
	hub          *sse.Hub
}

// NewJobCardService 创建工单服务
func NewJobCardService(
	jobCardRepo *repository.JobCardRepository,
	historyRepo *repository.StatusHistoryRepository,
	customerRepo *repository.CustomerRepository,
	vehicleRepo *repository.VehicleRepository,
	partRepo *repository.PartRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *JobCardService {
	return &JobCardService{
		jobCardRepo:  jobCardRepo,
		historyRepo:  historyRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		partRepo:     partRepo,
		db:           db,
		logger:       logger,
	}
}

// SetHub 注入SSE Hub（车间看板实时推送）
func (s *JobCardService) SetHub(hub *sse.Hub) {
	s.hub = hub
}

func (s *JobCardService) publish(garageID, jobCardID, action string) {
	if s.hub != nil {
		s.hub.PublishJobCardUpdate(garageID, jobCardID, action)
	}
}

// CreateJobCardRequest 创建工单请求
type CreateJobCardRequest struct {
	CustomerID        string  `json:"customer_id" binding:"required"`
	VehicleID         string  `json:"vehicle_id" binding:"required"`
	MechanicID        *string `json:"mechanic_id"`
	JobType           string  `json:"job_type"`
	Priority          string  `json:"priority"`
	CustomerComplaint string  `json:"customer_complaint"`
	WorkRequested     string  `json:"work_requested"`
	OdometerKm        int     `json:"odometer_km"`
}

// Create 创建工单并分配当日序号。
// 号段按门店按自然日递增，唯一性由job_card_number唯一索引兜底：
// 插入撞唯一约束则重新取号重试，最多5次，仍冲突返回ErrNumberExhausted。
func (s *JobCardService) Create(ctx context.Context, garageID, userID string, req *CreateJobCardRequest) (*entity.JobCard, error) {
	// 依赖写之前先做存在性读
	if _, err := s.customerRepo.FindByID(ctx, garageID, req.CustomerID); err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, garageID, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle: %w", err)
	}
	if vehicle.CustomerID != req.CustomerID {
		return nil, NewValidationError("vehicle_id", "vehicle does not belong to customer")
	}
	if req.Priority != "" && !entity.IsValidJobCardPriority(req.Priority) {
		return nil, NewValidationError("priority", "unknown priority")
	}

	card := &entity.JobCard{
		ID:                uuid.New().String()[:32],
		GarageID:          garageID,
		CustomerID:        req.CustomerID,
		VehicleID:         req.VehicleID,
		MechanicID:        req.MechanicID,
		JobType:           req.JobType,
		Priority:          req.Priority,
		Status:            entity.JobCardStatusPending,
		CustomerComplaint: req.CustomerComplaint,
		WorkRequested:     req.WorkRequested,
		OdometerKm:        req.OdometerKm,
		CreatedBy:         userID,
	}
	if card.JobType == "" {
		card.JobType = "general"
	}
	if card.Priority == "" {
		card.Priority = entity.JobCardPriorityMedium
	}

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.jobCardRepo.NextNumber(ctx, garageID, time.Now())
		if err != nil {
			if repository.IsDuplicateKey(err) {
				continue
			}
			return nil, fmt.Errorf("generate job card number: %w", err)
		}

		card.JobCardNumber = number
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(card).Error; err != nil {
				return err
			}
			// 初始状态也进变更记录，审计从创建开始
			return tx.Create(&entity.JobCardStatusHistory{
				ID:        uuid.New().String()[:32],
				JobCardID: card.ID,
				ToStatus:  card.Status,
				ChangedBy: userID,
			}).Error
		})
		if err == nil {
			s.publish(garageID, card.ID, "created")
			return card, nil
		}
		if repository.IsDuplicateKey(err) {
			s.logger.Warn("job card number collision, retrying",
				zap.String("garage_id", garageID),
				zap.String("number", number),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return nil, fmt.Errorf("create job card: %w", err)
	}

	return nil, ErrNumberExhausted
}

// Get 获取工单详情
func (s *JobCardService) Get(ctx context.Context, garageID, id string) (*entity.JobCard, error) {
	return s.jobCardRepo.FindByID(ctx, garageID, id)
}

// List 工单列表
func (s *JobCardService) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.JobCard, int64, error) {
	return s.jobCardRepo.List(ctx, garageID, page, pageSize, filters)
}

// UpdateJobCardRequest 更新工单请求，nil字段不改
type UpdateJobCardRequest struct {
	MechanicID        *string `json:"mechanic_id"`
	JobType           *string `json:"job_type"`
	Priority          *string `json:"priority"`
	CustomerComplaint *string `json:"customer_complaint"`
	WorkRequested     *string `json:"work_requested"`
	Diagnosis         *string `json:"diagnosis"`
	OdometerKm        *int    `json:"odometer_km"`
}

// Update 局部更新工单（状态只能走UpdateStatus）
func (s *JobCardService) Update(ctx context.Context, garageID, id string, req *UpdateJobCardRequest) (*entity.JobCard, error) {
	card, err := s.jobCardRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}

	if req.MechanicID != nil {
		card.MechanicID = req.MechanicID
	}
	if req.JobType != nil {
		card.JobType = *req.JobType
	}
	if req.Priority != nil {
		if !entity.IsValidJobCardPriority(*req.Priority) {
			return nil, NewValidationError("priority", "unknown priority")
		}
		card.Priority = *req.Priority
	}
	if req.CustomerComplaint != nil {
		card.CustomerComplaint = *req.CustomerComplaint
	}
	if req.WorkRequested != nil {
		card.WorkRequested = *req.WorkRequested
	}
	if req.Diagnosis != nil {
		card.Diagnosis = *req.Diagnosis
	}
	if req.OdometerKm != nil {
		card.OdometerKm = *req.OdometerKm
	}

	if err := s.jobCardRepo.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("update job card: %w", err)
	}
	s.publish(garageID, card.ID, "updated")
	return card, nil
}

// Delete 软删除工单
func (s *JobCardService) Delete(ctx context.Context, garageID, id string) error {
	if err := s.jobCardRepo.SoftDelete(ctx, garageID, id); err != nil {
		return err
	}
	s.publish(garageID, id, "deleted")
	return nil
}

// UpdateStatus 变更工单状态。必须带操作人，可选原因；
// 变更记录与状态写入在同一事务内，要么都成功要么都失败。
// 状态变更不重算费用和进度字段。
func (s *JobCardService) UpdateStatus(ctx context.Context, garageID, id, status, userID, reason string) (*entity.JobCard, error) {
	if userID == "" {
		return nil, NewValidationError("user_id", "acting user is required")
	}
	if !entity.IsValidJobCardStatus(status) {
		return nil, NewValidationError("status", "unknown status")
	}

	card, err := s.jobCardRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}

	fromStatus := card.Status
	now := time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity.JobCardStatusHistory{
			ID:         uuid.New().String()[:32],
			JobCardID:  card.ID,
			FromStatus: fromStatus,
			ToStatus:   status,
			Reason:     reason,
			ChangedBy:  userID,
			CreatedAt:  now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.JobCard{}).
			Where("id = ?", card.ID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update job card status: %w", err)
	}

	card.Status = status
	card.UpdatedAt = now
	s.publish(garageID, card.ID, "status_changed")
	return card, nil
}

// History 工单状态变更记录
func (s *JobCardService) History(ctx context.Context, garageID, id string) ([]entity.JobCardStatusHistory, error) {
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, id); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByJobCard(ctx, id)
}

// AddPartRequest 工单领用配件请求
type AddPartRequest struct {
	PartID   string  `json:"part_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
}

// AddPart 工单领用配件：扣库存、写行项、重算配件费，单事务
func (s *JobCardService) AddPart(ctx context.Context, garageID, jobCardID, userID string, req *AddPartRequest) (*entity.JobCardPart, error) {
	if req.Quantity <= 0 {
		return nil, NewValidationError("quantity", "must be greater than 0")
	}

	card, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID)
	if err != nil {
		return nil, err
	}

	var usage *entity.JobCardPart
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var part entity.Part
		if err := tx.Where("id = ? AND garage_id = ? AND deleted_at IS NULL", req.PartID, garageID).
			First(&part).Error; err != nil {
			return repository.ErrNotFound
		}
		if part.StockQty < req.Quantity {
			return NewValidationError("quantity", "insufficient stock")
		}

		if err := tx.Model(&entity.Part{}).
			Where("id = ?", part.ID).
			Updates(map[string]interface{}{
				"stock_qty":  gorm.Expr("stock_qty - ?", req.Quantity),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		usage = &entity.JobCardPart{
			ID:         uuid.New().String()[:32],
			JobCardID:  card.ID,
			PartID:     part.ID,
			PartNo:     part.PartNo,
			PartName:   part.Name,
			Quantity:   req.Quantity,
			UnitPrice:  part.UnitPrice,
			TotalPrice: part.UnitPrice * req.Quantity,
			AddedBy:    userID,
		}
		if err := tx.Create(usage).Error; err != nil {
			return err
		}

		return repository.RecalcJobCardAggregates(tx, card.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(garageID, card.ID, "part_added")
	return usage, nil
}

// RemovePart 撤销工单配件领用并回补库存
func (s *JobCardService) RemovePart(ctx context.Context, garageID, jobCardID, usageID string) error {
	card, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var usage entity.JobCardPart
		if err := tx.Where("id = ? AND job_card_id = ?", usageID, card.ID).
			First(&usage).Error; err != nil {
			return repository.ErrNotFound
		}

		if err := tx.Model(&entity.Part{}).
			Where("id = ?", usage.PartID).
			Updates(map[string]interface{}{
				"stock_qty":  gorm.Expr("stock_qty + ?", usage.Quantity),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&usage).Error; err != nil {
			return err
		}

		return repository.RecalcJobCardAggregates(tx, card.ID)
	})
	if err != nil {
		return err
	}

	s.publish(garageID, card.ID, "part_removed")
	return nil
}
