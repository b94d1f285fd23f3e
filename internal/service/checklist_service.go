package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
)

// ChecklistService 工单检查项/子步骤服务
type ChecklistService struct {
	checklistRepo *repository.ChecklistRepository
	jobCardRepo   *repository.JobCardRepository
}

// NewChecklistService 创建检查项服务
func NewChecklistService(checklistRepo *repository.ChecklistRepository, jobCardRepo *repository.JobCardRepository) *ChecklistService {
	return &ChecklistService{
		checklistRepo: checklistRepo,
		jobCardRepo:   jobCardRepo,
	}
}

// CreateChecklistItemRequest 创建检查项请求
type CreateChecklistItemRequest struct {
	MechanicID       *string `json:"mechanic_id"`
	ItemName         string  `json:"item_name" binding:"required"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	LaborRate        float64 `json:"labor_rate"`
	DisplayOrder     int     `json:"display_order"`
	Notes            string  `json:"notes"`
}

// CreateItem 创建检查项。item_name必填，其余字段有默认值；
// 工单冗余计数在插入同一事务内重算。
func (s *ChecklistService) CreateItem(ctx context.Context, garageID, jobCardID string, req *CreateChecklistItemRequest) (*entity.ChecklistItem, error) {
	if strings.TrimSpace(req.ItemName) == "" {
		return nil, NewValidationError("item_name", "is required")
	}
	if req.Status != "" && !entity.IsValidChecklistStatus(req.Status) {
		return nil, NewValidationError("status", "unknown status")
	}
	if req.EstimatedMinutes < 0 {
		return nil, NewValidationError("estimated_minutes", "must be a non-negative integer")
	}
	if req.LaborRate < 0 {
		return nil, NewValidationError("labor_rate", "must be non-negative")
	}

	// 依赖写之前先做存在性读
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return nil, err
	}

	item := &entity.ChecklistItem{
		ID:               uuid.New().String()[:32],
		JobCardID:        jobCardID,
		MechanicID:       req.MechanicID,
		ItemName:         req.ItemName,
		Description:      req.Description,
		Category:         req.Category,
		Status:           req.Status,
		Priority:         req.Priority,
		EstimatedMinutes: req.EstimatedMinutes,
		LaborRate:        req.LaborRate,
		DisplayOrder:     req.DisplayOrder,
		Notes:            req.Notes,
		Subtasks:         entity.SubtaskList{},
	}
	if item.Status == "" {
		item.Status = entity.ChecklistStatusPending
	}
	if item.Priority == "" {
		item.Priority = entity.JobCardPriorityMedium
	}

	if err := s.checklistRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create checklist item: %w", err)
	}
	return item, nil
}

// ListItems 工单检查项列表
func (s *ChecklistService) ListItems(ctx context.Context, garageID, jobCardID string) ([]entity.ChecklistItem, error) {
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return nil, err
	}
	return s.checklistRepo.ListByJobCard(ctx, jobCardID)
}

// UpdateChecklistItemRequest 更新检查项请求，nil字段不改
type UpdateChecklistItemRequest struct {
	MechanicID       *string  `json:"mechanic_id"`
	ItemName         *string  `json:"item_name"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category"`
	Status           *string  `json:"status"`
	Priority         *string  `json:"priority"`
	EstimatedMinutes *int     `json:"estimated_minutes"`
	LaborRate        *float64 `json:"labor_rate"`
	DisplayOrder     *int     `json:"display_order"`
	Notes            *string  `json:"notes"`
}

// UpdateItem 局部更新检查项，只写请求里出现的字段；
// 状态或工时相关字段变化会连带重算工单进度与费用。
func (s *ChecklistService) UpdateItem(ctx context.Context, garageID, jobCardID, id string, req *UpdateChecklistItemRequest) (*entity.ChecklistItem, error) {
	item, err := s.findScopedItem(ctx, garageID, jobCardID, id)
	if err != nil {
		return nil, err
	}

	if req.MechanicID != nil {
		item.MechanicID = req.MechanicID
	}
	if req.ItemName != nil {
		if strings.TrimSpace(*req.ItemName) == "" {
			return nil, NewValidationError("item_name", "must not be empty")
		}
		item.ItemName = *req.ItemName
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Status != nil {
		if !entity.IsValidChecklistStatus(*req.Status) {
			return nil, NewValidationError("status", "unknown status")
		}
		item.Status = *req.Status
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.EstimatedMinutes != nil {
		if *req.EstimatedMinutes < 0 {
			return nil, NewValidationError("estimated_minutes", "must be a non-negative integer")
		}
		item.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.LaborRate != nil {
		if *req.LaborRate < 0 {
			return nil, NewValidationError("labor_rate", "must be non-negative")
		}
		item.LaborRate = *req.LaborRate
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.checklistRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update checklist item: %w", err)
	}
	return item, nil
}

// DeleteItem 删除检查项
func (s *ChecklistService) DeleteItem(ctx context.Context, garageID, jobCardID, id string) error {
	if _, err := s.findScopedItem(ctx, garageID, jobCardID, id); err != nil {
		return err
	}
	return s.checklistRepo.DeleteItem(ctx, id)
}

// findScopedItem 按门店和工单校验检查项归属，跨门店按不存在处理
func (s *ChecklistService) findScopedItem(ctx context.Context, garageID, jobCardID, id string) (*entity.ChecklistItem, error) {
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return nil, err
	}
	item, err := s.checklistRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.JobCardID != jobCardID {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

// AddSubtaskRequest 添加子步骤请求
type AddSubtaskRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	EstimatedMinutes *int   `json:"estimated_minutes"`
	DisplayOrder     *int   `json:"display_order"`
}

// Validate 逐字段校验，返回全部字段错误而不是只报第一个
func (r *AddSubtaskRequest) Validate() *ValidationError {
	var fields []FieldError
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if r.EstimatedMinutes != nil && *r.EstimatedMinutes < 0 {
		fields = append(fields, FieldError{Field: "estimated_minutes", Message: "must be a non-negative integer"})
	}
	if r.DisplayOrder != nil && *r.DisplayOrder < 0 {
		fields = append(fields, FieldError{Field: "display_order", Message: "must be a non-negative integer"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// AddSubtask 向检查项追加子步骤。
// 子步骤整体存在父检查项的JSONB列表上，追加是整列表读-改-写。
func (s *ChecklistService) AddSubtask(ctx context.Context, garageID, jobCardID, itemID string, req *AddSubtaskRequest) (*entity.Subtask, *entity.ChecklistItem, error) {
	if verr := req.Validate(); verr != nil {
		return nil, nil, verr
	}

	item, err := s.findScopedItem(ctx, garageID, jobCardID, itemID)
	if err != nil {
		return nil, nil, err
	}

	subtask := entity.Subtask{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		Description: req.Description,
		Completed:   false,
	}
	if req.EstimatedMinutes != nil {
		subtask.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.DisplayOrder != nil {
		subtask.DisplayOrder = *req.DisplayOrder
	}

	item.Subtasks = append(item.Subtasks, subtask)
	if err := s.checklistRepo.SaveSubtasks(ctx, item); err != nil {
		return nil, nil, fmt.Errorf("save subtasks: %w", err)
	}

	return &subtask, item, nil
}

// ToggleSubtask 翻转子步骤完成状态
func (s *ChecklistService) ToggleSubtask(ctx context.Context, garageID, jobCardID, itemID, subtaskID string) (*entity.ChecklistItem, error) {
	item, err := s.findScopedItem(ctx, garageID, jobCardID, itemID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range item.Subtasks {
		if item.Subtasks[i].ID == subtaskID {
			item.Subtasks[i].Completed = !item.Subtasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	if err := s.checklistRepo.SaveSubtasks(ctx, item); err != nil {
		return nil, fmt.Errorf("save subtasks: %w", err)
	}
	return item, nil
}
