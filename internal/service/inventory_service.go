package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
)

// InventoryService 配件库存服务
type InventoryService struct {
	partRepo *repository.PartRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(partRepo *repository.PartRepository) *InventoryService {
	return &InventoryService{partRepo: partRepo}
}

// CreatePartRequest 创建配件请求
type CreatePartRequest struct {
	PartNo      string  `json:"part_no"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	StockQty    float64 `json:"stock_qty"`
	MinStockQty float64 `json:"min_stock_qty"`
	Location    string  `json:"location"`
	Notes       string  `json:"notes"`
}

// UpdatePartRequest 更新配件请求
type UpdatePartRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Unit        *string  `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	MinStockQty *float64 `json:"min_stock_qty"`
	Location    *string  `json:"location"`
	Notes       *string  `json:"notes"`
}

// AdjustStockRequest 库存调整请求，delta可正可负
type AdjustStockRequest struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// Validate 校验创建请求
func (r *CreatePartRequest) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(r.PartNo) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: "part_no", Message: "part_no is required"})
	}
	if strings.TrimSpace(r.Name) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: "name", Message: "name is required"})
	}
	if r.UnitPrice < 0 {
		verr.Fields = append(verr.Fields, FieldError{Field: "unit_price", Message: "unit_price cannot be negative"})
	}
	if r.StockQty < 0 {
		verr.Fields = append(verr.Fields, FieldError{Field: "stock_qty", Message: "stock_qty cannot be negative"})
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Create 创建配件，同门店内part_no唯一
func (s *InventoryService) Create(ctx context.Context, garageID string, req *CreatePartRequest) (*entity.Part, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	part := &entity.Part{
		ID:          uuid.New().String()[:32],
		GarageID:    garageID,
		PartNo:      strings.TrimSpace(req.PartNo),
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Brand:       req.Brand,
		Unit:        unit,
		UnitPrice:   req.UnitPrice,
		StockQty:    req.StockQty,
		MinStockQty: req.MinStockQty,
		Location:    req.Location,
		Notes:       req.Notes,
	}
	if err := s.partRepo.Create(ctx, part); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, NewValidationError("part_no", "part_no already exists")
		}
		return nil, fmt.Errorf("create part: %w", err)
	}
	return part, nil
}

// Get 配件详情
func (s *InventoryService) Get(ctx context.Context, garageID, id string) (*entity.Part, error) {
	return s.partRepo.FindByID(ctx, garageID, id)
}

// List 配件列表，filters支持search/category/low_stock
func (s *InventoryService) List(ctx context.Context, garageID string, page, pageSize int, filters map[string]string) ([]entity.Part, int64, error) {
	return s.partRepo.List(ctx, garageID, page, pageSize, filters)
}

// Update 更新配件
func (s *InventoryService) Update(ctx context.Context, garageID, id string, req *UpdatePartRequest) (*entity.Part, error) {
	part, err := s.partRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, NewValidationError("name", "name cannot be empty")
		}
		part.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		part.Category = *req.Category
	}
	if req.Brand != nil {
		part.Brand = *req.Brand
	}
	if req.Unit != nil {
		part.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return nil, NewValidationError("unit_price", "unit_price cannot be negative")
		}
		part.UnitPrice = *req.UnitPrice
	}
	if req.MinStockQty != nil {
		if *req.MinStockQty < 0 {
			return nil, NewValidationError("min_stock_qty", "min_stock_qty cannot be negative")
		}
		part.MinStockQty = *req.MinStockQty
	}
	if req.Location != nil {
		part.Location = *req.Location
	}
	if req.Notes != nil {
		part.Notes = *req.Notes
	}

	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}
	return part, nil
}

// AdjustStock 手工调整库存，结果不能为负
func (s *InventoryService) AdjustStock(ctx context.Context, garageID, id string, req *AdjustStockRequest) (*entity.Part, error) {
	if req.Delta == 0 {
		return nil, NewValidationError("delta", "delta cannot be zero")
	}

	part, err := s.partRepo.FindByID(ctx, garageID, id)
	if err != nil {
		return nil, err
	}
	newQty := part.StockQty + req.Delta
	if newQty < 0 {
		return nil, NewValidationError("delta", fmt.Sprintf("insufficient stock: have %.2f", part.StockQty))
	}

	part.StockQty = newQty
	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return part, nil
}

// Delete 软删除配件
func (s *InventoryService) Delete(ctx context.Context, garageID, id string) error {
	return s.partRepo.SoftDelete(ctx, garageID, id)
}
