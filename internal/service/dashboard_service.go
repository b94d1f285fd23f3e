package service

import (
	"context"
	"fmt"
	"time"

	"github.com/openwrench/garagehub/internal/repository"
)

// DashboardService 工作台统计服务
type DashboardService struct {
	jobCardRepo *repository.JobCardRepository
	partRepo    *repository.PartRepository
}

// NewDashboardService 创建统计服务
func NewDashboardService(jobCardRepo *repository.JobCardRepository, partRepo *repository.PartRepository) *DashboardService {
	return &DashboardService{jobCardRepo: jobCardRepo, partRepo: partRepo}
}

// DashboardSummary 工作台概览
type DashboardSummary struct {
	StatusCounts  map[string]int64 `json:"status_counts"`
	TodayJobCards int64            `json:"today_job_cards"`
	LowStockParts int64            `json:"low_stock_parts"`
}

// Summary 统计门店当前工单状态分布、今日新建工单数、低库存配件数
func (s *DashboardService) Summary(ctx context.Context, garageID string) (*DashboardSummary, error) {
	statusCounts, err := s.jobCardRepo.CountByStatus(ctx, garageID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayCount, err := s.jobCardRepo.CountCreatedSince(ctx, garageID, todayStart)
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}

	lowStock, err := s.partRepo.CountLowStock(ctx, garageID)
	if err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}

	return &DashboardSummary{
		StatusCounts:  statusCounts,
		TodayJobCards: todayCount,
		LowStockParts: lowStock,
	}, nil
}
