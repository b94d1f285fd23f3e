package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/openwrench/garagehub/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService 工单导出服务
type ExportService struct {
	jobCardRepo *repository.JobCardRepository
}

// NewExportService 创建导出服务
func NewExportService(jobCardRepo *repository.JobCardRepository) *ExportService {
	return &ExportService{jobCardRepo: jobCardRepo}
}

// ExportJobCards 按当前筛选条件导出工单xlsx
func (s *ExportService) ExportJobCards(ctx context.Context, garageID string, filters map[string]string) (*bytes.Buffer, string, error) {
	cards, err := s.jobCardRepo.ListForExport(ctx, garageID, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list job cards: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "JobCards"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"工单号", "客户", "车牌号", "状态", "优先级", "检查项", "进度%", "工时费", "配件费", "总费用", "创建时间"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, card := range cards {
		customerName := ""
		if card.Customer != nil {
			customerName = card.Customer.Name
		}
		registrationNo := ""
		if card.Vehicle != nil {
			registrationNo = card.Vehicle.RegistrationNo
		}
		values := []interface{}{
			card.JobCardNumber,
			customerName,
			registrationNo,
			card.Status,
			card.Priority,
			fmt.Sprintf("%d/%d", card.CompletedChecklistItems, card.TotalChecklistItems),
			card.ProgressPercentage,
			card.LaborCost,
			card.PartsCost,
			card.TotalCost,
			card.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write xlsx: %w", err)
	}

	filename := fmt.Sprintf("job_cards_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}
