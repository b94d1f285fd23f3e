package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Subtask 检查项子步骤，整体以JSONB存在父检查项上，没有独立表
type Subtask struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Completed        bool   `json:"completed"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	DisplayOrder     int    `json:"display_order"`
}

// SubtaskList JSONB子步骤列表
type SubtaskList []Subtask

func (l SubtaskList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *SubtaskList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan SubtaskList: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// ChecklistItem 工单检查项（作业项），归属且仅归属一个工单
type ChecklistItem struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	JobCardID  string  `json:"job_card_id" gorm:"size:32;not null;index"`
	MechanicID *string `json:"mechanic_id" gorm:"size:32"`

	ItemName    string `json:"item_name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:50"`
	Status      string `json:"status" gorm:"size:20;default:pending"`  // pending/in-progress/completed/skipped
	Priority    string `json:"priority" gorm:"size:20;default:medium"` // low/medium/high/urgent

	EstimatedMinutes int     `json:"estimated_minutes" gorm:"default:0"`
	LaborRate        float64 `json:"labor_rate" gorm:"type:decimal(10,2);default:0"` // 每小时工时费
	DisplayOrder     int     `json:"display_order" gorm:"default:0"`
	Notes            string  `json:"notes" gorm:"type:text"`

	Subtasks SubtaskList `json:"subtasks" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChecklistItem) TableName() string {
	return "job_card_checklist_items"
}

// 检查项状态
const (
	ChecklistStatusPending    = "pending"
	ChecklistStatusInProgress = "in-progress"
	ChecklistStatusCompleted  = "completed"
	ChecklistStatusSkipped    = "skipped"
)

// ChecklistStatuses 检查项状态全集
var ChecklistStatuses = []string{
	ChecklistStatusPending,
	ChecklistStatusInProgress,
	ChecklistStatusCompleted,
	ChecklistStatusSkipped,
}

// IsValidChecklistStatus 检查项状态是否合法
func IsValidChecklistStatus(s string) bool {
	for _, v := range ChecklistStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// LaborCost 检查项工时费 = 预估分钟/60 × 时薪
func (i *ChecklistItem) LaborCost() float64 {
	return float64(i.EstimatedMinutes) / 60 * i.LaborRate
}
