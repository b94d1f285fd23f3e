package entity

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// JobCard 维修工单
type JobCard struct {
	ID            string  `json:"id" gorm:"primaryKey;size:32"`
	JobCardNumber string  `json:"job_card_number" gorm:"size:20;uniqueIndex;not null"` // JC-YYYYMMDD-NNNN
	GarageID      string  `json:"garage_id" gorm:"size:32;not null;index"`
	CustomerID    string  `json:"customer_id" gorm:"size:32;not null;index"`
	VehicleID     string  `json:"vehicle_id" gorm:"size:32;not null;index"`
	MechanicID    *string `json:"mechanic_id" gorm:"size:32"` // 主责技师

	JobType  string `json:"job_type" gorm:"size:50;default:general"`   // general/maintenance/repair/inspection/bodywork
	Priority string `json:"priority" gorm:"size:20;default:medium"`    // low/medium/high/urgent
	Status   string `json:"status" gorm:"size:20;default:pending;index"` // pending/in-progress/on-hold/completed/cancelled

	CustomerComplaint string `json:"customer_complaint" gorm:"type:text"`
	WorkRequested     string `json:"work_requested" gorm:"type:text"`
	Diagnosis         string `json:"diagnosis" gorm:"type:text"`
	OdometerKm        int    `json:"odometer_km" gorm:"default:0"`

	// 费用（由检查项/配件变更时重算，状态变更不触碰）
	LaborCost float64 `json:"labor_cost" gorm:"type:decimal(12,2);default:0"`
	PartsCost float64 `json:"parts_cost" gorm:"type:decimal(12,2);default:0"`
	TotalCost float64 `json:"total_cost" gorm:"type:decimal(12,2);default:0"`

	// 进度（冗余计数，始终从检查项全量重算）
	TotalChecklistItems     int `json:"total_checklist_items" gorm:"default:0"`
	CompletedChecklistItems int `json:"completed_checklist_items" gorm:"default:0"`
	ProgressPercentage      int `json:"progress_percentage" gorm:"default:0"`

	CreatedBy string     `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Customer       *Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Vehicle        *Vehicle        `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	ChecklistItems []ChecklistItem `json:"checklist_items,omitempty" gorm:"foreignKey:JobCardID"`
	Parts          []JobCardPart   `json:"parts,omitempty" gorm:"foreignKey:JobCardID"`
}

func (JobCard) TableName() string {
	return "job_cards"
}

// 工单状态
const (
	JobCardStatusPending    = "pending"
	JobCardStatusInProgress = "in-progress"
	JobCardStatusOnHold     = "on-hold"
	JobCardStatusCompleted  = "completed"
	JobCardStatusCancelled  = "cancelled"
)

// 工单优先级
const (
	JobCardPriorityLow    = "low"
	JobCardPriorityMedium = "medium"
	JobCardPriorityHigh   = "high"
	JobCardPriorityUrgent = "urgent"
)

// JobCardStatuses 状态全集（闭集，写入前校验成员资格）
var JobCardStatuses = []string{
	JobCardStatusPending,
	JobCardStatusInProgress,
	JobCardStatusOnHold,
	JobCardStatusCompleted,
	JobCardStatusCancelled,
}

// IsValidJobCardStatus 状态是否属于闭集
func IsValidJobCardStatus(s string) bool {
	for _, v := range JobCardStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// JobCardPriorities 优先级全集
var JobCardPriorities = []string{
	JobCardPriorityLow,
	JobCardPriorityMedium,
	JobCardPriorityHigh,
	JobCardPriorityUrgent,
}

// IsValidJobCardPriority 优先级是否合法
func IsValidJobCardPriority(s string) bool {
	for _, v := range JobCardPriorities {
		if v == s {
			return true
		}
	}
	return false
}

// JobCardStatusHistory 工单状态变更记录（追加写，不修改）
type JobCardStatusHistory struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	JobCardID  string    `json:"job_card_id" gorm:"size:32;not null;index"`
	FromStatus string    `json:"from_status" gorm:"size:20"`
	ToStatus   string    `json:"to_status" gorm:"size:20;not null"`
	Reason     string    `json:"reason" gorm:"type:text"`
	ChangedBy  string    `json:"changed_by" gorm:"size:32;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (JobCardStatusHistory) TableName() string {
	return "job_card_status_histories"
}

// JobCardPart 工单领用配件行项
type JobCardPart struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	JobCardID  string  `json:"job_card_id" gorm:"size:32;not null;index"`
	PartID     string  `json:"part_id" gorm:"size:32;not null"`
	PartNo     string  `json:"part_no" gorm:"size:64"`
	PartName   string  `json:"part_name" gorm:"size:200;not null"`
	Quantity   float64 `json:"quantity" gorm:"type:decimal(10,2);not null"`
	UnitPrice  float64 `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	TotalPrice float64 `json:"total_price" gorm:"type:decimal(12,2);default:0"`

	AddedBy   string    `json:"added_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
}

func (JobCardPart) TableName() string {
	return "job_card_parts"
}

// 工单号格式 JC-YYYYMMDD-NNNN，序号按门店按自然日从0001起
const jobCardNumberPrefix = "JC-"

var jobCardNumberRe = regexp.MustCompile(`^JC-\d{8}-\d{4}$`)

// JobCardNumberPrefix 某日期的工单号前缀，如 JC-20250124-
func JobCardNumberPrefix(day time.Time) string {
	return fmt.Sprintf("%s%s-", jobCardNumberPrefix, day.Format("20060102"))
}

// FormatJobCardNumber 组装工单号
func FormatJobCardNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", JobCardNumberPrefix(day), seq)
}

// IsValidJobCardNumber 工单号是否严格匹配 JC-8位日期-4位序号
func IsValidJobCardNumber(s string) bool {
	return jobCardNumberRe.MatchString(s)
}

// DateFromJobCardNumber 从工单号提取日期，非法工单号返回nil而不是报错
func DateFromJobCardNumber(s string) *time.Time {
	if !IsValidJobCardNumber(s) {
		return nil
	}
	t, err := time.ParseInLocation("20060102", s[3:11], time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// CalcProgressPercentage 进度百分比，completed/total四舍五入，total为0时为0
func CalcProgressPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
