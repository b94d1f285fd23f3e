package entity

import "time"

// Employee 员工档案（技师、前台等，与登录账号分开管理）
type Employee struct {
	ID         string   `json:"id" gorm:"primaryKey;size:32"`
	GarageID   string   `json:"garage_id" gorm:"size:32;not null;index"`
	UserID     *string  `json:"user_id" gorm:"size:32"` // 可选关联登录账号
	Name       string   `json:"name" gorm:"size:100;not null"`
	Phone      string   `json:"phone" gorm:"size:32"`
	Role       string   `json:"role" gorm:"size:32;default:mechanic"`
	Specialty  string   `json:"specialty" gorm:"size:100"` // 发动机/电气/钣金喷漆等
	HourlyRate *float64 `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	Status     string   `json:"status" gorm:"size:20;default:active"` // active/on_leave/resigned

	JoinedAt  *time.Time `json:"joined_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

// 员工状态
const (
	EmployeeStatusActive   = "active"
	EmployeeStatusOnLeave  = "on_leave"
	EmployeeStatusResigned = "resigned"
)
