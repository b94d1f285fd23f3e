package entity

import "time"

// Garage 门店（租户），客户/车辆/员工/工单均归属于某个门店
type Garage struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	Code    string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name    string `json:"name" gorm:"size:200;not null"`
	Phone   string `json:"phone" gorm:"size:32"`
	Address string `json:"address" gorm:"size:500"`
	Status  string `json:"status" gorm:"size:20;default:active"` // active/suspended

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Garage) TableName() string {
	return "garages"
}

// 门店状态
const (
	GarageStatusActive    = "active"
	GarageStatusSuspended = "suspended"
)
