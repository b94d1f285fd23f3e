package entity

import "time"

// Customer 客户
type Customer struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	GarageID string `json:"garage_id" gorm:"size:32;not null;index"`
	Name     string `json:"name" gorm:"size:100;not null"`
	Phone    string `json:"phone" gorm:"size:32;index"`
	Email    string `json:"email" gorm:"size:100"`
	Address  string `json:"address" gorm:"size:500"`
	Notes    string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Vehicles []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Customer) TableName() string {
	return "customers"
}
