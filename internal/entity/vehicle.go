package entity

import "time"

// Vehicle 车辆
type Vehicle struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	GarageID       string `json:"garage_id" gorm:"size:32;not null;index"`
	CustomerID     string `json:"customer_id" gorm:"size:32;not null;index"`
	RegistrationNo string `json:"registration_no" gorm:"size:32;not null;index"`
	Make           string `json:"make" gorm:"size:50"`
	Model          string `json:"model" gorm:"size:50"`
	Year           int    `json:"year"`
	VIN            string `json:"vin" gorm:"size:32"`
	Color          string `json:"color" gorm:"size:32"`
	OdometerKm     int    `json:"odometer_km" gorm:"default:0"`
	Notes          string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
