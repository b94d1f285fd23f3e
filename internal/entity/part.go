package entity

import "time"

// Part 配件库存
type Part struct {
	ID          string  `json:"id" gorm:"primaryKey;size:32"`
	GarageID    string  `json:"garage_id" gorm:"size:32;not null;uniqueIndex:idx_parts_garage_no"`
	PartNo      string  `json:"part_no" gorm:"size:64;not null;uniqueIndex:idx_parts_garage_no"`
	Name        string  `json:"name" gorm:"size:200;not null"`
	Category    string  `json:"category" gorm:"size:50;index"`
	Brand       string  `json:"brand" gorm:"size:100"`
	Unit        string  `json:"unit" gorm:"size:20;default:pcs"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	StockQty    float64 `json:"stock_qty" gorm:"type:decimal(10,2);default:0"`
	MinStockQty float64 `json:"min_stock_qty" gorm:"type:decimal(10,2);default:0"`
	Location    string  `json:"location" gorm:"size:100"` // 货架位置
	Notes       string  `json:"notes" gorm:"type:text"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (Part) TableName() string {
	return "parts"
}
