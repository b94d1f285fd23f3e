package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// IsDuplicateKey 是否唯一约束冲突（工单号生成重试依赖该判定）
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

// Repositories 仓库集合
type Repositories struct {
	Garage        *GarageRepository
	User          *UserRepository
	Customer      *CustomerRepository
	Vehicle       *VehicleRepository
	Employee      *EmployeeRepository
	Part          *PartRepository
	JobCard       *JobCardRepository
	Checklist     *ChecklistRepository
	StatusHistory *StatusHistoryRepository
	Attachment    *AttachmentRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Garage:        NewGarageRepository(db),
		User:          NewUserRepository(db),
		Customer:      NewCustomerRepository(db),
		Vehicle:       NewVehicleRepository(db),
		Employee:      NewEmployeeRepository(db),
		Part:          NewPartRepository(db),
		JobCard:       NewJobCardRepository(db),
		Checklist:     NewChecklistRepository(db),
		StatusHistory: NewStatusHistoryRepository(db),
		Attachment:    NewAttachmentRepository(db),
	}
}
