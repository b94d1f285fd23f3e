package entity

import "time"

// User 登录账号，通过门店内唯一的login_id登录
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	GarageID     string `json:"garage_id" gorm:"size:32;not null;uniqueIndex:idx_users_garage_login"`
	LoginID      string `json:"login_id" gorm:"size:64;not null;uniqueIndex:idx_users_garage_login"`
	PasswordHash string `json:"-" gorm:"size:100;not null"`
	Name         string `json:"name" gorm:"size:100;not null"`
	Phone        string `json:"phone" gorm:"size:32"`
	Role         string `json:"role" gorm:"size:20;default:mechanic"` // admin/manager/mechanic/front_desk
	Status       string `json:"status" gorm:"size:20;default:active"` // active/disabled

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// 用户角色
const (
	UserRoleAdmin     = "admin"
	UserRoleManager   = "manager"
	UserRoleMechanic  = "mechanic"
	UserRoleFrontDesk = "front_desk"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
