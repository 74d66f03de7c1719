package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a login allowed to edit the campaign.
type Account struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string     `gorm:"size:64;not null" json:"-"`
	Role         string     `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	LastLoginIP  string     `gorm:"size:45" json:"last_login_ip"`
}
