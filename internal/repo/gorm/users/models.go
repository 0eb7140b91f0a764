package usersgorm

import (
	"time"

	"github.com/lightgame/panel/internal/access"
)

// UserAccount is a game API account.
type UserAccount struct {
	ID           int    `gorm:"primaryKey"`
	Name         string `gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:100"`
	Access       access.Level
	Active       bool `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserAccount) TableName() string { return "user_accounts" }
