package models

import (
	"time"
)

const UserTable = "bl_users"

type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FirstName    string `gorm:"size:150" json:"first_name"`
	LastName     string `gorm:"size:150" json:"last_name"`
	Email        string `gorm:"size:254" json:"email"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"-"`

	LastLoginAt *time.Time `gorm:"index" json:"-"`
	LastSeenAt  *time.Time `gorm:"index" json:"-"`
	LoginCount  int64      `gorm:"not null;default:0" json:"-"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return UserTable }
