package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	OwnedTasks    []Task        `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks []Task        `gorm:"foreignKey:AssignedTo" json:"-"`
	AccessTokens  []AccessToken `gorm:"foreignKey:UserID" json:"-"`
}
