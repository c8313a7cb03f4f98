package models

import "time"

// AccessToken is a bearer token issued at register/login. Only the SHA-256
// digest of the plaintext is stored; logout deletes the row.
type AccessToken struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	Digest     string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
