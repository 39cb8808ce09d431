package models

import (
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Account limits enforced at registration and on every save.
const (
	UsernameMinLength = 5
	UsernameMaxLength = 30
	PasswordMinLength = 8
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Username     string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	DateOfBirth  time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

// ValidUsername reports whether username fits the account length policy.
func ValidUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= UsernameMinLength && n <= UsernameMaxLength
}

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if !ValidUsername(u.Username) {
		return gorm.ErrInvalidData
	}
	if u.PasswordHash == "" {
		return gorm.ErrInvalidData
	}
	if u.DateOfBirth.IsZero() {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
