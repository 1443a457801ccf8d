package auth

import (
	"time"
)

// User is an account that can log into the organizer
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Status       string    `gorm:"type:varchar(20);default:active" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token for session renewal
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
