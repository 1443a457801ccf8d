package auth

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByUsername(username string) (*User, error)
	FindByID(userID uint) (User, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

func (r *repository) FindByUsername(username string) (*User, error) {
	var u User
	err := r.db.Where("username = ?", username).First(&u).Error
	return &u, err
}

func (r *repository) FindByID(userID uint) (User, error) {
	var user User
	err := r.db.First(&user, userID).Error
	return user, err
}
