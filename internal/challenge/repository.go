package challenge

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("challenge not found")

type Repository interface {
	List(ctx context.Context) ([]Challenge, error)
	GetByID(ctx context.Context, id uint) (*Challenge, error)
	Create(ctx context.Context, ch *Challenge) error
	Update(ctx context.Context, ch *Challenge) error
	SoftDelete(ctx context.Context, id uint) error
	PermanentDelete(ctx context.Context, id uint) error
	RefreshCompleted(ctx context.Context, now time.Time) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) List(ctx context.Context) ([]Challenge, error) {
	var challenges []Challenge
	err := r.db.WithContext(ctx).
		Order("start_time ASC").
		Find(&challenges).Error
	return challenges, err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Challenge, error) {
	var ch Challenge
	err := r.db.WithContext(ctx).First(&ch, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *repository) Create(ctx context.Context, ch *Challenge) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

func (r *repository) Update(ctx context.Context, ch *Challenge) error {
	return r.db.WithContext(ctx).Save(ch).Error
}

func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&Challenge{}).
		Where("id = ?", id).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) PermanentDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Challenge{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RefreshCompleted reconciles the completed flag with the clock in both
// directions, so moving an end time back out reopens the challenge.
func (r *repository) RefreshCompleted(ctx context.Context, now time.Time) error {
	db := r.db.WithContext(ctx).Model(&Challenge{})
	if err := db.Session(&gorm.Session{}).
		Where("end_time <= ? AND completed = FALSE", now).
		Update("completed", true).Error; err != nil {
		return err
	}
	return db.Session(&gorm.Session{}).
		Where("end_time > ? AND completed = TRUE", now).
		Update("completed", false).Error
}
