package calendar

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Store is the persistence boundary of the calendar. Transaction hands
// the callback a Store bound to the same transaction; returning an
// error rolls every statement back.
type Store interface {
	ListActive(ctx context.Context, from, to time.Time) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id uint) (*Event, error)
	Insert(ctx context.Context, ev *Event) error
	Update(ctx context.Context, ev *Event) error
	SoftDelete(ctx context.Context, id uint) error
	Transaction(ctx context.Context, fn func(Store) error) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Store {
	return &repository{db}
}

// ListActive loads the rows that can contribute occurrences to the
// window: series that started by its end and either still repeat or
// reach into it, plus exception events anchored inside it.
func (r *repository) ListActive(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("deleted = FALSE").
		Where("start_date <= ?", DateOnly(to)).
		Where(
			r.db.Where("recurrence <> ?", string(FreqNone)).
				Or("COALESCE(end_date, start_date) >= ?", DateOnly(from)),
		).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return events, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("deleted = FALSE").
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return events, nil
}

func (r *repository) Get(ctx context.Context, id uint) (*Event, error) {
	var ev Event
	err := r.db.WithContext(ctx).
		Where("deleted = FALSE").
		First(&ev, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &ev, nil
}

func (r *repository) Insert(ctx context.Context, ev *Event) error {
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}

func (r *repository) Update(ctx context.Context, ev *Event) error {
	if err := r.db.WithContext(ctx).Save(ev).Error; err != nil {
		return &StorageError{Op: "update", Err: err}
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND deleted = FALSE", id).
		Update("deleted", true)
	if res.Error != nil {
		return &StorageError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Transaction(ctx context.Context, fn func(Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{tx})
	})
}
