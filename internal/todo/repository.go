package todo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("todo not found")

type Repository interface {
	ListActive(ctx context.Context) ([]Todo, error)
	ListCompleted(ctx context.Context) ([]Todo, error)
	ListDeleted(ctx context.Context) ([]Todo, error)
	GetByID(ctx context.Context, id uint) (*Todo, error)
	Create(ctx context.Context, t *Todo) error
	Update(ctx context.Context, t *Todo) error
	SetCompleted(ctx context.Context, ids []uint, completed bool) error
	SetDeleted(ctx context.Context, ids []uint, deleted bool) error
	PermanentDelete(ctx context.Context, ids []uint) error
	Reorder(ctx context.Context, orderedIDs []uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListActive(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	err := r.db.WithContext(ctx).
		Where("completed = FALSE AND deleted = FALSE").
		Order("position ASC").
		Find(&todos).Error
	return todos, err
}

func (r *repository) ListCompleted(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	err := r.db.WithContext(ctx).
		Where("completed = TRUE AND deleted = FALSE").
		Order("updated_at DESC").
		Find(&todos).Error
	return todos, err
}

func (r *repository) ListDeleted(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	err := r.db.WithContext(ctx).
		Where("deleted = TRUE").
		Order("updated_at DESC").
		Find(&todos).Error
	return todos, err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Todo, error) {
	var t Todo
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create appends the item at the end of the active list.
func (r *repository) Create(ctx context.Context, t *Todo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&Todo{}).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		t.Position = maxPos + 1
		return tx.Create(t).Error
	})
}

func (r *repository) Update(ctx context.Context, t *Todo) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) SetCompleted(ctx context.Context, ids []uint, completed bool) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Todo{}).
		Where("id IN ?", ids).
		Update("completed", completed).Error
}

func (r *repository) SetDeleted(ctx context.Context, ids []uint, deleted bool) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Todo{}).
		Where("id IN ?", ids).
		Update("deleted", deleted).Error
}

func (r *repository) PermanentDelete(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&Todo{}).Error
}

// Reorder rewrites the position column to match the given order. All
// updates land in one transaction so a failed write cannot leave the
// list half-shuffled.
func (r *repository) Reorder(ctx context.Context, orderedIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&Todo{}).
				Where("id = ?", id).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
