package food

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("food not found")

type Repository interface {
	ListFoods(ctx context.Context, category, foodType string) ([]Food, error)
	CreateFood(ctx context.Context, f *Food) error
	DeleteFood(ctx context.Context, id uint) error
	GetMealPlan(ctx context.Context) ([]MealPlan, error)
	UpsertMealPlan(ctx context.Context, plans []MealPlan) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// ListFoods filters the catalogue; the literal "all" (or an empty
// string) matches every category or type.
func (r *repository) ListFoods(ctx context.Context, category, foodType string) ([]Food, error) {
	query := r.db.WithContext(ctx).Model(&Food{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if foodType != "" && foodType != "all" {
		query = query.Where("type = ?", foodType)
	}

	var foods []Food
	err := query.Order("name ASC").Find(&foods).Error
	return foods, err
}

func (r *repository) CreateFood(ctx context.Context, f *Food) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) DeleteFood(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Food{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GetMealPlan(ctx context.Context) ([]MealPlan, error) {
	var plans []MealPlan
	err := r.db.WithContext(ctx).Find(&plans).Error
	return plans, err
}

// UpsertMealPlan saves the given days, merging into existing rows on
// the day unique key.
func (r *repository) UpsertMealPlan(ctx context.Context, plans []MealPlan) error {
	if len(plans) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"breakfast", "lunch", "dinner", "snack", "updated_at"}),
		}).
		Create(&plans).Error
}
