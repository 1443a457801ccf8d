package food

import "time"

// Food is one entry of the food catalogue used to fill meal plans.
type Food struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Category  string    `gorm:"size:50;not null;index" json:"category"`
	Type      string    `gorm:"size:50;not null;index" json:"type"`
	CreatedBy uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Food) TableName() string {
	return "foods"
}

// MealPlan is one weekday's plan. Day is unique, so saving a plan for a
// day that already has one merges into the existing row.
type MealPlan struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Day       string    `gorm:"size:10;not null;uniqueIndex" json:"day"`
	Breakfast string    `gorm:"size:200;not null;default:''" json:"breakfast"`
	Lunch     string    `gorm:"size:200;not null;default:''" json:"lunch"`
	Dinner    string    `gorm:"size:200;not null;default:''" json:"dinner"`
	Snack     string    `gorm:"size:200;not null;default:''" json:"snack"`
	UpdatedAt time.Time `json:"-"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}

// weekDays is the display order of the plan.
var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// FoodRequest is the payload for catalogue additions.
type FoodRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

// MealPlanEntry is one day's worth of a meal plan save. Nil fields keep
// whatever the stored plan already has for that slot.
type MealPlanEntry struct {
	Day       string  `json:"day" binding:"required"`
	Breakfast *string `json:"breakfast"`
	Lunch     *string `json:"lunch"`
	Dinner    *string `json:"dinner"`
	Snack     *string `json:"snack"`
}

// SaveMealPlanRequest carries the edited days of the week.
type SaveMealPlanRequest struct {
	MealPlan []MealPlanEntry `json:"meal_plan" binding:"required"`
}
