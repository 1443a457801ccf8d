package food

import (
	"context"
	"fmt"

	"github.com/martlaane/organizer-backend/internal/auditlog"
)

type Service interface {
	ListFoods(ctx context.Context, category, foodType string) ([]Food, error)
	AddFood(ctx context.Context, req FoodRequest, userID uint, ip, requestID string) (*Food, error)
	DeleteFood(ctx context.Context, id uint, userID uint, ip, requestID string) error
	GetMealPlan(ctx context.Context) ([]MealPlan, error)
	SaveMealPlan(ctx context.Context, req SaveMealPlanRequest, userID uint, ip, requestID string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

func (s *service) ListFoods(ctx context.Context, category, foodType string) ([]Food, error) {
	return s.repo.ListFoods(ctx, category, foodType)
}

func (s *service) AddFood(ctx context.Context, req FoodRequest, userID uint, ip, requestID string) (*Food, error) {
	f := &Food{
		Name:      req.Name,
		Category:  req.Category,
		Type:      req.Type,
		CreatedBy: userID,
	}
	if err := s.repo.CreateFood(ctx, f); err != nil {
		return nil, err
	}
	s.logAudit(ctx, userID, "FOOD_ADDED", map[string]interface{}{"food_id": f.ID, "name": f.Name}, ip, requestID)
	return f, nil
}

func (s *service) DeleteFood(ctx context.Context, id uint, userID uint, ip, requestID string) error {
	if err := s.repo.DeleteFood(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "FOOD_DELETED", map[string]interface{}{"food_id": id}, ip, requestID)
	return nil
}

// GetMealPlan returns a full Monday-to-Sunday week, filling days that
// have never been saved with empty slots.
func (s *service) GetMealPlan(ctx context.Context) ([]MealPlan, error) {
	stored, err := s.repo.GetMealPlan(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]MealPlan, len(stored))
	for _, p := range stored {
		byDay[p.Day] = p
	}

	week := make([]MealPlan, 0, len(weekDays))
	for _, day := range weekDays {
		if p, ok := byDay[day]; ok {
			week = append(week, p)
			continue
		}
		week = append(week, MealPlan{Day: day})
	}
	return week, nil
}

// SaveMealPlan merges the submitted entries into the stored week. A nil
// slot keeps whatever the day already has; a set slot overwrites it.
func (s *service) SaveMealPlan(ctx context.Context, req SaveMealPlanRequest, userID uint, ip, requestID string) error {
	valid := make(map[string]bool, len(weekDays))
	for _, day := range weekDays {
		valid[day] = true
	}

	stored, err := s.repo.GetMealPlan(ctx)
	if err != nil {
		return err
	}
	byDay := make(map[string]MealPlan, len(stored))
	for _, p := range stored {
		byDay[p.Day] = p
	}

	plans := make([]MealPlan, 0, len(req.MealPlan))
	for _, entry := range req.MealPlan {
		if !valid[entry.Day] {
			return fmt.Errorf("unknown day %q", entry.Day)
		}
		p := byDay[entry.Day]
		p.Day = entry.Day
		if entry.Breakfast != nil {
			p.Breakfast = *entry.Breakfast
		}
		if entry.Lunch != nil {
			p.Lunch = *entry.Lunch
		}
		if entry.Dinner != nil {
			p.Dinner = *entry.Dinner
		}
		if entry.Snack != nil {
			p.Snack = *entry.Snack
		}
		plans = append(plans, p)
	}

	if err := s.repo.UpsertMealPlan(ctx, plans); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "MEAL_PLAN_SAVED", map[string]interface{}{"days": len(plans)}, ip, requestID)
	return nil
}

func (s *service) logAudit(ctx context.Context, userID uint, action string, details map[string]interface{}, ip, requestID string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, requestID, "SUCCESS")
}
