package todo

import (
	"context"
	"time"

	"github.com/martlaane/organizer-backend/internal/auditlog"
)

// dueSoonDays is the lookahead window for the due-soon flag.
const dueSoonDays = 3

// IsOverdue reports whether a due date lies strictly before the
// reference date. Items without a due date are never overdue.
func IsOverdue(due *time.Time, ref time.Time) bool {
	if due == nil {
		return false
	}
	return dateOf(*due).Before(dateOf(ref))
}

// IsDueSoon reports whether a due date falls between the reference date
// and three days out, both inclusive.
func IsDueSoon(due *time.Time, ref time.Time) bool {
	if due == nil {
		return false
	}
	d, today := dateOf(*due), dateOf(ref)
	return !d.Before(today) && !d.After(today.AddDate(0, 0, dueSoonDays))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// reorderPositions moves id to newPos within the ordered id list and
// returns the resulting order. Unknown ids and out-of-range positions
// leave the order unchanged or clamp to the nearest end.
func reorderPositions(ordered []uint, id uint, newPos int) []uint {
	out := make([]uint, 0, len(ordered))
	found := false
	for _, v := range ordered {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		return ordered
	}
	if newPos < 0 {
		newPos = 0
	}
	if newPos > len(out) {
		newPos = len(out)
	}
	out = append(out, 0)
	copy(out[newPos+1:], out[newPos:])
	out[newPos] = id
	return out
}

type Service interface {
	List(ctx context.Context, tab string, ref time.Time) ([]TodoView, error)
	Create(ctx context.Context, req CreateTodoRequest, userID uint, ip, requestID string) (*Todo, error)
	Update(ctx context.Context, id uint, req UpdateTodoRequest, userID uint, ip, requestID string) (*Todo, error)
	Complete(ctx context.Context, ids []uint, userID uint, ip, requestID string) error
	Reopen(ctx context.Context, ids []uint, userID uint, ip, requestID string) error
	Delete(ctx context.Context, ids []uint, userID uint, ip, requestID string) error
	Restore(ctx context.Context, ids []uint, userID uint, ip, requestID string) error
	PermanentDelete(ctx context.Context, ids []uint, userID uint, ip, requestID string) error
	Reorder(ctx context.Context, todoID uint, newPosition int, userID uint, ip, requestID string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

// List returns the items of one tab with due flags computed against ref.
func (s *service) List(ctx context.Context, tab string, ref time.Time) ([]TodoView, error) {
	var (
		todos []Todo
		err   error
	)
	switch tab {
	case "completed":
		todos, err = s.repo.ListCompleted(ctx)
	case "deleted":
		todos, err = s.repo.ListDeleted(ctx)
	default:
		todos, err = s.repo.ListActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	views := make([]TodoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, TodoView{
			Todo:    t,
			Overdue: IsOverdue(t.DueDate, ref),
			DueSoon: IsDueSoon(t.DueDate, ref),
		})
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, req CreateTodoRequest, userID uint, ip, requestID string) (*Todo, error) {
	t := &Todo{
		Name:        req.Name,
		Description: req.Description,
		ByWho:       req.ByWho,
		Priority:    defaultPriority(req.Priority),
		CreatedBy:   userID,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logAudit(ctx, userID, "TODO_CREATED", map[string]interface{}{"todo_id": t.ID, "name": t.Name}, ip, requestID)
	return t, nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateTodoRequest, userID uint, ip, requestID string) (*Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Name = req.Name
	t.Description = req.Description
	t.ByWho = req.ByWho
	t.Priority = defaultPriority(req.Priority)
	t.DueDate = nil
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.logAudit(ctx, userID, "TODO_UPDATED", map[string]interface{}{"todo_id": t.ID, "name": t.Name}, ip, requestID)
	return t, nil
}

func (s *service) Complete(ctx context.Context, ids []uint, userID uint, ip, requestID string) error {
	if err := s.repo.SetCompleted(ctx, ids, true); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "TODO_COMPLETED", map[string]interface{}{"todo_ids": ids}, ip, requestID)
	return nil
}

func (s *service) Reopen(ctx context.Context, ids []uint, userID uint, ip, requestID string) error {
	if err := s.repo.SetCompleted(ctx, ids, false); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "TODO_REOPENED", map[string]interface{}{"todo_ids": ids}, ip, requestID)
	return nil
}

func (s *service) Delete(ctx context.Context, ids []uint, userID uint, ip, requestID string) error {
	if err := s.repo.SetDeleted(ctx, ids, true); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "TODO_DELETED", map[string]interface{}{"todo_ids": ids}, ip, requestID)
	return nil
}

func (s *service) Restore(ctx context.Context, ids []uint, userID uint, ip, requestID string) error {
	if err := s.repo.SetDeleted(ctx, ids, false); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "TODO_RESTORED", map[string]interface{}{"todo_ids": ids}, ip, requestID)
	return nil
}

func (s *service) PermanentDelete(ctx context.Context, ids []uint, userID uint, ip, requestID string) error {
	if err := s.repo.PermanentDelete(ctx, ids); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "TODO_PURGED", map[string]interface{}{"todo_ids": ids}, ip, requestID)
	return nil
}

// Reorder moves one active item to a new position and rewrites the
// position column for the whole active list.
func (s *service) Reorder(ctx context.Context, todoID uint, newPosition int, userID uint, ip, requestID string) error {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	ordered := make([]uint, 0, len(active))
	for _, t := range active {
		ordered = append(ordered, t.ID)
	}

	if err := s.repo.Reorder(ctx, reorderPositions(ordered, todoID, newPosition)); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "TODO_REORDERED", map[string]interface{}{"todo_id": todoID, "new_position": newPosition}, ip, requestID)
	return nil
}

func defaultPriority(p string) string {
	switch p {
	case "low", "medium", "high":
		return p
	}
	return "medium"
}

func (s *service) logAudit(ctx context.Context, userID uint, action string, details map[string]interface{}, ip, requestID string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, requestID, "SUCCESS")
}
