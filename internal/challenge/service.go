package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/martlaane/organizer-backend/internal/auditlog"
)

const timestampLayout = "2006-01-02 15:04:05"

type Service interface {
	List(ctx context.Context) ([]Challenge, error)
	Get(ctx context.Context, id uint) (*Challenge, error)
	Create(ctx context.Context, req ChallengeRequest, userID uint, ip, requestID string) (*Challenge, error)
	Update(ctx context.Context, id uint, req ChallengeRequest, userID uint, ip, requestID string) (*Challenge, error)
	Delete(ctx context.Context, id uint, userID uint, ip, requestID string) error
	PermanentDelete(ctx context.Context, id uint, userID uint, ip, requestID string) error
	RefreshCompleted(ctx context.Context, now time.Time) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

func (s *service) List(ctx context.Context) ([]Challenge, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uint) (*Challenge, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req ChallengeRequest, userID uint, ip, requestID string) (*Challenge, error) {
	start, end, err := parseWindow(req)
	if err != nil {
		return nil, err
	}

	ch := &Challenge{
		Name:         req.Name,
		Description:  req.Description,
		StartTime:    start,
		EndTime:      end,
		Participants: req.Participants,
		CreatedBy:    userID,
	}
	if err := s.repo.Create(ctx, ch); err != nil {
		return nil, err
	}
	s.logAudit(ctx, userID, "CHALLENGE_CREATED", map[string]interface{}{"challenge_id": ch.ID, "name": ch.Name}, ip, requestID)
	return ch, nil
}

func (s *service) Update(ctx context.Context, id uint, req ChallengeRequest, userID uint, ip, requestID string) (*Challenge, error) {
	start, end, err := parseWindow(req)
	if err != nil {
		return nil, err
	}

	ch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ch.Name = req.Name
	ch.Description = req.Description
	ch.StartTime = start
	ch.EndTime = end
	ch.Participants = req.Participants

	if err := s.repo.Update(ctx, ch); err != nil {
		return nil, err
	}
	s.logAudit(ctx, userID, "CHALLENGE_UPDATED", map[string]interface{}{"challenge_id": ch.ID, "name": ch.Name}, ip, requestID)
	return ch, nil
}

func (s *service) Delete(ctx context.Context, id uint, userID uint, ip, requestID string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "CHALLENGE_DELETED", map[string]interface{}{"challenge_id": id}, ip, requestID)
	return nil
}

func (s *service) PermanentDelete(ctx context.Context, id uint, userID uint, ip, requestID string) error {
	if err := s.repo.PermanentDelete(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, userID, "CHALLENGE_PURGED", map[string]interface{}{"challenge_id": id}, ip, requestID)
	return nil
}

// RefreshCompleted brings every challenge's completed flag in line with
// the given clock reading.
func (s *service) RefreshCompleted(ctx context.Context, now time.Time) error {
	return s.repo.RefreshCompleted(ctx, now)
}

func parseWindow(req ChallengeRequest) (time.Time, time.Time, error) {
	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_time: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_time precedes start_time")
	}
	return start, end, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *service) logAudit(ctx context.Context, userID uint, action string, details map[string]interface{}, ip, requestID string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, requestID, "SUCCESS")
}
