package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"xtracker/internal/repository"
)

// IncompleteSweepService periodically inspects trackings that have not
// reached their target yet and logs the ones that look stalled. It never
// mutates rows; deactivation is the reconciler's job.
type IncompleteSweepService struct {
	Store  repository.Repository
	Logger *zap.Logger
}

func (s *IncompleteSweepService) SweepOnce(ctx context.Context) error {
	if s == nil || s.Store == nil {
		return nil
	}
	items, err := s.Store.ListIncompleteTrackings(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	stalled := 0
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		if item.EndDate != nil && item.EndDate.Before(now) {
			stalled++
			if s.Logger != nil {
				s.Logger.Warn("tracking past end date without completing",
					zap.String("tracking_id", item.ID),
					zap.String("title", item.Title),
					zap.Timep("end_date", item.EndDate))
			}
		}
	}
	if s.Logger != nil {
		s.Logger.Debug("incomplete sweep done",
			zap.Int("incomplete", len(items)),
			zap.Int("stalled", stalled))
	}
	return nil
}
