package service

import (
	"context"
	"time"

	"xtracker/internal/models"
	"xtracker/internal/notify"
	"xtracker/internal/repository"
)

// TrackingQueryService serves the read API over the reconciled store.
type TrackingQueryService struct {
	Store repository.Repository
	Hub   *notify.Hub
}

// Snapshot is the dashboard view: all trackings with the current summary.
type Snapshot struct {
	Trackings  []repository.TrackingRow `json:"trackings"`
	Summary    repository.Summary       `json:"summary"`
	LastUpdate *float64                 `json:"last_update"`
}

func (s *TrackingQueryService) GetSnapshot(ctx context.Context) (Snapshot, error) {
	if s == nil || s.Store == nil {
		return Snapshot{}, nil
	}
	rows, err := s.Store.ListTrackings(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	summary, err := s.Store.SummaryCounts(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Trackings: rows, Summary: summary}
	if s.Hub != nil {
		if last := s.Hub.LastUpdate(); last != nil {
			snap.LastUpdate = &last.LastUpdate
		}
	}
	return snap, nil
}

func (s *TrackingQueryService) GetTracking(ctx context.Context, id string) (*models.Tracking, *models.TrackingStats, error) {
	if s == nil || s.Store == nil {
		return nil, nil, nil
	}
	item, err := s.Store.GetTracking(ctx, id)
	if err != nil || item == nil {
		return nil, nil, err
	}
	stats, err := s.Store.GetStats(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return item, stats, nil
}

func (s *TrackingQueryService) GetHistory(ctx context.Context, id string) ([]models.HourlyStat, error) {
	if s == nil || s.Store == nil {
		return nil, nil
	}
	return s.Store.ListHourlyStats(ctx, id)
}

// PollResult is what a polling client gets: the current snapshot plus whether
// anything moved since the summary the client last saw.
type PollResult struct {
	Snapshot
	Changes     []notify.ChangeEvent `json:"changes"`
	DataChanged bool                 `json:"data_changed"`
	ServerTime  float64              `json:"server_time"`
}

// PollSince compares the caller's last-seen summary and last-seen row count
// against the current snapshot. The diff is deliberately coarse: counters
// only, so a cumulative move that leaves the counts intact goes unnoticed
// here. Clients that need fine-grained change detection use the websocket
// channel. A nil lastSeen means the caller has no baseline and always gets
// data_changed; a nil lastCount skips the row-count check.
func (s *TrackingQueryService) PollSince(ctx context.Context, lastSeen *repository.Summary, lastCount *int64) (PollResult, error) {
	snap, err := s.GetSnapshot(ctx)
	if err != nil {
		return PollResult{}, err
	}
	result := PollResult{
		Snapshot:   snap,
		ServerTime: float64(time.Now().UnixNano()) / float64(time.Second),
	}
	if s.Hub != nil {
		result.Changes = s.Hub.LastChanges()
	}
	if lastSeen == nil {
		result.DataChanged = true
		return result, nil
	}
	result.DataChanged = notify.SummaryChanged(*lastSeen, snap.Summary)
	if lastCount != nil && int64(len(snap.Trackings)) != *lastCount {
		result.DataChanged = true
	}
	return result, nil
}
