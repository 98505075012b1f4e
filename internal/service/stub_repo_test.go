package service

import (
	"context"
	"sort"

	"xtracker/internal/models"
	"xtracker/internal/repository"
)

// stubRepo is an in-memory repository.Repository for cycle tests.
type stubRepo struct {
	trackings  map[string]models.Tracking
	stats      map[string]models.TrackingStats
	hourly     map[string][]models.HourlyStat
	syncStates map[string]models.SyncState
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		trackings:  map[string]models.Tracking{},
		stats:      map[string]models.TrackingStats{},
		hourly:     map[string][]models.HourlyStat{},
		syncStates: map[string]models.SyncState{},
	}
}

func (r *stubRepo) UpsertTracking(_ context.Context, item *models.Tracking) error {
	r.trackings[item.ID] = *item
	return nil
}

func (r *stubRepo) GetTracking(_ context.Context, id string) (*models.Tracking, error) {
	item, ok := r.trackings[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *stubRepo) ListTrackings(_ context.Context) ([]repository.TrackingRow, error) {
	rows := make([]repository.TrackingRow, 0, len(r.trackings))
	for _, t := range r.trackings {
		row := repository.TrackingRow{Tracking: t}
		if st, ok := r.stats[t.ID]; ok {
			cumulative := st.Cumulative
			remaining := st.DaysRemaining
			row.Cumulative = &cumulative
			row.DaysRemaining = &remaining
			row.IsComplete = st.IsComplete
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	repository.SortTrackingRows(rows)
	return rows, nil
}

func (r *stubRepo) ListActiveTrackingIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id, t := range r.trackings {
		if t.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *stubRepo) SetTrackingActive(_ context.Context, id string, active bool) error {
	item, ok := r.trackings[id]
	if !ok {
		return nil
	}
	item.IsActive = active
	r.trackings[id] = item
	return nil
}

func (r *stubRepo) UpsertStats(_ context.Context, item *models.TrackingStats) (int, int, error) {
	previous := 0
	if existing, ok := r.stats[item.TrackingID]; ok {
		previous = existing.Cumulative
	}
	item.PreviousCumulative = previous
	r.stats[item.TrackingID] = *item
	return previous, item.Cumulative, nil
}

func (r *stubRepo) GetStats(_ context.Context, trackingID string) (*models.TrackingStats, error) {
	st, ok := r.stats[trackingID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *stubRepo) ReplaceHourlyStats(_ context.Context, trackingID string, points []models.HourlyStat) error {
	r.hourly[trackingID] = append([]models.HourlyStat(nil), points...)
	return nil
}

func (r *stubRepo) ListHourlyStats(_ context.Context, trackingID string) ([]models.HourlyStat, error) {
	return r.hourly[trackingID], nil
}

func (r *stubRepo) SummaryCounts(_ context.Context) (repository.Summary, error) {
	var summary repository.Summary
	for _, t := range r.trackings {
		summary.Total++
		if t.IsActive {
			summary.Active++
		} else {
			summary.Inactive++
		}
	}
	return summary, nil
}

func (r *stubRepo) ListIncompleteTrackings(_ context.Context) ([]models.Tracking, error) {
	var items []models.Tracking
	for _, t := range r.trackings {
		st, ok := r.stats[t.ID]
		if !ok || !st.IsComplete {
			items = append(items, t)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *stubRepo) GetSyncState(_ context.Context, scope string) (*models.SyncState, error) {
	st, ok := r.syncStates[scope]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *stubRepo) SaveSyncState(_ context.Context, state *models.SyncState) error {
	r.syncStates[state.Scope] = *state
	return nil
}

func (r *stubRepo) ListSyncStates(_ context.Context) ([]models.SyncState, error) {
	var items []models.SyncState
	for _, st := range r.syncStates {
		items = append(items, st)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Scope < items[j].Scope })
	return items, nil
}
