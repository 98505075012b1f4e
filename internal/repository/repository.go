package repository

import (
	"context"
	"sort"

	"xtracker/internal/models"
)

// Repository is the persisted-store contract consumed by the reconciliation
// engine and the read API.
type Repository interface {
	UpsertTracking(ctx context.Context, item *models.Tracking) error
	GetTracking(ctx context.Context, id string) (*models.Tracking, error)
	ListTrackings(ctx context.Context) ([]TrackingRow, error)
	ListActiveTrackingIDs(ctx context.Context) ([]string, error)
	SetTrackingActive(ctx context.Context, id string, active bool) error

	// UpsertStats replaces the stats row wholesale. The currently stored
	// cumulative (0 when no row exists yet) is captured as previous_cumulative
	// atomically with the write, and both values are returned.
	UpsertStats(ctx context.Context, item *models.TrackingStats) (previous int, current int, err error)
	GetStats(ctx context.Context, trackingID string) (*models.TrackingStats, error)

	ReplaceHourlyStats(ctx context.Context, trackingID string, points []models.HourlyStat) error
	ListHourlyStats(ctx context.Context, trackingID string) ([]models.HourlyStat, error)

	SummaryCounts(ctx context.Context) (Summary, error)
	ListIncompleteTrackings(ctx context.Context) ([]models.Tracking, error)

	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncState(ctx context.Context, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
}

type Summary struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// TrackingRow is a tracking joined with the stats fields the dashboard list
// needs.
type TrackingRow struct {
	models.Tracking
	Cumulative    *int `json:"cumulative"`
	DaysRemaining *int `json:"daysRemaining"`
	IsComplete    bool `json:"isComplete"`
}

// SortTrackingRows orders active trackings first, active ones by ascending
// days remaining; inactive rows and rows without stats sink to the bottom.
func SortTrackingRows(rows []TrackingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].IsActive != rows[j].IsActive {
			return rows[i].IsActive
		}
		return sortKey(rows[i]) < sortKey(rows[j])
	})
}

func sortKey(row TrackingRow) int {
	if !row.IsActive || row.DaysRemaining == nil {
		return 99999
	}
	return *row.DaysRemaining
}
