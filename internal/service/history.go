package service

import (
	"time"

	xtrackerapi "xtracker/internal/client/xtracker"
	"xtracker/internal/models"
)

// Dashboards render timestamps with a +08:00 wall clock.
const displayOffset = 8 * time.Hour

// BuildHourlyPoints converts a remote daily series into the hourly history
// rows for one tracking. The source timestamp is kept as-is; the display
// timestamp is the source timestamp plus the fixed display offset — a shifted
// value, not a zone relabel, so the +8 wall clock survives timestamptz
// normalization on the way through the database. Rebuilding from the same
// series yields identical rows, so the delete-and-reinsert in the store is
// idempotent.
func BuildHourlyPoints(trackingID string, daily []xtrackerapi.DailyPoint) []models.HourlyStat {
	if len(daily) == 0 {
		return nil
	}
	points := make([]models.HourlyStat, 0, len(daily))
	for _, p := range daily {
		points = append(points, models.HourlyStat{
			TrackingID:  trackingID,
			StatsDate:   p.Date.UTC(),
			DisplayDate: p.Date.UTC().Add(displayOffset),
			Count:       p.Count,
			Cumulative:  p.Cumulative,
		})
	}
	return points
}
