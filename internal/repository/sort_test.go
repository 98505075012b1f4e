package repository

import (
	"testing"

	"xtracker/internal/models"
)

func intPtr(v int) *int { return &v }

func TestSortTrackingRows(t *testing.T) {
	rows := []TrackingRow{
		{Tracking: models.Tracking{ID: "inactive", IsActive: false}, DaysRemaining: intPtr(1)},
		{Tracking: models.Tracking{ID: "far", IsActive: true}, DaysRemaining: intPtr(30)},
		{Tracking: models.Tracking{ID: "nostats", IsActive: true}},
		{Tracking: models.Tracking{ID: "near", IsActive: true}, DaysRemaining: intPtr(3)},
	}
	SortTrackingRows(rows)

	want := []string{"near", "far", "nostats", "inactive"}
	for i, id := range want {
		if rows[i].ID != id {
			t.Fatalf("pos %d: got %q want %q (rows=%v)", i, rows[i].ID, id, ids(rows))
		}
	}
}

func TestSortTrackingRows_StableForTies(t *testing.T) {
	rows := []TrackingRow{
		{Tracking: models.Tracking{ID: "a", IsActive: true}, DaysRemaining: intPtr(5)},
		{Tracking: models.Tracking{ID: "b", IsActive: true}, DaysRemaining: intPtr(5)},
	}
	SortTrackingRows(rows)
	if rows[0].ID != "a" || rows[1].ID != "b" {
		t.Fatalf("tie order changed: %v", ids(rows))
	}
}

func ids(rows []TrackingRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
