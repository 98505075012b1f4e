package service

import (
	"context"
	"errors"
	"testing"
	"time"

	xtrackerapi "xtracker/internal/client/xtracker"
)

type stubFetcher struct {
	user       *xtrackerapi.RemoteUser
	userErr    error
	details    map[string]*xtrackerapi.RemoteTracking
	detailErr  map[string]error
	detailHits map[string]int
}

func (f *stubFetcher) GetUser(_ context.Context, _ string) (*xtrackerapi.RemoteUser, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *stubFetcher) GetTracking(_ context.Context, id string, _ bool) (*xtrackerapi.RemoteTracking, error) {
	if f.detailHits == nil {
		f.detailHits = map[string]int{}
	}
	f.detailHits[id]++
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	detail, ok := f.details[id]
	if !ok {
		return nil, errors.New("no such tracking")
	}
	return detail, nil
}

func remoteTracking(id string, active bool, cumulative int, complete bool) *xtrackerapi.RemoteTracking {
	return &xtrackerapi.RemoteTracking{
		ID:       id,
		Title:    "Tracking " + id,
		IsActive: active,
		Stats: &xtrackerapi.RemoteStats{
			Total:      1000,
			Cumulative: cumulative,
			IsComplete: complete,
			Daily: []xtrackerapi.DailyPoint{
				{Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Count: cumulative, Cumulative: cumulative},
			},
		},
	}
}

func newTestReconciler(repo *stubRepo, fetcher *stubFetcher) *ReconcileService {
	return &ReconcileService{
		Store:      repo,
		Fetcher:    fetcher,
		UserHandle: "someone",
	}
}

func TestRunOnce_FirstCycleSeedsPreviousToZero(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 50, false),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 50, false),
		},
	}
	svc := newTestReconciler(repo, fetcher)

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("changes=%d want 1", len(result.Changes))
	}
	ev := result.Changes[0]
	if ev.PreviousCumulative != 0 || ev.CurrentCumulative != 50 || ev.Change != 50 {
		t.Fatalf("event=%+v", ev)
	}
	st := repo.stats["t1"]
	if st.PreviousCumulative != 0 || st.Cumulative != 50 {
		t.Fatalf("stats prev=%d cur=%d", st.PreviousCumulative, st.Cumulative)
	}
	if !result.DataChanged {
		t.Fatalf("expected data_changed")
	}
	if len(repo.hourly["t1"]) != 1 {
		t.Fatalf("hourly=%d want 1", len(repo.hourly["t1"]))
	}
}

func TestRunOnce_IdenticalCycleEmitsNothing(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 50, false),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 50, false),
		},
	}
	svc := newTestReconciler(repo, fetcher)

	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("first cycle err=%v", err)
	}
	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second cycle err=%v", err)
	}
	if len(result.Changes) != 0 {
		t.Fatalf("changes=%d want 0", len(result.Changes))
	}
	if result.DataChanged {
		t.Fatalf("unexpected data_changed")
	}
	st := repo.stats["t1"]
	if st.PreviousCumulative != 50 || st.Cumulative != 50 {
		t.Fatalf("stats prev=%d cur=%d", st.PreviousCumulative, st.Cumulative)
	}
}

func TestRunOnce_NewInactiveTrackingIsNotAnUpdate(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 50, false),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 50, false),
		},
	}
	svc := newTestReconciler(repo, fetcher)
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("seed cycle err=%v", err)
	}

	// A second tracking appears already inactive: summary counters move, but
	// no cumulative changed and nothing was swept.
	fetcher.user = &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
		*remoteTracking("t1", true, 50, false),
		*remoteTracking("t2", false, 0, false),
	}}

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(result.Changes) != 0 || result.Deactivated != 0 {
		t.Fatalf("changes=%d deactivated=%d", len(result.Changes), result.Deactivated)
	}
	if result.DataChanged {
		t.Fatalf("unexpected data_changed")
	}
	if _, ok := repo.trackings["t2"]; !ok {
		t.Fatalf("t2 base row not stored")
	}
}

func TestRunOnce_OrphanedActiveGetsFinalFetchThenDeactivated(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 100, false),
			*remoteTracking("t2", true, 100, false),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 100, false),
			"t2": remoteTracking("t2", true, 100, false),
		},
	}
	svc := newTestReconciler(repo, fetcher)
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("seed cycle err=%v", err)
	}

	// Remote drops t2 from the list; its final detail reports 110.
	fetcher.user = &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
		*remoteTracking("t1", true, 100, false),
	}}
	fetcher.details["t2"] = remoteTracking("t2", true, 110, false)

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Deactivated != 1 {
		t.Fatalf("deactivated=%d want 1", result.Deactivated)
	}
	if repo.trackings["t2"].IsActive {
		t.Fatalf("t2 still active")
	}
	if len(result.Changes) != 1 {
		t.Fatalf("changes=%d want 1", len(result.Changes))
	}
	ev := result.Changes[0]
	if ev.TrackingID != "t2" || ev.PreviousCumulative != 100 || ev.CurrentCumulative != 110 || ev.Change != 10 {
		t.Fatalf("event=%+v", ev)
	}
}

func TestRunOnce_OrphanDeactivatedEvenWhenFinalFetchFails(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 10, false),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 10, false),
		},
	}
	svc := newTestReconciler(repo, fetcher)
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("seed cycle err=%v", err)
	}

	fetcher.user = &xtrackerapi.RemoteUser{}
	fetcher.detailErr = map[string]error{"t1": errors.New("boom")}

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Deactivated != 1 {
		t.Fatalf("deactivated=%d want 1", result.Deactivated)
	}
	if repo.trackings["t1"].IsActive {
		t.Fatalf("t1 still active after failed final fetch")
	}
}

func TestRunOnce_CompleteForcesInactive(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 1000, true),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 1000, true),
		},
	}
	svc := newTestReconciler(repo, fetcher)

	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if repo.trackings["t1"].IsActive {
		t.Fatalf("completed tracking kept active")
	}
	if !repo.stats["t1"].IsComplete {
		t.Fatalf("stats not marked complete")
	}
}

func TestRunOnce_NegativeChangeIsAnEvent(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{
		user: &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
			*remoteTracking("t1", true, 50, false),
		}},
		details: map[string]*xtrackerapi.RemoteTracking{
			"t1": remoteTracking("t1", true, 50, false),
		},
	}
	svc := newTestReconciler(repo, fetcher)
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("seed cycle err=%v", err)
	}

	// Remote correction: cumulative drops to 40.
	fetcher.user = &xtrackerapi.RemoteUser{Trackings: []xtrackerapi.RemoteTracking{
		*remoteTracking("t1", true, 40, false),
	}}
	fetcher.details["t1"] = remoteTracking("t1", true, 40, false)

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("changes=%d want 1", len(result.Changes))
	}
	if result.Changes[0].Change != -10 {
		t.Fatalf("change=%d want -10", result.Changes[0].Change)
	}
}

func TestRunOnce_UserFetchFailureAbortsAndRecordsError(t *testing.T) {
	repo := newStubRepo()
	fetcher := &stubFetcher{userErr: errors.New("remote down")}
	svc := newTestReconciler(repo, fetcher)

	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	state := repo.syncStates["reconcile"]
	if state.LastError == nil || *state.LastError != "remote down" {
		t.Fatalf("state=%+v", state)
	}
	if state.LastSuccessAt != nil {
		t.Fatalf("unexpected success timestamp")
	}
}

func TestRunOnce_RefusesOverlap(t *testing.T) {
	svc := newTestReconciler(newStubRepo(), &stubFetcher{user: &xtrackerapi.RemoteUser{}})
	svc.runMu.Lock()
	defer svc.runMu.Unlock()

	_, err := svc.RunOnce(context.Background())
	if !errors.Is(err, ErrCycleInProgress) {
		t.Fatalf("err=%v want ErrCycleInProgress", err)
	}
}

func TestParseTimePtr(t *testing.T) {
	rfc := "2026-08-01T12:30:00Z"
	if got := parseTimePtr(&rfc); got == nil || got.Hour() != 12 {
		t.Fatalf("got=%v", got)
	}
	dateOnly := "2026-08-01"
	if got := parseTimePtr(&dateOnly); got == nil || got.Day() != 1 {
		t.Fatalf("got=%v", got)
	}
	junk := "not a time"
	if got := parseTimePtr(&junk); got != nil {
		t.Fatalf("got=%v want nil", got)
	}
	if got := parseTimePtr(nil); got != nil {
		t.Fatalf("got=%v want nil", got)
	}
}
