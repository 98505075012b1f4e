package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	xtrackerapi "xtracker/internal/client/xtracker"
	"xtracker/internal/models"
	"xtracker/internal/notify"
	"xtracker/internal/repository"
)

// ErrCycleInProgress is returned when a reconcile cycle is requested while a
// previous one is still running. Cycles never overlap.
var ErrCycleInProgress = errors.New("reconcile cycle already in progress")

// Fetcher is the remote-source surface the reconciler needs.
type Fetcher interface {
	GetUser(ctx context.Context, handle string) (*xtrackerapi.RemoteUser, error)
	GetTracking(ctx context.Context, trackingID string, includeStats bool) (*xtrackerapi.RemoteTracking, error)
}

type ReconcileService struct {
	Store      repository.Repository
	Fetcher    Fetcher
	Hub        *notify.Hub
	Logger     *zap.Logger
	UserHandle string

	runMu sync.Mutex
}

// CycleResult summarizes one reconcile cycle.
type CycleResult struct {
	Trackings     int                  `json:"trackings"`
	ActiveUpdated int                  `json:"active_updated"`
	Deactivated   int                  `json:"deactivated"`
	DetailErrors  int                  `json:"detail_errors"`
	Changes       []notify.ChangeEvent `json:"changes"`
	DataChanged   bool                 `json:"data_changed"`
}

// RunOnce performs a single reconcile cycle: pull the user's tracking list,
// refresh detail and stats for every remotely-active tracking, then sweep
// locally-active trackings the remote list no longer reports as active.
func (s *ReconcileService) RunOnce(ctx context.Context) (CycleResult, error) {
	if s == nil || s.Store == nil || s.Fetcher == nil {
		return CycleResult{}, nil
	}
	if !s.runMu.TryLock() {
		return CycleResult{}, ErrCycleInProgress
	}
	defer s.runMu.Unlock()

	now := time.Now().UTC()
	user, err := s.Fetcher.GetUser(ctx, s.UserHandle)
	if err != nil {
		s.writeSyncError(ctx, now, err)
		return CycleResult{}, err
	}

	result := CycleResult{Trackings: len(user.Trackings)}

	// Pass 1: upsert base rows from the list payload and collect the remote
	// view of which IDs exist and which are active. A single failed upsert is
	// skipped, not fatal.
	apiIDs := make(map[string]struct{}, len(user.Trackings))
	apiActiveIDs := make(map[string]struct{}, len(user.Trackings))
	for i := range user.Trackings {
		remote := &user.Trackings[i]
		if strings.TrimSpace(remote.ID) == "" {
			continue
		}
		apiIDs[remote.ID] = struct{}{}
		if remote.IsActive {
			apiActiveIDs[remote.ID] = struct{}{}
		}
		if err := s.Store.UpsertTracking(ctx, trackingFromRemote(remote, now)); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("base upsert failed",
					zap.String("tracking_id", remote.ID),
					zap.Error(err))
			}
			continue
		}
	}

	// Pass 2: full detail plus stats for every remotely-active tracking.
	var changes []notify.ChangeEvent
	for i := range user.Trackings {
		remote := &user.Trackings[i]
		if strings.TrimSpace(remote.ID) == "" {
			continue
		}
		if _, ok := apiActiveIDs[remote.ID]; !ok {
			continue
		}
		event, err := s.refreshDetail(ctx, remote.ID, now)
		if err != nil {
			result.DetailErrors++
			if s.Logger != nil {
				s.Logger.Warn("detail refresh failed",
					zap.String("tracking_id", remote.ID),
					zap.Error(err))
			}
			continue
		}
		result.ActiveUpdated++
		if event != nil {
			changes = append(changes, *event)
		}
	}

	// Pass 3: locally-active trackings the remote list no longer reports at
	// all get one final detail fetch, then are deactivated no matter what.
	// Remotely-inactive trackings were already flipped by the base upsert.
	localActive, err := s.Store.ListActiveTrackingIDs(ctx)
	if err != nil {
		s.writeSyncError(ctx, now, err)
		return result, err
	}
	for _, id := range localActive {
		if _, ok := apiIDs[id]; ok {
			continue
		}
		event, err := s.refreshDetail(ctx, id, now)
		if err != nil && s.Logger != nil {
			s.Logger.Warn("final fetch for deactivated tracking failed",
				zap.String("tracking_id", id),
				zap.Error(err))
		}
		if err := s.Store.SetTrackingActive(ctx, id, false); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("deactivate failed",
					zap.String("tracking_id", id),
					zap.Error(err))
			}
			continue
		}
		result.Deactivated++
		if event != nil {
			changes = append(changes, *event)
		}
	}

	curSummary, err := s.Store.SummaryCounts(ctx)
	if err != nil {
		return result, err
	}
	result.Changes = changes
	// A cycle has updates only when a cumulative moved or a tracking was
	// swept inactive. New rows that arrive already inactive are not news.
	result.DataChanged = len(changes) > 0 || result.Deactivated > 0

	s.writeSyncSuccess(ctx, now, result)

	if result.DataChanged && s.Hub != nil {
		rows, err := s.Store.ListTrackings(ctx)
		if err != nil {
			return result, err
		}
		s.Hub.BroadcastUpdate(notify.UpdatePayload{
			Trackings:   rows,
			Summary:     curSummary,
			LastUpdate:  float64(now.UnixNano()) / float64(time.Second),
			Changes:     changes,
			DataChanged: true,
		})
	}

	if s.Logger != nil {
		s.Logger.Info("reconcile cycle done",
			zap.Int("trackings", result.Trackings),
			zap.Int("active_updated", result.ActiveUpdated),
			zap.Int("deactivated", result.Deactivated),
			zap.Int("detail_errors", result.DetailErrors),
			zap.Int("changes", len(changes)),
			zap.Bool("data_changed", result.DataChanged))
	}
	return result, nil
}

// refreshDetail pulls one tracking with stats, replaces the base row, the
// stats row, and the hourly history, and reports a change event when the
// cumulative moved.
func (s *ReconcileService) refreshDetail(ctx context.Context, trackingID string, now time.Time) (*notify.ChangeEvent, error) {
	detail, err := s.Fetcher.GetTracking(ctx, trackingID, true)
	if err != nil {
		return nil, err
	}
	item := trackingFromRemote(detail, now)
	if detail.Stats != nil && detail.Stats.IsComplete {
		// A completed tracking can never stay active.
		item.IsActive = false
	}
	if err := s.Store.UpsertTracking(ctx, item); err != nil {
		return nil, err
	}
	if detail.Stats == nil {
		return nil, nil
	}
	prev, cur, err := s.Store.UpsertStats(ctx, statsFromRemote(trackingID, detail.Stats))
	if err != nil {
		return nil, err
	}
	if err := s.Store.ReplaceHourlyStats(ctx, trackingID, BuildHourlyPoints(trackingID, detail.Stats.Daily)); err != nil {
		return nil, err
	}
	if prev == cur {
		return nil, nil
	}
	return &notify.ChangeEvent{
		TrackingID:         trackingID,
		Title:              item.Title,
		PreviousCumulative: prev,
		CurrentCumulative:  cur,
		Change:             cur - prev,
	}, nil
}

func (s *ReconcileService) writeSyncSuccess(ctx context.Context, now time.Time, result CycleResult) {
	stats := map[string]int{
		"trackings":      result.Trackings,
		"active_updated": result.ActiveUpdated,
		"deactivated":    result.Deactivated,
		"detail_errors":  result.DetailErrors,
		"changes":        len(result.Changes),
	}
	state := &models.SyncState{
		Scope:         "reconcile",
		LastAttemptAt: &now,
		LastSuccessAt: &now,
		LastError:     nil,
		StatsJSON:     statsJSON(stats),
	}
	if err := s.Store.SaveSyncState(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to save sync state", zap.Error(err))
	}
}

func (s *ReconcileService) writeSyncError(ctx context.Context, now time.Time, cause error) {
	msg := cause.Error()
	state := &models.SyncState{
		Scope:         "reconcile",
		LastAttemptAt: &now,
		LastError:     &msg,
	}
	if prev, err := s.Store.GetSyncState(ctx, "reconcile"); err == nil && prev != nil {
		state.LastSuccessAt = prev.LastSuccessAt
		state.StatsJSON = prev.StatsJSON
	}
	if err := s.Store.SaveSyncState(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to save sync state", zap.Error(err))
	}
}

// --- remote → model converters ----------------------------------------------

func trackingFromRemote(remote *xtrackerapi.RemoteTracking, now time.Time) *models.Tracking {
	item := &models.Tracking{
		ID:                remote.ID,
		UserID:            remote.UserID,
		Title:             remote.Title,
		StartDate:         parseTimePtr(remote.StartDate),
		EndDate:           parseTimePtr(remote.EndDate),
		MarketLink:        remote.MarketLink,
		IsActive:          remote.IsActive,
		Metrics:           rawJSON(remote.Metrics),
		Config:            rawJSON(remote.Config),
		User:              rawJSON(remote.User),
		ExternalCreatedAt: parseTimePtr(remote.CreatedAt),
		ExternalUpdatedAt: parseTimePtr(remote.UpdatedAt),
		LastSeenAt:        now,
	}
	if remote.Target != nil {
		target := string(*remote.Target)
		item.Target = &target
	}
	item.RawJSON = mustJSON(remote)
	return item
}

func statsFromRemote(trackingID string, stats *xtrackerapi.RemoteStats) *models.TrackingStats {
	return &models.TrackingStats{
		TrackingID:      trackingID,
		Total:           stats.Total,
		Cumulative:      stats.Cumulative,
		Pace:            stats.Pace,
		PercentComplete: stats.PercentComplete,
		DaysElapsed:     stats.DaysElapsed,
		DaysRemaining:   stats.DaysRemaining,
		DaysTotal:       stats.DaysTotal,
		IsComplete:      stats.IsComplete,
		Daily:           mustJSON(stats.Daily),
	}
}

// parseTimePtr accepts RFC3339 timestamps and bare dates; anything else maps
// to nil rather than failing the cycle.
func parseTimePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

func rawJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}

func mustJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(payload)
}

func statsJSON(stats map[string]int) datatypes.JSON {
	if len(stats) == 0 {
		return datatypes.JSON([]byte("null"))
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}
