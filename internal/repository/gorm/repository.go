package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xtracker/internal/models"
	"xtracker/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- trackings --------------------------------------------------------------

func (s *Store) UpsertTracking(ctx context.Context, item *models.Tracking) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"title",
			"start_date",
			"end_date",
			"target",
			"market_link",
			"is_active",
			"metrics",
			"config",
			"user",
			"external_created_at",
			"external_updated_at",
			"last_seen_at",
			"raw_json",
		}),
	}).Create(item).Error
}

func (s *Store) GetTracking(ctx context.Context, id string) (*models.Tracking, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Tracking
	err := s.db.WithContext(ctx).Model(&models.Tracking{}).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListTrackings(ctx context.Context) ([]repository.TrackingRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var trackings []models.Tracking
	if err := s.db.WithContext(ctx).
		Model(&models.Tracking{}).
		Order("id asc").
		Find(&trackings).Error; err != nil {
		return nil, err
	}
	var stats []models.TrackingStats
	if err := s.db.WithContext(ctx).
		Model(&models.TrackingStats{}).
		Find(&stats).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.TrackingStats, len(stats))
	for _, st := range stats {
		byID[st.TrackingID] = st
	}
	rows := make([]repository.TrackingRow, 0, len(trackings))
	for _, t := range trackings {
		row := repository.TrackingRow{Tracking: t}
		if st, ok := byID[t.ID]; ok {
			cumulative := st.Cumulative
			remaining := st.DaysRemaining
			row.Cumulative = &cumulative
			row.DaysRemaining = &remaining
			row.IsComplete = st.IsComplete
		}
		rows = append(rows, row)
	}
	repository.SortTrackingRows(rows)
	return rows, nil
}

func (s *Store) ListActiveTrackingIDs(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Tracking{}).
		Where("is_active = ?", true).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *Store) SetTrackingActive(ctx context.Context, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Tracking{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "last_seen_at": time.Now().UTC()}).
		Error
}

// --- tracking stats ---------------------------------------------------------

// UpsertStats locks the existing row, carries its cumulative forward as
// previous_cumulative, and writes the replacement in the same transaction so a
// concurrent cycle cannot wipe the lag value.
func (s *Store) UpsertStats(ctx context.Context, item *models.TrackingStats) (int, int, error) {
	if s == nil || s.db == nil || item == nil {
		return 0, 0, nil
	}
	if strings.TrimSpace(item.TrackingID) == "" {
		return 0, 0, nil
	}
	previous := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.TrackingStats
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tracking_id = ?", item.TrackingID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			previous = existing.Cumulative
		}
		item.PreviousCumulative = previous
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tracking_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total",
				"cumulative",
				"previous_cumulative",
				"pace",
				"percent_complete",
				"days_elapsed",
				"days_remaining",
				"days_total",
				"is_complete",
				"daily",
				"updated_at",
			}),
		}).Create(item).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return previous, item.Cumulative, nil
}

func (s *Store) GetStats(ctx context.Context, trackingID string) (*models.TrackingStats, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, nil
	}
	var item models.TrackingStats
	err := s.db.WithContext(ctx).
		Model(&models.TrackingStats{}).
		Where("tracking_id = ?", trackingID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- hourly history ---------------------------------------------------------

func (s *Store) ReplaceHourlyStats(ctx context.Context, trackingID string, points []models.HourlyStat) error {
	if s == nil || s.db == nil {
		return nil
	}
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tracking_id = ?", trackingID).
			Delete(&models.HourlyStat{}).Error; err != nil {
			return err
		}
		if len(points) == 0 {
			return nil
		}
		for i := range points {
			points[i].ID = 0
			points[i].TrackingID = trackingID
		}
		return tx.CreateInBatches(points, 500).Error
	})
}

func (s *Store) ListHourlyStats(ctx context.Context, trackingID string) ([]models.HourlyStat, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, nil
	}
	var items []models.HourlyStat
	if err := s.db.WithContext(ctx).
		Model(&models.HourlyStat{}).
		Where("tracking_id = ?", trackingID).
		Order("stats_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- aggregates -------------------------------------------------------------

func (s *Store) SummaryCounts(ctx context.Context) (repository.Summary, error) {
	if s == nil || s.db == nil {
		return repository.Summary{}, nil
	}
	var row struct {
		Total  int64
		Active int64
	}
	err := s.db.WithContext(ctx).
		Table("trackings").
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END),0) AS active
		`).
		Scan(&row).Error
	if err != nil {
		return repository.Summary{}, err
	}
	return repository.Summary{
		Total:    row.Total,
		Active:   row.Active,
		Inactive: row.Total - row.Active,
	}, nil
}

func (s *Store) ListIncompleteTrackings(ctx context.Context) ([]models.Tracking, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Tracking
	err := s.db.WithContext(ctx).
		Table("trackings AS t").
		Select("t.*").
		Joins("LEFT JOIN tracking_stats AS st ON st.tracking_id = t.id").
		Where("st.tracking_id IS NULL OR st.is_complete = ?", false).
		Order("t.id asc").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- sync state -------------------------------------------------------------

func (s *Store) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, nil
	}
	var item models.SyncState
	err := s.db.WithContext(ctx).Model(&models.SyncState{}).Where("scope = ?", scope).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	state.Scope = strings.TrimSpace(state.Scope)
	if state.Scope == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_success_at",
			"last_attempt_at",
			"last_error",
			"stats_json",
		}),
	}).Create(state).Error
}

func (s *Store) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SyncState
	if err := s.db.WithContext(ctx).
		Model(&models.SyncState{}).
		Order("scope asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
