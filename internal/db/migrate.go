package db

import (
	"xtracker/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Tracking{},
		&models.TrackingStats{},
		&models.HourlyStat{},
		&models.SyncState{},
	)
}
