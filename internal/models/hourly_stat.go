package models

import (
	"time"
)

// HourlyStat rows for a tracking are deleted and reinserted as a whole on every
// stats refresh; they are never updated individually.
type HourlyStat struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackingID  string    `gorm:"type:text;index;not null;comment:跟踪任务ID" json:"trackingId"`
	StatsDate   time.Time `gorm:"type:timestamptz;not null;comment:来源时间戳" json:"statsDate"`
	DisplayDate time.Time `gorm:"type:timestamptz;not null;comment:展示时区时间戳" json:"displayDate"`
	Count       int       `gorm:"not null;default:0;comment:该时段增量" json:"count"`
	Cumulative  int       `gorm:"not null;default:0;comment:截至该时段累计值" json:"cumulative"`
}

func (HourlyStat) TableName() string {
	return "hourly_stats"
}
