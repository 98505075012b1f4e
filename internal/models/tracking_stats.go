package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TrackingStats is replaced wholesale on every refresh; PreviousCumulative is a
// one-step lag of Cumulative, seeded to 0 on first insert.
type TrackingStats struct {
	TrackingID         string          `gorm:"primaryKey;type:text;comment:跟踪任务ID" json:"trackingId"`
	Total              int             `gorm:"not null;default:0;comment:目标总数" json:"total"`
	Cumulative         int             `gorm:"not null;default:0;comment:当前累计值" json:"cumulative"`
	PreviousCumulative int             `gorm:"not null;default:0;comment:上一轮累计值" json:"previousCumulative"`
	Pace               decimal.Decimal `gorm:"type:numeric(20,6);comment:进度速率" json:"pace"`
	PercentComplete    decimal.Decimal `gorm:"type:numeric(20,6);comment:完成百分比" json:"percentComplete"`
	DaysElapsed        int             `gorm:"not null;default:0;comment:已过天数" json:"daysElapsed"`
	DaysRemaining      int             `gorm:"not null;default:0;comment:剩余天数" json:"daysRemaining"`
	DaysTotal          int             `gorm:"not null;default:0;comment:总天数" json:"daysTotal"`
	IsComplete         bool            `gorm:"not null;default:false;comment:是否完成" json:"isComplete"`
	Daily              datatypes.JSON  `gorm:"type:jsonb;comment:原始daily序列" json:"daily"`
	UpdatedAt          time.Time       `gorm:"type:timestamptz;autoUpdateTime;comment:本地更新时间" json:"-"`
}

func (TrackingStats) TableName() string {
	return "tracking_stats"
}
