package models

import (
	"time"

	"gorm.io/datatypes"
)

type Tracking struct {
	ID                string         `gorm:"primaryKey;type:text;comment:跟踪任务唯一标识" json:"id"`
	UserID            *string        `gorm:"type:text;index;comment:所属用户ID" json:"userId"`
	Title             string         `gorm:"type:text;not null;comment:任务标题" json:"title"`
	StartDate         *time.Time     `gorm:"type:timestamptz;comment:开始时间" json:"startDate"`
	EndDate           *time.Time     `gorm:"type:timestamptz;comment:结束时间" json:"endDate"`
	Target            *string        `gorm:"type:text;comment:目标描述或数值" json:"target"`
	MarketLink        *string        `gorm:"type:text;comment:关联市场链接" json:"marketLink"`
	IsActive          bool           `gorm:"not null;default:false;index;comment:是否活跃" json:"isActive"`
	Metrics           datatypes.JSON `gorm:"type:jsonb;comment:指标原始JSON" json:"metrics"`
	Config            datatypes.JSON `gorm:"type:jsonb;comment:配置原始JSON" json:"config"`
	User              datatypes.JSON `gorm:"type:jsonb;comment:用户资料原始JSON" json:"user,omitempty"`
	ExternalCreatedAt *time.Time     `gorm:"type:timestamptz;comment:远端创建时间" json:"createdAt"`
	ExternalUpdatedAt *time.Time     `gorm:"type:timestamptz;comment:远端更新时间" json:"updatedAt"`
	LastSeenAt        time.Time      `gorm:"type:timestamptz;not null;comment:最近同步时间" json:"lastSeenAt"`
	RawJSON           datatypes.JSON `gorm:"type:jsonb;comment:原始数据" json:"-"`
}

func (Tracking) TableName() string {
	return "trackings"
}
