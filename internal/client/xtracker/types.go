package xtrackerapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type RemoteUser struct {
	Handle    string           `json:"handle"`
	Trackings []RemoteTracking `json:"trackings"`
}

type RemoteTracking struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"userId"`
	Title      string          `json:"title"`
	StartDate  *string         `json:"startDate"`
	EndDate    *string         `json:"endDate"`
	Target     *FlexString     `json:"target"`
	MarketLink *string         `json:"marketLink"`
	IsActive   bool            `json:"isActive"`
	Metrics    json.RawMessage `json:"metrics"`
	Config     json.RawMessage `json:"config"`
	CreatedAt  *string         `json:"createdAt"`
	UpdatedAt  *string         `json:"updatedAt"`
	User       json.RawMessage `json:"user"`
	Stats      *RemoteStats    `json:"stats,omitempty"`
}

type RemoteStats struct {
	Total           int             `json:"total"`
	Cumulative      int             `json:"cumulative"`
	Pace            decimal.Decimal `json:"pace"`
	PercentComplete decimal.Decimal `json:"percentComplete"`
	DaysElapsed     int             `json:"daysElapsed"`
	DaysRemaining   int             `json:"daysRemaining"`
	DaysTotal       int             `json:"daysTotal"`
	IsComplete      bool            `json:"isComplete"`
	Daily           []DailyPoint    `json:"daily"`
}

type DailyPoint struct {
	Date       time.Time `json:"date"`
	Count      int       `json:"count"`
	Cumulative int       `json:"cumulative"`
}

// FlexString accepts either a JSON string or a bare number; the remote source
// reports `target` as both depending on campaign type.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(string(data))
	return nil
}

func (s FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}
