package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ApplyMode controls whether an override affects only its date or is merged
// into the permanent weekly default. "always" is only accepted for offline
// consultations.
type ApplyMode string

const (
	ApplyOnce   ApplyMode = "once"
	ApplyAlways ApplyMode = "always"
)

func (m ApplyMode) Valid() bool {
	return m == ApplyOnce || m == ApplyAlways
}

// StringList is an ordered slot list stored as jsonb.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal jsonb value:", value))
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

// AvailabilityOverride is an admin-entered exception to the recurring default
// schedule for one (date, consult_type). When Closed is true no times are
// bookable and Slots is ignored; when Slots is non-empty it replaces the
// default for that date.
type AvailabilityOverride struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Date        string      `gorm:"type:varchar(10);not null;uniqueIndex:idx_override_date_type" json:"date"`
	ConsultType ConsultType `gorm:"type:varchar(10);not null;uniqueIndex:idx_override_date_type" json:"consult_type"`
	Closed      bool        `gorm:"not null;default:false" json:"closed"`
	Slots       StringList  `gorm:"type:jsonb" json:"slots,omitempty"`
	ApplyMode   ApplyMode   `gorm:"type:varchar(10);not null;default:'once'" json:"apply_mode"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AvailabilityOverride) TableName() string {
	return "availability_overrides"
}

// Customized reports whether the override replaces the default slot list
// (as opposed to merely reverting to the default).
func (o *AvailabilityOverride) Customized() bool {
	return o.Closed || len(o.Slots) > 0
}

// DefaultSchedule is one row of the recurring weekly mapping from
// (weekday, consult_type) to an ordered slot list. Weekday follows
// time.Weekday numbering (Sunday = 0).
type DefaultSchedule struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Weekday     int         `gorm:"not null;uniqueIndex:idx_default_day_type" json:"weekday"`
	ConsultType ConsultType `gorm:"type:varchar(10);not null;uniqueIndex:idx_default_day_type" json:"consult_type"`
	Slots       StringList  `gorm:"type:jsonb;not null" json:"slots"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DefaultSchedule) TableName() string {
	return "default_schedules"
}
