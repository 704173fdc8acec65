package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDosagePattern = errors.New("dosage pattern must be exactly three binary digits")

// NormalizeDosagePattern accepts a pattern in either storage form ("101") or
// display form ("1-0-1") and returns the canonical 3-character storage form.
func NormalizeDosagePattern(s string) (string, error) {
	compact := strings.ReplaceAll(s, "-", "")
	if len(compact) != 3 {
		return "", ErrInvalidDosagePattern
	}
	for _, c := range compact {
		if c != '0' && c != '1' {
			return "", ErrInvalidDosagePattern
		}
	}
	return compact, nil
}

// FormatDosagePattern renders the storage form for display: "101" -> "1-0-1".
func FormatDosagePattern(pattern string) string {
	if len(pattern) != 3 {
		return pattern
	}
	return pattern[0:1] + "-" + pattern[1:2] + "-" + pattern[2:3]
}

// PrescriptionItem is one line of a prescription. Pattern is the 3-digit
// morning/afternoon/night dosage encoding, stored compact ("101").
type PrescriptionItem struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PrescriptionID uint   `gorm:"not null;index" json:"prescription_id"`
	Position       int    `gorm:"not null" json:"position"`
	Medicine       string `gorm:"type:varchar(255);not null" json:"medicine"`
	Days           int    `gorm:"not null" json:"days"`
	Pattern        string `gorm:"type:char(3);not null" json:"pattern"`
	Notes          string `gorm:"type:text" json:"notes,omitempty"`
}

func (PrescriptionItem) TableName() string {
	return "prescription_items"
}

// Prescription is a structured prescription keyed by patient phone number.
// Sent distinguishes drafts from patient-visible prescriptions: the
// patient-facing lookup only ever returns Sent=true rows.
type Prescription struct {
	ID            uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicName    string             `gorm:"type:varchar(255);not null" json:"clinic_name"`
	DoctorName    string             `gorm:"type:varchar(255);not null" json:"doctor_name"`
	PatientName   string             `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientAge    int                `gorm:"not null" json:"patient_age"`
	PatientGender string             `gorm:"type:varchar(10);not null" json:"patient_gender"`
	PatientPhone  string             `gorm:"type:varchar(10);not null;index" json:"patient_phone"`
	Sent          bool               `gorm:"not null;default:false;index" json:"sent"`
	Items         []PrescriptionItem `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
