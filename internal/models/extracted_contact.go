package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// ContactInfo maps contact field names to extracted values,
// stored as a JSON column
type ContactInfo map[string]string

// Value implements driver.Valuer interface for ContactInfo
func (c ContactInfo) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface for ContactInfo
func (c *ContactInfo) Scan(value interface{}) error {
	if value == nil {
		*c = make(ContactInfo)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, c)
}

// ExtractedContact holds the contact fields extracted from one transcript.
// At most one record exists per transcript; extraction never overwrites.
type ExtractedContact struct {
	gorm.Model
	TranscriptID uint        `json:"transcript_id" gorm:"uniqueIndex;not null"`
	ContactInfo  ContactInfo `json:"contact_info" gorm:"type:json"`
}

// TableName specifies the table name for ExtractedContact
func (ExtractedContact) TableName() string {
	return "extracted_contacts"
}
