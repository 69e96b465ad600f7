package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Meeting represents a recorded meeting owned by a user
type Meeting struct {
	gorm.Model
	ExternalID   string        `json:"external_id" gorm:"uniqueIndex"` // recorder-assigned UUID
	UserID       uint          `json:"user_id" gorm:"not null;index"`
	Title        string        `json:"title"`
	StartedAt    time.Time     `json:"started_at"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:MeetingID"`
	Transcript   *Transcript   `json:"transcript,omitempty" gorm:"foreignKey:MeetingID"`
}

// Participant represents a person present in a meeting
type Participant struct {
	gorm.Model
	MeetingID uint   `json:"meeting_id" gorm:"not null;index"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsHost    bool   `json:"is_host" gorm:"default:false"`
}

// HostNames returns the normalized names of all host participants.
// Names are trimmed and lowercased; blanks are dropped.
func (m *Meeting) HostNames() []string {
	var names []string
	for _, p := range m.Participants {
		if !p.IsHost {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// TableName specifies the table name for Participant
func (Participant) TableName() string {
	return "participants"
}
