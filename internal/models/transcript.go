package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Word is a single transcribed word within a segment
type Word struct {
	Text string `json:"text"`
}

// Segment is one speaker turn with its word list
type Segment struct {
	Speaker string `json:"speaker"`
	Words   []Word `json:"words"`
}

// SegmentList stores transcript segments as a JSON column
type SegmentList []Segment

// Value implements driver.Valuer interface for SegmentList
func (s SegmentList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for SegmentList
func (s *SegmentList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// Transcript is the diarized transcript of a meeting. Immutable once stored.
type Transcript struct {
	gorm.Model
	MeetingID uint        `json:"meeting_id" gorm:"uniqueIndex;not null"`
	Segments  SegmentList `json:"segments" gorm:"type:json"`
	Language  string      `json:"language"`
}

// PlainText renders the transcript as "speaker: words" lines, one per
// segment. Segments with no words are skipped. An empty string means
// there is nothing worth extracting from.
func (t *Transcript) PlainText() string {
	var lines []string
	for _, seg := range t.Segments {
		var words []string
		for _, w := range seg.Words {
			if w.Text != "" {
				words = append(words, w.Text)
			}
		}
		if len(words) == 0 {
			continue
		}
		lines = append(lines, seg.Speaker+": "+strings.Join(words, " "))
	}
	return strings.Join(lines, "\n")
}

// TableName specifies the table name for Transcript
func (Transcript) TableName() string {
	return "transcripts"
}
