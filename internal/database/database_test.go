package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync/meetsync-api/internal/models"
)

func TestInitializeAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meetsync-test.db")

	db, err := Initialize(dbPath, false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	assert.NoError(t, db.HealthCheck())

	// Schema is usable after migration
	meeting := &models.Meeting{ExternalID: "11111111-2222-3333-4444-555555555555", UserID: 1, Title: "Quarterly review"}
	require.NoError(t, db.Create(meeting).Error)

	transcript := &models.Transcript{
		MeetingID: meeting.ID,
		Segments: models.SegmentList{
			{Speaker: "Jane", Words: []models.Word{{Text: "hello"}}},
		},
	}
	require.NoError(t, db.Create(transcript).Error)

	var loaded models.Transcript
	require.NoError(t, db.First(&loaded, transcript.ID).Error)
	assert.Equal(t, "Jane: hello", loaded.PlainText())
}

func TestExtractedContactUniqueConstraint(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meetsync-unique.db")

	db, err := Initialize(dbPath, false)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	first := &models.ExtractedContact{TranscriptID: 7, ContactInfo: models.ContactInfo{"email": "a@b.com"}}
	require.NoError(t, db.Create(first).Error)

	duplicate := &models.ExtractedContact{TranscriptID: 7, ContactInfo: models.ContactInfo{"email": "c@d.com"}}
	assert.Error(t, db.Create(duplicate).Error, "second record for the same transcript must violate the unique index")
}
