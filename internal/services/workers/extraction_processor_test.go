package workers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync/meetsync-api/internal/database"
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/extraction"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type testEnv struct {
	jobService     jobs.Service
	meetingService meetings.Service
	contactService contacts.Service
	generator      *stubGenerator
	processor      *ExtractionProcessor
}

func newTestEnv(t *testing.T, generator *stubGenerator) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	env := &testEnv{
		jobService:     jobs.NewService(jobs.NewRepository(db.DB)),
		meetingService: meetings.NewService(meetings.NewGormRepository(db.DB)),
		contactService: contacts.NewService(contacts.NewGormRepository(db.DB)),
		generator:      generator,
	}
	env.processor = NewExtractionProcessor(
		env.jobService, env.meetingService, env.contactService,
		extraction.NewExtractor(generator),
	)
	return env
}

func (e *testEnv) ingest(t *testing.T, input meetings.MeetingInput) *models.Meeting {
	t.Helper()
	meeting, err := e.meetingService.IngestMeeting(context.Background(), input)
	require.NoError(t, err)
	return meeting
}

func (e *testEnv) enqueue(t *testing.T, transcriptID uint) *models.Job {
	t.Helper()
	_, err := e.jobService.EnqueueJob(context.Background(), models.JobTypeContactExtraction,
		models.JobPayload{jobs.PayloadKeyTranscriptID: transcriptID})
	require.NoError(t, err)
	claimed, err := e.jobService.ClaimNextJob(context.Background(), "test-worker",
		[]models.JobType{models.JobTypeContactExtraction})
	require.NoError(t, err)
	return claimed
}

func janeMeeting() meetings.MeetingInput {
	return meetings.MeetingInput{
		ExternalID: "rec-1",
		UserID:     1,
		Title:      "Intro call",
		Participants: []meetings.ParticipantInput{
			{Name: "Jane", Email: "jane@co.com"},
		},
		Segments: []models.Segment{
			{Speaker: "Jane", Words: []models.Word{{Text: "My"}, {Text: "email"}, {Text: "is"}, {Text: "jane@co.com"}}},
		},
	}
}

func TestProcessJobExtractsAndPersists(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{"email":"jane@co.com"}`})
	meeting := env.ingest(t, janeMeeting())
	job := env.enqueue(t, meeting.Transcript.ID)

	require.NoError(t, env.processor.ProcessJob(context.Background(), job))

	// no hosts on this meeting, so the prompt carries no conflict rule
	require.Len(t, env.generator.prompts, 1)
	assert.Contains(t, env.generator.prompts[0], "Jane: My email is jane@co.com")
	assert.NotContains(t, env.generator.prompts[0], "participant's value")

	contact, err := env.contactService.GetByTranscriptID(context.Background(), meeting.Transcript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactInfo{"email": "jane@co.com"}, contact.ContactInfo)

	status, err := env.jobService.GetJobStatus(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)
}

func TestProcessJobIsIdempotent(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{"email":"jane@co.com"}`})
	meeting := env.ingest(t, janeMeeting())

	first := env.enqueue(t, meeting.Transcript.ID)
	require.NoError(t, env.processor.ProcessJob(context.Background(), first))

	second := env.enqueue(t, meeting.Transcript.ID)
	require.NoError(t, env.processor.ProcessJob(context.Background(), second))

	// still exactly one record, unchanged
	contact, err := env.contactService.GetByTranscriptID(context.Background(), meeting.Transcript.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@co.com", contact.ContactInfo["email"])
}

func TestProcessJobHostNamesReachPrompt(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{}`})
	input := janeMeeting()
	input.Participants = append(input.Participants,
		meetings.ParticipantInput{Name: "Carol Advisor", IsHost: true})
	meeting := env.ingest(t, input)

	job := env.enqueue(t, meeting.Transcript.ID)
	require.NoError(t, env.processor.ProcessJob(context.Background(), job))

	require.Len(t, env.generator.prompts, 1)
	assert.Contains(t, env.generator.prompts[0], "carol advisor")
	assert.Contains(t, env.generator.prompts[0], "participant's value")
}

func TestProcessJobEmptyTranscriptSkips(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{"email":"jane@co.com"}`})
	input := janeMeeting()
	input.Segments = []models.Segment{{Speaker: "Jane", Words: nil}}
	meeting := env.ingest(t, input)

	job := env.enqueue(t, meeting.Transcript.ID)
	require.NoError(t, env.processor.ProcessJob(context.Background(), job))

	// no model call, no record, job completed
	assert.Empty(t, env.generator.prompts)
	_, err := env.contactService.GetByTranscriptID(context.Background(), meeting.Transcript.ID)
	assert.ErrorIs(t, err, contacts.ErrContactNotFound)

	status, err := env.jobService.GetJobStatus(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)
}

func TestProcessJobEmptyExtractionSkips(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{}`})
	meeting := env.ingest(t, janeMeeting())

	job := env.enqueue(t, meeting.Transcript.ID)
	require.NoError(t, env.processor.ProcessJob(context.Background(), job))

	_, err := env.contactService.GetByTranscriptID(context.Background(), meeting.Transcript.ID)
	assert.ErrorIs(t, err, contacts.ErrContactNotFound)
}

func TestProcessJobMissingTranscriptIsTerminal(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{}`})
	job := env.enqueue(t, 9999)

	err := env.processor.ProcessJob(context.Background(), job)

	var structured *models.StructuredJobError
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, models.ErrorTypeNotFound, structured.Type)

	// routed through the queue, a not-found failure never retries
	require.NoError(t, env.jobService.FailJobWithDetails(context.Background(), job.ID,
		structured.Type, structured.Code, structured.Message, structured.Details))
	status, err := env.jobService.GetJobStatus(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPermanentlyFailed, status)
}

func TestProcessJobExtractionFailurePropagates(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: "this is not JSON"})
	meeting := env.ingest(t, janeMeeting())

	job := env.enqueue(t, meeting.Transcript.ID)
	err := env.processor.ProcessJob(context.Background(), job)

	var structured *models.StructuredJobError
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, models.ErrorTypeSystem, structured.Type)

	_, getErr := env.contactService.GetByTranscriptID(context.Background(), meeting.Transcript.ID)
	assert.ErrorIs(t, getErr, contacts.ErrContactNotFound)
}

func TestWorkerPoolProcessesEnqueuedJob(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{response: `{"email":"jane@co.com"}`})
	meeting := env.ingest(t, janeMeeting())

	_, err := env.jobService.EnqueueJob(context.Background(), models.JobTypeContactExtraction,
		models.JobPayload{jobs.PayloadKeyTranscriptID: meeting.Transcript.ID})
	require.NoError(t, err)

	pool := NewWorkerPool(env.jobService, 2, 10*time.Millisecond)
	pool.RegisterProcessor(env.processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pool.Start(ctx))
	defer pool.Stop()

	assert.Eventually(t, func() bool {
		_, err := env.contactService.GetByTranscriptID(context.Background(), meeting.Transcript.ID)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}
