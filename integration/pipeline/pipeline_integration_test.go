package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/meetsync/meetsync-api/api"
	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/internal/database"
	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/extraction"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
	"github.com/meetsync/meetsync-api/internal/services/workers"
)

// scriptedGenerator returns a canned model response and records prompts
type scriptedGenerator struct {
	mu       sync.Mutex
	response string
	prompts  []string
}

func (g *scriptedGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.response, nil
}

// PipelineTestSuite holds all dependencies for end-to-end pipeline tests
type PipelineTestSuite struct {
	t          *testing.T
	db         *gorm.DB
	engine     *gin.Engine
	jobService jobs.Service
	generator  *scriptedGenerator
	workerPool *workers.WorkerPool
}

// setupPipelineTestSuite wires the full HTTP server and worker pool
// against an in-memory database
func setupPipelineTestSuite(t *testing.T, modelResponse string) *PipelineTestSuite {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to connect to test database")

	err = db.AutoMigrate(database.AllModels()...)
	require.NoError(t, err, "Failed to migrate test database")

	jobService := jobs.NewService(jobs.NewRepository(db))
	meetingService := meetings.NewService(meetings.NewGormRepository(db))
	contactService := contacts.NewService(contacts.NewGormRepository(db))

	generator := &scriptedGenerator{response: modelResponse}
	extractor := extraction.NewExtractor(generator)

	workerPool := workers.NewWorkerPool(jobService, 2, 20*time.Millisecond)
	workerPool.RegisterProcessor(workers.NewExtractionProcessor(jobService, meetingService, contactService, extractor))
	require.NoError(t, workerPool.Start(context.Background()), "Failed to start worker pool")
	t.Cleanup(workerPool.Stop)

	srv := api.NewServer("127.0.0.1:0")
	srv.SetDependencies(&types.Dependencies{
		DB:             &database.DB{DB: db},
		MeetingService: meetingService,
		ContactService: contactService,
		JobService:     jobService,
		WorkerPool:     workerPool,
	})
	require.NoError(t, srv.Initialize(), "Failed to initialize server")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	return &PipelineTestSuite{
		t:          t,
		db:         db,
		engine:     srv.Engine(),
		jobService: jobService,
		generator:  generator,
		workerPool: workerPool,
	}
}

func (suite *PipelineTestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(suite.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	suite.engine.ServeHTTP(rec, req)
	return rec
}

func meetingPayload(externalID string) map[string]any {
	return map[string]any{
		"external_id": externalID,
		"user_id":     1,
		"title":       "Quarterly planning call",
		"started_at":  "2026-08-20T15:00:00Z",
		"participants": []map[string]any{
			{"name": "Dana Host", "email": "dana@meetsync.example", "is_host": true},
			{"name": "Alice Rivera", "email": "alice@initech.com"},
		},
		"segments": []map[string]any{
			{
				"speaker": "Alice Rivera",
				"words": []map[string]any{
					{"text": "Reach"}, {"text": "me"}, {"text": "at"},
					{"text": "alice@initech.com,"}, {"text": "I"}, {"text": "run"},
					{"text": "platform"}, {"text": "at"}, {"text": "Initech."},
				},
			},
		},
	}
}

func TestMeetingIngestToExtraction(t *testing.T) {
	suite := setupPipelineTestSuite(t, `{"email":"alice@initech.com","company":"Initech","job_title":"Platform Lead"}`)

	rec := suite.request(http.MethodPost, "/api/v1/meetings", meetingPayload("zoom-e2e-1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.MeetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.TranscriptID, "Expected a transcript to be stored")
	require.NotZero(t, created.JobID, "Expected an extraction job to be queued")

	// The worker pool picks the job up in the background
	var result types.ExtractionResponse
	assert.Eventually(t, func() bool {
		rec := suite.request(http.MethodGet,
			fmt.Sprintf("/api/v1/transcripts/%d/extraction", created.TranscriptID), nil)
		if rec.Code != http.StatusOK {
			return false
		}
		return json.Unmarshal(rec.Body.Bytes(), &result) == nil
	}, 5*time.Second, 25*time.Millisecond, "Extraction never completed")

	assert.Equal(t, created.TranscriptID, result.TranscriptID)
	assert.Equal(t, "alice@initech.com", result.ContactInfo["email"])
	assert.Equal(t, "Initech", result.ContactInfo["company"])
	assert.NotEmpty(t, result.Categories)

	// Job tracking reflects completion
	rec = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", created.JobID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var jobStatus types.JobStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobStatus))
	assert.Equal(t, models.JobStatusCompleted, jobStatus.Status)

	// Host names from the participant list reach the model prompt
	suite.generator.mu.Lock()
	defer suite.generator.mu.Unlock()
	require.NotEmpty(t, suite.generator.prompts)
	assert.Contains(t, suite.generator.prompts[0], "Dana Host")
}

func TestDuplicateMeetingIngestConflicts(t *testing.T) {
	suite := setupPipelineTestSuite(t, `{}`)

	rec := suite.request(http.MethodPost, "/api/v1/meetings", meetingPayload("zoom-e2e-dup"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = suite.request(http.MethodPost, "/api/v1/meetings", meetingPayload("zoom-e2e-dup"))
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestRetriggerReportsExistingExtraction(t *testing.T) {
	suite := setupPipelineTestSuite(t, `{"first_name":"Alice"}`)

	rec := suite.request(http.MethodPost, "/api/v1/meetings", meetingPayload("zoom-e2e-retrigger"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.MeetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	assert.Eventually(t, func() bool {
		rec := suite.request(http.MethodGet,
			fmt.Sprintf("/api/v1/transcripts/%d/extraction", created.TranscriptID), nil)
		return rec.Code == http.StatusOK
	}, 5*time.Second, 25*time.Millisecond, "Extraction never completed")

	// A second trigger reports the stored result instead of queuing again
	rec = suite.request(http.MethodPost,
		fmt.Sprintf("/api/v1/transcripts/%d/extraction", created.TranscriptID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.ExtractionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Alice", result.ContactInfo["first_name"])
}
