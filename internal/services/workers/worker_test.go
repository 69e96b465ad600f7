package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meetsync/meetsync-api/internal/models"
)

// typedProcessor is a no-op processor declaring an arbitrary type set
type typedProcessor struct {
	types []models.JobType
}

func (p *typedProcessor) ProcessJob(ctx context.Context, job *models.Job) error { return nil }

func (p *typedProcessor) SupportedTypes() []models.JobType { return p.types }

func TestSupportedTypesDerivedFromProcessors(t *testing.T) {
	worker := NewWorker("worker-test", nil, time.Second)

	assert.Empty(t, worker.supportedTypes(), "no processors means no claimable types")

	worker.RegisterProcessor(&typedProcessor{types: []models.JobType{models.JobTypeContactExtraction}})
	assert.Equal(t, []models.JobType{models.JobTypeContactExtraction}, worker.supportedTypes())

	// A processor for a new type widens the set without code changes here
	other := models.JobType("transcript_summary")
	worker.RegisterProcessor(&typedProcessor{types: []models.JobType{other, models.JobTypeContactExtraction}})
	assert.ElementsMatch(t, []models.JobType{models.JobTypeContactExtraction, other}, worker.supportedTypes())

	// duplicate declarations collapse
	assert.Len(t, worker.supportedTypes(), 2)
}
