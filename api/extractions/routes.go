package extractions

import (
	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
)

// RegisterRoutes registers extraction and job tracking routes
func RegisterRoutes(v1 *gin.RouterGroup, deps *types.Dependencies, rateLimit gin.HandlerFunc) {
	transcripts := v1.Group("/transcripts")
	transcripts.Use(rateLimit)
	transcripts.GET("/:id/extraction", GetExtraction(deps))
	transcripts.POST("/:id/extraction", TriggerExtraction(deps))

	jobsGroup := v1.Group("/jobs")
	jobsGroup.Use(rateLimit)
	jobsGroup.GET("/:id", GetJob(deps))
}
