package contacts

import (
	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
)

// RegisterRoutes registers CRM contact routes on the given group
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("/search", Search(deps))
	group.GET("/:id", Get(deps))
	group.POST("/:id/sync", Sync(deps))
}
