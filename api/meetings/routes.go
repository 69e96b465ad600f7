package meetings

import (
	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
)

// RegisterRoutes registers meeting routes on the given group
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("", Ingest(deps))
	group.GET("", List(deps))
	group.GET("/:id", Get(deps))
}
