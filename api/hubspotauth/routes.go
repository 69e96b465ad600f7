package hubspotauth

import (
	"github.com/gin-gonic/gin"

	"github.com/meetsync/meetsync-api/api/types"
)

// RegisterRoutes registers the OAuth connect routes on the given group
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("/connect", Connect(deps))
	group.DELETE("/connect/:user_id", Disconnect(deps))
}
