package shows

import (
	"github.com/gin-gonic/gin"
)

func SetupShowRoutes(router *gin.RouterGroup, controller Controller) {
	shows := router.Group("/shows")
	{
		shows.GET("", controller.GetAllShows)                    // GET /api/v1/shows - Browse the catalog
		shows.GET("/:id", controller.GetShow)                    // GET /api/v1/shows/:id - Show details with tour stops
		shows.GET("/:id/context", controller.ResolveShowContext) // GET /api/v1/shows/:id/context?stop=&performance=
	}
}
