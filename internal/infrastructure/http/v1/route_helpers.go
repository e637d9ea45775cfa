// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// CustomStatRouteHandler defines the handler set behind /custom-stats.
type CustomStatRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Calculate(c *gin.Context)
}

// RegisterCustomStatRoutes registers CRUD routes plus the calculate action.
// Authorization is decided per stat by the service, so no route-level guard is applied.
func RegisterCustomStatRoutes(group *gin.RouterGroup, handler CustomStatRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/calculate", handler.Calculate)
}
