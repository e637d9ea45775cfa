package middleware

import (
	"github.com/gin-gonic/gin"

	"clinicstats/internal/core/apperror"
	appctx "clinicstats/internal/core/context"
	"clinicstats/internal/core/security"
)

// Viewer builds the request Viewer from the authenticated user.
//
// This middleware must run AFTER Auth. Handlers read the result with GetViewer
// and pass it explicitly to services.
func Viewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Set(KeyViewer, security.ViewerFromUser(user))
		c.Next()
	}
}

// GetViewer returns the Viewer stored by the Viewer middleware.
func GetViewer(c *gin.Context) (security.Viewer, error) {
	if v, ok := c.Get(KeyViewer); ok {
		if viewer, ok := v.(security.Viewer); ok {
			return viewer, nil
		}
	}
	return security.Viewer{}, apperror.NewUnauthorized("authentication required")
}
