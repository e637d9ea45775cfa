package middleware

import (
	"github.com/gin-gonic/gin"

	"clinicstats/internal/core/apperror"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
)

// RequireBranchAccess rejects requests whose path branch is outside the
// caller's scope. Administrators pass for any well-formed branch id.
func RequireBranchAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, err := GetViewer(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		raw := c.Param(param)
		branchID, err := id.Parse(raw)
		if err != nil {
			_ = c.Error(apperror.NewInvalidInput(param, raw))
			c.Abort()
			return
		}

		if err := security.ResolveScope(viewer).RequireBranch(branchID); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Next()
	}
}
