package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/middleware"
	"github.com/talentra/ems-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// employeeIDFromPath resolves the target employee for routes that accept
// either an explicit id or "me" as an alias for the caller's own record.
func employeeIDFromPath(c *gin.Context, claims *models.JWTClaims) string {
	id := c.Param("employeeId")
	if id == "me" && claims != nil {
		return claims.EmployeeID
	}
	return id
}

// canAccessEmployee reports whether the caller may act on the target
// employee's data. Admins and supervisors see everyone; employees only
// themselves.
func canAccessEmployee(claims *models.JWTClaims, employeeID string) bool {
	if claims == nil {
		return false
	}
	switch claims.Role {
	case models.RoleAdmin, models.RoleSupervisor:
		return true
	default:
		return claims.EmployeeID != "" && claims.EmployeeID == employeeID
	}
}
