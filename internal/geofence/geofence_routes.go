package geofence

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	geo := r.Group("/geolocation")
	{
		geo.POST("/verify", middleware.RBACAuthorize(rbacService, "geolocation", "verify"), h.Verify)
	}
}
