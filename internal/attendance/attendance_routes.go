package attendance

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	att := r.Group("/attendance")
	{
		att.POST("/checkin",
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.CheckIn,
		)
		att.POST("/checkout",
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.CheckOut,
		)
		att.GET("/current", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.Current)
		att.GET("/active", middleware.RBACAuthorize(rbacService, "attendance", "read_all"), h.Active)
		att.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.List)
	}
}
