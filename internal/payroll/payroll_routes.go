package payroll

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	pay := r.Group("/payroll")
	{
		pay.POST("/calculate",
			middleware.RBACAuthorize(rbacService, "salary", "calculate"),
			middleware.Idempotency(rdb),
			h.Calculate,
		)
		pay.GET("/statements", middleware.RBACAuthorize(rbacService, "salary", "read"), h.List)
		pay.GET("/statements/:id", middleware.RBACAuthorize(rbacService, "salary", "read"), h.Get)
		pay.POST("/statements/:id/paid", middleware.RBACAuthorize(rbacService, "salary", "mark_paid"), h.MarkPaid)
	}
}
