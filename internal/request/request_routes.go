package request

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	req := r.Group("/requests")
	{
		req.POST("", middleware.RBACAuthorize(rbacService, "request", "create"), h.Create)
		req.GET("", middleware.RBACAuthorize(rbacService, "request", "read"), h.List)
		req.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "request", "review"), h.Approve)
		req.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "request", "review"), h.Reject)
	}

	pen := r.Group("/penalties")
	{
		pen.POST("", middleware.RBACAuthorize(rbacService, "penalty", "create"), h.CreatePenalty)
	}
}
