package app

import (
	"go-attend/internal/attendance"
	"go-attend/internal/bootstrap"
	"go-attend/internal/geofence"
	"go-attend/internal/middleware"
	"go-attend/internal/payroll"
	"go-attend/internal/request"
	"go-attend/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildRouter assembles the http surface: request id, request-scoped
// logging, rate limiting, auth, tenant resolution, then the feature
// routes.
func BuildRouter(reg *Registry, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ContextLogger(logger))
	r.Use(middleware.RateLimitByIP(50, 100))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	api.Use(tenant.Middleware(reg.TenantResolver))
	api.Use(bootstrap.AuditTrail(bootstrap.NewAuditLogger(logger)))

	attendance.RegisterRoutes(api, reg.AttendanceHandler, reg.RBAC, rdb)
	geofence.RegisterRoutes(api, reg.GeofenceHandler, reg.RBAC)
	payroll.RegisterRoutes(api, reg.PayrollHandler, reg.RBAC, rdb)
	request.RegisterRoutes(api, reg.RequestHandler, reg.RBAC)

	return r
}
