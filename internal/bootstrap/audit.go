package bootstrap

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditEntry records who did what to which tenant. Written for every
// mutating request, after the handler ran.
type AuditEntry struct {
	Timestamp time.Time
	RequestID string
	UserID    string
	CompanyID string
	Method    string
	Path      string
	Status    int
}

type AuditLogger interface {
	Record(entry AuditEntry)
}

type zapAuditLogger struct {
	logger *zap.Logger
}

func NewAuditLogger(logger *zap.Logger) AuditLogger {
	return &zapAuditLogger{logger: logger.Named("audit")}
}

func (l *zapAuditLogger) Record(entry AuditEntry) {
	l.logger.Info("audit",
		zap.Time("ts", entry.Timestamp),
		zap.String("request_id", entry.RequestID),
		zap.String("user_id", entry.UserID),
		zap.String("company_id", entry.CompanyID),
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.Int("status", entry.Status),
	)
}

// AuditTrail records mutating requests once the handler has finished.
func AuditTrail(audit AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			return
		}

		audit.Record(AuditEntry{
			Timestamp: time.Now().UTC(),
			RequestID: c.GetString("request_id"),
			UserID:    c.GetString("user_id"),
			CompanyID: c.GetString("company_id"),
			Method:    c.Request.Method,
			Path:      c.FullPath(),
			Status:    c.Writer.Status(),
		})
	}
}
