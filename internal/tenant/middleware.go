package tenant

import (
	"net/http"

	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	// ContextCompanyID is where the resolved tenant id lives in the gin
	// context. Handlers must only ever read the tenant from here.
	ContextCompanyID = "company_id"

	headerCompanyID = "X-Company-ID"
)

// Middleware resolves the owning tenant once per request and aborts
// when no source matches. Must run after authentication so the caller
// fallback has claims to work with.
func Middleware(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := RequestInfo{
			ExplicitCompanyID: c.GetHeader(headerCompanyID),
			Host:              c.Request.Host,
			CallerCompanyID:   c.GetString("claim_company_id"),
		}

		resolved := resolver.Resolve(c.Request.Context(), req)
		if resolved == nil {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "No tenant resolved for this request", nil)
			c.Abort()
			return
		}

		c.Set(ContextCompanyID, resolved.ID.String())
		c.Next()
	}
}
