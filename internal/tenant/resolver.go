package tenant

import (
	"context"
	"errors"
	"strings"

	"go-attend/internal/company"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequestInfo carries the raw tenant hints of one request,
// transport-agnostic so the chain is testable without HTTP.
type RequestInfo struct {
	ExplicitCompanyID string // X-Company-ID header
	Host              string // request host, may include port
	CallerCompanyID   string // company claim of the authenticated caller
}

// Source resolves a company from one hint. A nil company with a nil
// error means "no match here, try the next source".
type Source interface {
	Resolve(ctx context.Context, req RequestInfo) (*company.Company, error)
}

// Resolver walks an ordered source chain and returns the first match.
type Resolver struct {
	sources []Source
	logger  *zap.Logger
}

// NewResolver builds the default chain: explicit header, host subdomain,
// caller's own company. First non-nil match wins.
func NewResolver(repo company.Repository, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.L()
	}
	return &Resolver{
		sources: []Source{
			HeaderSource{Repo: repo},
			SubdomainSource{Repo: repo},
			CallerSource{Repo: repo},
		},
		logger: logger.Named("tenant.resolver"),
	}
}

// NewResolverWithSources is used by tests to assemble custom chains.
func NewResolverWithSources(logger *zap.Logger, sources ...Source) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{sources: sources, logger: logger}
}

// Resolve returns the owning company for the request, or nil when no
// source matched. Source failures are logged and skipped so a broken
// hint never masks a later one.
func (r *Resolver) Resolve(ctx context.Context, req RequestInfo) *company.Company {
	for _, src := range r.sources {
		c, err := src.Resolve(ctx, req)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				r.logger.Warn("tenant source failed", zap.Error(err))
			}
			continue
		}
		if c != nil {
			return c
		}
	}
	return nil
}

// HeaderSource resolves the explicit X-Company-ID header.
type HeaderSource struct {
	Repo company.Repository
}

func (s HeaderSource) Resolve(ctx context.Context, req RequestInfo) (*company.Company, error) {
	if req.ExplicitCompanyID == "" {
		return nil, nil
	}
	return s.Repo.FindActiveByID(ctx, req.ExplicitCompanyID)
}

// SubdomainSource derives the tenant from the request host
// (acme.example.com -> acme). Shared prefixes are never tenants.
type SubdomainSource struct {
	Repo company.Repository
}

var reservedSubdomains = map[string]bool{
	"www":   true,
	"api":   true,
	"admin": true,
}

func (s SubdomainSource) Resolve(ctx context.Context, req RequestInfo) (*company.Company, error) {
	sub := ExtractSubdomain(req.Host)
	if sub == "" {
		return nil, nil
	}
	return s.Repo.FindActiveBySubdomain(ctx, sub)
}

// ExtractSubdomain strips the port and returns the first host label, or
// "" when the host has no subdomain or the label is reserved.
func ExtractSubdomain(host string) string {
	host, _, _ = strings.Cut(host, ":")
	if !strings.Contains(host, ".") {
		return ""
	}
	sub := strings.SplitN(host, ".", 2)[0]
	if sub == "" || reservedSubdomains[sub] {
		return ""
	}
	return sub
}

// CallerSource falls back to the authenticated caller's own company.
type CallerSource struct {
	Repo company.Repository
}

func (s CallerSource) Resolve(ctx context.Context, req RequestInfo) (*company.Company, error) {
	if req.CallerCompanyID == "" {
		return nil, nil
	}
	return s.Repo.FindActiveByID(ctx, req.CallerCompanyID)
}
