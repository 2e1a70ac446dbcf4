package entitle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsroom/internal/models"
)

// CompanyGetter looks up a company by id.
type CompanyGetter interface {
	GetCompany(ctx context.Context, id string) (*models.Company, error)
}

// ProductLister lists the products a company is subscribed to for a
// section (product type).
type ProductLister interface {
	GetProductsForCompany(ctx context.Context, companyID, productType string) ([]models.Product, error)
}

// Resolver turns a principal into the effective embedded-media profile of
// its company. Lookups are cached per company id for a short TTL.
type Resolver struct {
	companies CompanyGetter
	products  ProductLister
	cache     *companyCache
	log       *slog.Logger
}

// NewResolver builds a resolver with the given cache TTL.
func NewResolver(companies CompanyGetter, products ProductLister, ttl time.Duration, log *slog.Logger) *Resolver {
	return &Resolver{
		companies: companies,
		products:  products,
		cache:     newCompanyCache(ttl),
		log:       log,
	}
}

// Resolve returns the permission flags for the principal's company. A
// principal without a company, or one whose company cannot be found, gets
// the fail-open profile: no restriction configured means everything is
// allowed.
func (r *Resolver) Resolve(ctx context.Context, principal models.Principal) (models.Permissions, error) {
	if principal.CompanyID == "" {
		return FailOpenPermissions(), nil
	}

	if company, ok := r.cache.get(principal.CompanyID); ok {
		return company.Embedded, nil
	}

	company, err := r.companies.GetCompany(ctx, principal.CompanyID)
	if err != nil {
		return models.Permissions{}, fmt.Errorf("resolve company %s: %w", principal.CompanyID, err)
	}
	if company == nil {
		r.log.Debug("company not found, fail-open profile", slog.String("company", principal.CompanyID))
		return FailOpenPermissions(), nil
	}

	r.cache.set(principal.CompanyID, company)
	return company.Embedded, nil
}

// PermittedProducts returns the upstream product codes the company is
// entitled to for a section. Disabled products and products without an
// upstream id are skipped.
func (r *Resolver) PermittedProducts(ctx context.Context, companyID, section string) ([]string, error) {
	if companyID == "" {
		return nil, nil
	}

	products, err := r.products.GetProductsForCompany(ctx, companyID, section)
	if err != nil {
		return nil, fmt.Errorf("products for company %s: %w", companyID, err)
	}

	codes := make([]string, 0, len(products))
	for _, p := range products {
		if p.IsEnabled && p.SDProductID != "" {
			codes = append(codes, p.SDProductID)
		}
	}
	return codes, nil
}

// Invalidate drops the cached entry for a company.
func (r *Resolver) Invalidate(companyID string) {
	r.cache.invalidate(companyID)
}
