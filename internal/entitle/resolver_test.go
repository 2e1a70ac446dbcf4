package entitle

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsroom/internal/models"
)

type stubCompanies struct {
	company *models.Company
	calls   int
}

func (s *stubCompanies) GetCompany(_ context.Context, _ string) (*models.Company, error) {
	s.calls++
	return s.company, nil
}

type stubProducts struct {
	products []models.Product
}

func (s *stubProducts) GetProductsForCompany(_ context.Context, _, _ string) ([]models.Product, error) {
	return s.products, nil
}

func testResolver(companies *stubCompanies, products *stubProducts, ttl time.Duration) *Resolver {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResolver(companies, products, ttl, log)
}

func TestResolveReturnsCompanyProfile(t *testing.T) {
	companies := &stubCompanies{company: &models.Company{
		ID:       "c1",
		Embedded: models.Permissions{VideoDownload: true},
	}}
	r := testResolver(companies, &stubProducts{}, time.Minute)

	perms, err := r.Resolve(context.Background(), models.Principal{UserID: "u1", CompanyID: "c1"})
	require.NoError(t, err)
	require.True(t, perms.VideoDownload)
	require.False(t, perms.AllDisplay)
}

func TestResolveWithoutCompanyFailsOpen(t *testing.T) {
	companies := &stubCompanies{}
	r := testResolver(companies, &stubProducts{}, time.Minute)

	perms, err := r.Resolve(context.Background(), models.Principal{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, FailOpenPermissions(), perms)
	require.Zero(t, companies.calls)
}

func TestResolveUnknownCompanyFailsOpen(t *testing.T) {
	r := testResolver(&stubCompanies{company: nil}, &stubProducts{}, time.Minute)

	perms, err := r.Resolve(context.Background(), models.Principal{UserID: "u1", CompanyID: "ghost"})
	require.NoError(t, err)
	require.Equal(t, FailOpenPermissions(), perms)
}

func TestResolveCachesCompanyLookups(t *testing.T) {
	companies := &stubCompanies{company: &models.Company{ID: "c1"}}
	r := testResolver(companies, &stubProducts{}, time.Minute)

	principal := models.Principal{UserID: "u1", CompanyID: "c1"}
	_, err := r.Resolve(context.Background(), principal)
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, 1, companies.calls)

	r.Invalidate("c1")
	_, err = r.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, 2, companies.calls)
}

func TestCompanyCacheExpiry(t *testing.T) {
	cache := newCompanyCache(10 * time.Millisecond)
	cache.set("c1", &models.Company{ID: "c1"})

	_, ok := cache.get("c1")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.get("c1")
	require.False(t, ok)
}

func TestPermittedProductsSkipsDisabledAndUnmapped(t *testing.T) {
	products := &stubProducts{products: []models.Product{
		{ID: "p1", SDProductID: "7", IsEnabled: true},
		{ID: "p2", SDProductID: "8", IsEnabled: false},
		{ID: "p3", SDProductID: "", IsEnabled: true},
	}}
	r := testResolver(&stubCompanies{}, products, time.Minute)

	codes, err := r.PermittedProducts(context.Background(), "c1", "wire")
	require.NoError(t, err)
	require.Equal(t, []string{"7"}, codes)
}
