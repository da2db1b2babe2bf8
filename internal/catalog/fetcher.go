package catalog

import (
	"context"
	"log/slog"

	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/tenant"
)

// Lister abstracts the upstream product listing.
type Lister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Fetcher implements the TenantProductFetcher operation.
type Fetcher struct {
	lister Lister
	logger *slog.Logger
}

// NewFetcher creates a fetcher over the upstream catalog.
func NewFetcher(lister Lister, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{lister: lister, logger: logger}
}

// Fetch retrieves the full catalog and keeps only products owned by the
// verified tenant. The filter is unconditional: no code path returns an
// unfiltered catalog. Zero products is a valid result.
func (f *Fetcher) Fetch(ctx context.Context, id tenant.Identity) (domain.ProductList, error) {
	products, err := f.lister.ListProducts(ctx)
	if err != nil {
		return domain.ProductList{}, err
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.CompanyID == id.CompanyID {
			filtered = append(filtered, p)
		}
	}

	f.logger.Info("catalog filtered",
		slog.String("company_id", id.CompanyID),
		slog.Int("total", len(products)),
		slog.Int("returned", len(filtered)))

	return domain.ProductList{CompanyID: id.CompanyID, Products: filtered}, nil
}
