package catalog_test

import (
	"context"
	"testing"

	"github.com/coursekit/promogen/internal/catalog"
	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/tenant"
)

// stubLister returns a fixed catalog.
type stubLister struct {
	products []domain.Product
	err      error
}

func (s *stubLister) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func identity(companyID string) tenant.Identity {
	return tenant.Identity{UserID: "user_1", CompanyID: companyID, AccessLevel: tenant.AccessLevelAdmin}
}

func TestFetch_FiltersByCompany(t *testing.T) {
	tests := []struct {
		name      string
		catalog   []domain.Product
		companyID string
		wantIDs   []string
	}{
		{
			name: "mixed catalog",
			catalog: []domain.Product{
				{ID: "p1", CompanyID: "biz_a"},
				{ID: "p2", CompanyID: "biz_b"},
				{ID: "p3", CompanyID: "biz_a"},
				{ID: "p4", CompanyID: ""},
			},
			companyID: "biz_a",
			wantIDs:   []string{"p1", "p3"},
		},
		{
			name:      "empty catalog",
			catalog:   nil,
			companyID: "biz_a",
			wantIDs:   []string{},
		},
		{
			name: "single tenant catalog",
			catalog: []domain.Product{
				{ID: "p1", CompanyID: "biz_a"},
				{ID: "p2", CompanyID: "biz_a"},
			},
			companyID: "biz_a",
			wantIDs:   []string{"p1", "p2"},
		},
		{
			name: "tenant owns nothing",
			catalog: []domain.Product{
				{ID: "p1", CompanyID: "biz_b"},
			},
			companyID: "biz_a",
			wantIDs:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := catalog.NewFetcher(&stubLister{products: tt.catalog}, nil)

			list, err := f.Fetch(context.Background(), identity(tt.companyID))
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if list.CompanyID != tt.companyID {
				t.Errorf("CompanyID = %q, want %q", list.CompanyID, tt.companyID)
			}
			if len(list.Products) != len(tt.wantIDs) {
				t.Fatalf("got %d products, want %d", len(list.Products), len(tt.wantIDs))
			}
			for i, p := range list.Products {
				if p.ID != tt.wantIDs[i] {
					t.Errorf("products[%d].ID = %q, want %q", i, p.ID, tt.wantIDs[i])
				}
				if p.CompanyID != tt.companyID {
					t.Errorf("products[%d] belongs to %q, filter leaked", i, p.CompanyID)
				}
			}
		})
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	f := catalog.NewFetcher(&stubLister{err: domain.ErrUpstreamUnavailable("boom")}, nil)

	_, err := f.Fetch(context.Background(), identity("biz_a"))
	if domain.ErrorTypeOf(err) != domain.ErrorTypeUpstreamUnavailable {
		t.Errorf("error type = %q, want upstream_unavailable", domain.ErrorTypeOf(err))
	}
}
