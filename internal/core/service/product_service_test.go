package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID      map[string]*domain.Product
	createErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) filter(keep func(*domain.Product) bool) []*domain.Product {
	out := []*domain.Product{}
	for _, p := range r.byID {
		if keep(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) SearchByName(_ context.Context, name string) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(name))
	}), nil
}

func (r *stubProductRepo) FindByPriceRange(_ context.Context, min, max float64) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.Price >= min && p.Price <= max }), nil
}

func (r *stubProductRepo) FindInStock(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.InStock() }), nil
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	for _, existing := range r.byID {
		if existing.ID != p.ID && existing.SKU == p.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

func seedProducts(t *testing.T, svc *ProductService) map[string]string {
	t.Helper()
	ids := make(map[string]string)
	for _, in := range []ports.ProductInput{
		{Name: "Keyboard", Price: 49.9, StockQuantity: 10, SKU: "KB-1"},
		{Name: "Mechanical Keyboard", Price: 129, StockQuantity: 0, SKU: "KB-2"},
		{Name: "Mouse", Price: 19.5, StockQuantity: 3, SKU: "MS-1"},
	} {
		v, err := svc.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
		ids[in.SKU] = v.ID
	}
	return ids
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestProductService_CreateAndGet(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	v, err := svc.Create(context.Background(), ports.ProductInput{Name: "Lamp", Price: 10, StockQuantity: 1, SKU: "LP-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID == "" || v.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", v)
	}

	got, err := svc.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Lamp" || got.SKU != "LP-1" {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	bad := []ports.ProductInput{
		{Name: "", SKU: "X"},
		{Name: "X", SKU: ""},
		{Name: "X", SKU: "X", Price: -1},
		{Name: "X", SKU: "X", StockQuantity: -1},
	}
	for _, in := range bad {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())
	seedProducts(t, svc)

	if _, err := svc.Create(context.Background(), ports.ProductInput{Name: "Clone", SKU: "KB-1"}); !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestProductService_Queries(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())
	seedProducts(t, svc)
	ctx := context.Background()

	all, _ := svc.List(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	found, _ := svc.SearchByName(ctx, "keyboard")
	if len(found) != 2 {
		t.Fatalf("expected 2 keyboards, got %d", len(found))
	}

	cheap, err := svc.ListByPriceRange(ctx, 0, 50)
	if err != nil || len(cheap) != 2 {
		t.Fatalf("expected 2 cheap products, got %d (%v)", len(cheap), err)
	}

	if _, err := svc.ListByPriceRange(ctx, 50, 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}

	inStock, _ := svc.ListInStock(ctx)
	if len(inStock) != 2 {
		t.Fatalf("expected 2 in stock, got %d", len(inStock))
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())
	ids := seedProducts(t, svc)
	ctx := context.Background()

	updated, err := svc.Update(ctx, ids["MS-1"], ports.ProductInput{Name: "Mouse Pro", Price: 29, StockQuantity: 5, SKU: "MS-1"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Mouse Pro" || updated.UpdatedAt.IsZero() {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.Update(ctx, ids["MS-1"], ports.ProductInput{Name: "Mouse", SKU: "KB-1"}); !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", ports.ProductInput{Name: "X", SKU: "Y"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, ids["MS-1"]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, ids["MS-1"]); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_RepositoryFailure(t *testing.T) {
	repo := newStubProductRepo()
	repoErr := errors.New("disk full")
	repo.createErr = repoErr
	svc := NewProductService(repo, zerolog.Nop())

	if _, err := svc.Create(context.Background(), ports.ProductInput{Name: "X", SKU: "X"}); !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
