package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/authgate/authgate/internal/core/domain"
)

type ProductRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: make(map[string]*domain.Product)}
}

func (r *ProductRepository) List(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *ProductRepository) SearchByName(_ context.Context, name string) ([]*domain.Product, error) {
	needle := strings.ToLower(name)
	return r.filter(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (r *ProductRepository) FindByPriceRange(_ context.Context, min, max float64) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		return p.Price >= min && p.Price <= max
	}), nil
}

func (r *ProductRepository) FindInStock(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.InStock() }), nil
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skuTaken(p.SKU, "") {
		return domain.ErrDuplicateSKU
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return domain.ErrDuplicateSKU
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

// skuTaken must be called with the lock held.
func (r *ProductRepository) skuTaken(sku, exceptID string) bool {
	for id, p := range r.byID {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

// filter returns matching products ordered by name.
func (r *ProductRepository) filter(keep func(*domain.Product) bool) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
