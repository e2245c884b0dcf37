package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*productView)(nil)
	_ repository.ProductRepository = (*lockedProducts)(nil)
)

// productView opera sin lock; solo dentro de Run.
type productView struct{ s *Store }

func (v *productView) Create(_ context.Context, product *entity.Product) error {
	if _, ok := v.s.skuIndex[product.SKU]; ok {
		return domain.ErrDuplicate
	}
	v.s.products[product.ID] = copyProduct(product)
	v.s.skuIndex[product.SKU] = product.ID
	return nil
}

func (v *productView) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := v.s.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (v *productView) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	id, ok := v.s.skuIndex[sku]
	if !ok {
		return nil, nil
	}
	return copyProduct(v.s.products[id]), nil
}

func (v *productView) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	search := strings.ToLower(filter.Search)
	var list []*entity.Product
	for _, p := range v.s.products {
		if filter.TrackingKind != "" && p.TrackingKind != filter.TrackingKind {
			continue
		}
		if filter.OnlyActive && !p.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		list = append(list, copyProduct(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (v *productView) Update(_ context.Context, product *entity.Product) error {
	existing, ok := v.s.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if existing.SKU != product.SKU {
		if _, taken := v.s.skuIndex[product.SKU]; taken {
			return domain.ErrDuplicate
		}
		delete(v.s.skuIndex, existing.SKU)
		v.s.skuIndex[product.SKU] = product.ID
	}
	v.s.products[product.ID] = copyProduct(product)
	return nil
}

func (v *productView) SoftDelete(_ context.Context, id string) error {
	p, ok := v.s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Active = false
	return nil
}

// lockedProducts versión con lock propio, equivalente a un repo sobre el pool.
type lockedProducts struct{ s *Store }

func (r *lockedProducts) Create(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productView{r.s}).Create(ctx, product)
}

func (r *lockedProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productView{r.s}).GetByID(ctx, id)
}

func (r *lockedProducts) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productView{r.s}).GetBySKU(ctx, sku)
}

func (r *lockedProducts) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productView{r.s}).List(ctx, filter)
}

func (r *lockedProducts) Update(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productView{r.s}).Update(ctx, product)
}

func (r *lockedProducts) SoftDelete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productView{r.s}).SoftDelete(ctx, id)
}
