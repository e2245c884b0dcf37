package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var (
	_ repository.StockEntryRepository = (*entryView)(nil)
	_ repository.StockEntryRepository = (*lockedEntries)(nil)
)

// entryView opera sobre el store sin tomar el lock: solo se usa dentro de
// Run, con el lock ya tomado.
type entryView struct{ s *Store }

func (v *entryView) TotalQuantity(_ context.Context, productID, warehouseID string) (int64, error) {
	var total int64
	for _, e := range v.s.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			total += e.Quantity
		}
	}
	return total, nil
}

func (v *entryView) List(_ context.Context, productID, warehouseID string) ([]*entity.StockEntry, error) {
	var list []*entity.StockEntry
	for _, e := range v.s.entries {
		if e.ProductID != productID {
			continue
		}
		if warehouseID != "" && e.WarehouseID != warehouseID {
			continue
		}
		list = append(list, copyEntry(e))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// findAggregate localiza la entrada agregada (sin discriminantes) de un
// producto en una bodega.
func (v *entryView) findAggregate(productID, warehouseID string) *entity.StockEntry {
	for _, e := range v.s.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID &&
			len(e.SerialNumbers) == 0 && e.LotCode == "" && e.ExpirationDate == nil {
			return e
		}
	}
	return nil
}

func (v *entryView) AddSimple(_ context.Context, productID, warehouseID string, qty int64) error {
	now := time.Now()
	if e := v.findAggregate(productID, warehouseID); e != nil {
		e.Quantity += qty
		e.UpdatedAt = now
		return nil
	}
	e := &entity.StockEntry{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.s.entries[e.ID] = e
	return nil
}

func (v *entryView) SubtractSimple(_ context.Context, productID, warehouseID string, qty int64) (bool, error) {
	e := v.findAggregate(productID, warehouseID)
	if e == nil || e.Quantity < qty {
		return false, nil
	}
	e.Quantity -= qty
	e.UpdatedAt = time.Now()
	return true, nil
}

func (v *entryView) SerialsInUse(_ context.Context, productID string, serials []string) (bool, error) {
	requested := make(map[string]struct{}, len(serials))
	for _, s := range serials {
		requested[s] = struct{}{}
	}
	for _, e := range v.s.entries {
		if e.ProductID != productID {
			continue
		}
		for _, s := range e.SerialNumbers {
			if _, ok := requested[s]; ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func (v *entryView) CreateEntry(_ context.Context, entry *entity.StockEntry) error {
	c := copyEntry(entry)
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	v.s.entries[c.ID] = c
	return nil
}

func (v *entryView) RemoveBySerials(_ context.Context, productID, warehouseID string, serials []string) (bool, error) {
	for id, e := range v.s.entries {
		if e.ProductID != productID || e.WarehouseID != warehouseID || len(e.SerialNumbers) == 0 {
			continue
		}
		if containsAll(e.SerialNumbers, serials) {
			delete(v.s.entries, id)
			return true, nil
		}
	}
	return false, nil
}

func (v *entryView) findLot(productID, warehouseID, lotCode string) *entity.StockEntry {
	for _, e := range v.s.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID && e.LotCode == lotCode {
			return e
		}
	}
	return nil
}

func (v *entryView) AddLot(_ context.Context, productID, warehouseID, lotCode string, qty int64) error {
	now := time.Now()
	if e := v.findLot(productID, warehouseID, lotCode); e != nil {
		e.Quantity += qty
		e.UpdatedAt = now
		return nil
	}
	e := &entity.StockEntry{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		LotCode:     lotCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.s.entries[e.ID] = e
	return nil
}

func (v *entryView) SubtractLot(_ context.Context, productID, warehouseID, lotCode string, qty int64) (bool, error) {
	e := v.findLot(productID, warehouseID, lotCode)
	if e == nil || e.Quantity < qty {
		return false, nil
	}
	e.Quantity -= qty
	e.UpdatedAt = time.Now()
	return true, nil
}

func (v *entryView) SubtractFEFO(_ context.Context, productID, warehouseID string, qty int64, now time.Time) (bool, error) {
	var best *entity.StockEntry
	for _, e := range v.s.entries {
		if e.ProductID != productID || e.WarehouseID != warehouseID || e.ExpirationDate == nil {
			continue
		}
		if !e.ExpirationDate.After(now) || e.Quantity < qty {
			continue
		}
		if best == nil || e.ExpirationDate.Before(*best.ExpirationDate) {
			best = e
		}
	}
	if best == nil {
		return false, nil
	}
	best.Quantity -= qty
	best.UpdatedAt = time.Now()
	return true, nil
}

func containsAll(haystack, needles []string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, s := range haystack {
		set[s] = struct{}{}
	}
	for _, s := range needles {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}

// lockedEntries versión con lock propio, equivalente a un repo sobre el pool.
type lockedEntries struct{ s *Store }

func (r *lockedEntries) TotalQuantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).TotalQuantity(ctx, productID, warehouseID)
}

func (r *lockedEntries) List(ctx context.Context, productID, warehouseID string) ([]*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).List(ctx, productID, warehouseID)
}

func (r *lockedEntries) AddSimple(ctx context.Context, productID, warehouseID string, qty int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).AddSimple(ctx, productID, warehouseID, qty)
}

func (r *lockedEntries) SubtractSimple(ctx context.Context, productID, warehouseID string, qty int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).SubtractSimple(ctx, productID, warehouseID, qty)
}

func (r *lockedEntries) SerialsInUse(ctx context.Context, productID string, serials []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).SerialsInUse(ctx, productID, serials)
}

func (r *lockedEntries) CreateEntry(ctx context.Context, entry *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).CreateEntry(ctx, entry)
}

func (r *lockedEntries) RemoveBySerials(ctx context.Context, productID, warehouseID string, serials []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).RemoveBySerials(ctx, productID, warehouseID, serials)
}

func (r *lockedEntries) AddLot(ctx context.Context, productID, warehouseID, lotCode string, qty int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).AddLot(ctx, productID, warehouseID, lotCode, qty)
}

func (r *lockedEntries) SubtractLot(ctx context.Context, productID, warehouseID, lotCode string, qty int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).SubtractLot(ctx, productID, warehouseID, lotCode, qty)
}

func (r *lockedEntries) SubtractFEFO(ctx context.Context, productID, warehouseID string, qty int64, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&entryView{r.s}).SubtractFEFO(ctx, productID, warehouseID, qty, now)
}
