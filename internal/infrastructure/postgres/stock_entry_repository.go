package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL
// (usable con pool o tx). Las restas son UPDATE/DELETE condicionales: la
// comparación de suficiencia va en el WHERE y el resultado se lee de
// RowsAffected, así dos restas concurrentes nunca pasan ambas el chequeo.
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// TotalQuantity suma las cantidades de todas las entradas de (producto, bodega).
func (r *StockEntryRepo) TotalQuantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_entries
		WHERE product_id = $1 AND warehouse_id = $2`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total quantity: %w", err)
	}
	return total, nil
}

// List devuelve las entradas de un producto; warehouseID vacío = todas las bodegas.
func (r *StockEntryRepo) List(ctx context.Context, productID, warehouseID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity, serial_numbers, lot_code, expiration_date, created_at, updated_at
		FROM stock_entries
		WHERE product_id = $1 AND ($2 = '' OR warehouse_id = $2)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		var lotCode *string
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.WarehouseID, &e.Quantity,
			&e.SerialNumbers, &lotCode, &e.ExpirationDate,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		if lotCode != nil {
			e.LotCode = *lotCode
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// AddSimple upsert atómico sobre la entrada agregada de (producto, bodega).
// El ON CONFLICT apunta al índice único parcial de entradas sin discriminantes.
func (r *StockEntryRepo) AddSimple(ctx context.Context, productID, warehouseID string, qty int64) error {
	query := `
		INSERT INTO stock_entries (id, product_id, warehouse_id, quantity, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, now(), now())
		ON CONFLICT (product_id, warehouse_id)
		WHERE serial_numbers IS NULL AND lot_code IS NULL AND expiration_date IS NULL
		DO UPDATE SET quantity = stock_entries.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productID, warehouseID, qty); err != nil {
		return fmt.Errorf("add simple stock: %w", err)
	}
	return nil
}

// SubtractSimple resta condicional atómica: solo si quantity >= qty.
func (r *StockEntryRepo) SubtractSimple(ctx context.Context, productID, warehouseID string, qty int64) (bool, error) {
	query := `
		UPDATE stock_entries
		SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2
		  AND serial_numbers IS NULL AND lot_code IS NULL AND expiration_date IS NULL
		  AND quantity >= $3`
	tag, err := r.q.Exec(ctx, query, productID, warehouseID, qty)
	if err != nil {
		return false, fmt.Errorf("subtract simple stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SerialsInUse reporta si algún serial solicitado ya existe para el producto
// (operador de solapamiento de arrays &&).
func (r *StockEntryRepo) SerialsInUse(ctx context.Context, productID string, serials []string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_entries
			WHERE product_id = $1 AND serial_numbers && $2
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, productID, serials).Scan(&exists); err != nil {
		return false, fmt.Errorf("serials in use: %w", err)
	}
	return exists, nil
}

// CreateEntry inserta una entrada nueva (serializada o perecedera).
func (r *StockEntryRepo) CreateEntry(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (id, product_id, warehouse_id, quantity, serial_numbers, lot_code, expiration_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var serials any
	if len(entry.SerialNumbers) > 0 {
		serials = entry.SerialNumbers
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ProductID, entry.WarehouseID, entry.Quantity,
		serials, nullIfEmpty(entry.LotCode), entry.ExpirationDate,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

// RemoveBySerials elimina atómicamente una sola entrada cuyo set de seriales
// contenga todos los solicitados (operador de contención @>).
func (r *StockEntryRepo) RemoveBySerials(ctx context.Context, productID, warehouseID string, serials []string) (bool, error) {
	query := `
		DELETE FROM stock_entries
		WHERE id = (
			SELECT id FROM stock_entries
			WHERE product_id = $1 AND warehouse_id = $2 AND serial_numbers @> $3
			ORDER BY created_at, id
			LIMIT 1
			FOR UPDATE
		)`
	tag, err := r.q.Exec(ctx, query, productID, warehouseID, serials)
	if err != nil {
		return false, fmt.Errorf("remove by serials: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddLot upsert atómico sobre la entrada (producto, bodega, lote).
func (r *StockEntryRepo) AddLot(ctx context.Context, productID, warehouseID, lotCode string, qty int64) error {
	query := `
		INSERT INTO stock_entries (id, product_id, warehouse_id, quantity, lot_code, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $4, $3, now(), now())
		ON CONFLICT (product_id, warehouse_id, lot_code)
		WHERE lot_code IS NOT NULL
		DO UPDATE SET quantity = stock_entries.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productID, warehouseID, lotCode, qty); err != nil {
		return fmt.Errorf("add lot stock: %w", err)
	}
	return nil
}

// SubtractLot resta condicional atómica sobre la entrada del lote.
func (r *StockEntryRepo) SubtractLot(ctx context.Context, productID, warehouseID, lotCode string, qty int64) (bool, error) {
	query := `
		UPDATE stock_entries
		SET quantity = quantity - $4, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND lot_code = $3
		  AND quantity >= $4`
	tag, err := r.q.Exec(ctx, query, productID, warehouseID, lotCode, qty)
	if err != nil {
		return false, fmt.Errorf("subtract lot stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SubtractFEFO elige la entrada vigente con vencimiento más próximo y
// cantidad suficiente, y la decrementa. El quantity >= $3 exterior repite la
// condición por si otra transacción consumió la fila entre el SELECT y el
// UPDATE.
func (r *StockEntryRepo) SubtractFEFO(ctx context.Context, productID, warehouseID string, qty int64, now time.Time) (bool, error) {
	query := `
		UPDATE stock_entries
		SET quantity = quantity - $3, updated_at = now()
		WHERE id = (
			SELECT id FROM stock_entries
			WHERE product_id = $1 AND warehouse_id = $2
			  AND expiration_date IS NOT NULL AND expiration_date > $4
			  AND quantity >= $3
			ORDER BY expiration_date, id
			LIMIT 1
			FOR UPDATE
		) AND quantity >= $3`
	tag, err := r.q.Exec(ctx, query, productID, warehouseID, qty, now)
	if err != nil {
		return false, fmt.Errorf("subtract fefo stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
