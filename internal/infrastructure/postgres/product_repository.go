package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, description, tracking_kind, is_variant_parent, parent_id, unit_measure, active, created_at, updated_at`

// Create persiste un producto nuevo. El SKU es único.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description,
		product.TrackingKind, product.IsVariantParent, nullIfEmpty(product.ParentID),
		product.UnitMeasure, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var parentID *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.TrackingKind,
		&p.IsVariantParent, &parentID, &p.UnitMeasure, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if parentID != nil {
		p.ParentID = *parentID
	}
	return &p, nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetBySKU obtiene un producto por SKU; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, sku))
}

// List lista productos con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR tracking_kind = $1)
		  AND (NOT $2 OR active)
		  AND ($3 = '' OR sku ILIKE '%' || $3 || '%' OR name ILIKE '%' || $3 || '%')
		ORDER BY sku
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query,
		string(filter.TrackingKind), filter.OnlyActive, filter.Search,
		filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var parentID *string
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Description, &p.TrackingKind,
			&p.IsVariantParent, &parentID, &p.UnitMeasure, &p.Active,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if parentID != nil {
			p.ParentID = *parentID
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET sku = $2, name = $3, description = $4, unit_measure = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description,
		product.UnitMeasure, product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SoftDelete desactiva el producto sin borrar el historial que lo referencia.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}
