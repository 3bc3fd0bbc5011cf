package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expirians/storefront/internal/domain"
)

// productRow — промежуточное представление строки products.
// Продукт восстанавливается через domain.RestoreProduct, минуя повторную
// проверку инвариантов: их гарантируют CHECK-ограничения схемы.
type productRow struct {
	id             string
	sku            string
	internalCode   string
	name           string
	description    string
	unitPriceMinor int64
	stockQuantity  int32
	active         bool
	createdAt      time.Time
	updatedAt      time.Time
}

func (row productRow) toDomain() domain.Product {
	return domain.RestoreProduct(
		row.id, row.sku, row.internalCode, row.name, row.description,
		row.unitPriceMinor, row.stockQuantity, row.active, row.createdAt, row.updatedAt,
	)
}

type productRepository struct {
	q querier
}

// NewProductRepository создаёт PostgreSQL-реализацию domain.ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{q: store.DB()}
}

// Create вставляет продукт; коллизия SKU отображается в ErrDuplicateSKU.
func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (
			id, sku, internal_code, name, description,
			unit_price_minor, stock_quantity, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		product.ID, product.SKU, product.InternalCode, product.Name, product.Description,
		product.UnitPriceMinor(), product.StockQuantity(), product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok {
			if strings.Contains(constraint, "sku") {
				return domain.ErrDuplicateSKU
			}
			return domain.ErrDuplicateEntity
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Get возвращает продукт или ErrProductNotFound.
func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	row := productRow{id: id}
	err := r.q.QueryRowContext(ctx, `
		SELECT sku, internal_code, name, description,
		       unit_price_minor, stock_quantity, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&row.sku, &row.internalCode, &row.name, &row.description,
		&row.unitPriceMinor, &row.stockQuantity, &row.active, &row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return row.toDomain(), nil
}

// List возвращает продукты каталога; activeOnly ограничивает активными.
func (r *productRepository) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `
		SELECT id, sku, internal_code, name, description,
		       unit_price_minor, stock_quantity, active, created_at, updated_at
		FROM products
	`
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY sku ASC"

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var row productRow
		if err := rows.Scan(
			&row.id, &row.sku, &row.internalCode, &row.name, &row.description,
			&row.unitPriceMinor, &row.stockQuantity, &row.active, &row.createdAt, &row.updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// Update перезаписывает продукт.
func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET sku = $1,
		    internal_code = $2,
		    name = $3,
		    description = $4,
		    unit_price_minor = $5,
		    stock_quantity = $6,
		    active = $7,
		    updated_at = $8
		WHERE id = $9
	`,
		product.SKU, product.InternalCode, product.Name, product.Description,
		product.UnitPriceMinor(), product.StockQuantity(), product.Active, product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok && strings.Contains(constraint, "sku") {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock списывает сток одним условным UPDATE: проверка остатка
// и запись неразделимы, поэтому конкурентные заказы не уводят сток в минус.
func (r *productRepository) DecrementStock(ctx context.Context, productID string, qty int32) error {
	if qty <= 0 {
		return domain.ErrItemQtyInvalid
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1,
		    updated_at = NOW()
		WHERE id = $2
		  AND stock_quantity >= $1
	`, qty, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.productExists(ctx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) productExists(ctx context.Context, productID string) (bool, error) {
	var id string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, productID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check product exists: %w", err)
}

var _ domain.ProductRepository = (*productRepository)(nil)
