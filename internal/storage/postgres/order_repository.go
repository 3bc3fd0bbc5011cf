package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/expirians/storefront/internal/domain"
	"github.com/expirians/storefront/internal/storage"
)

type orderRepository struct {
	q querier
}

// NewOrderRepository создаёт PostgreSQL-реализацию domain.OrderRepository
// для read-путей. Записи заказов идут через единицу работы, которая выдаёт
// репозиторий, привязанный к транзакции.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{q: store.DB()}
}

// Create вставляет заказ и его позиции. Атомарность всей операции
// обеспечивает объемлющая транзакция единицы работы.
func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (
			id, placed_at, shipping_address, billing_address, notes,
			customer_id, status, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		order.ID, order.PlacedAt, order.ShippingAddress, order.BillingAddress, order.Notes,
		order.CustomerID, string(order.Status), order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolationConstraint(err); ok {
			return domain.ErrDuplicateEntity
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, quantity, unit_price_minor
			) VALUES ($1,$2,$3,$4,$5)
		`,
			item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPriceMinor,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

// Get возвращает заказ, догружая запрошенные связи.
func (r *orderRepository) Get(ctx context.Context, id string, relations ...storage.Relation) (domain.Order, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var (
		order  domain.Order
		status string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, placed_at, shipping_address, billing_address, notes,
		       customer_id, status, version, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.PlacedAt, &order.ShippingAddress, &order.BillingAddress, &order.Notes,
		&order.CustomerID, &status, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	if err := r.attachRelations(ctx, &order, relations); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// List возвращает заказы по фильтру, свежие первыми.
func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter, relations ...storage.Relation) ([]domain.Order, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var (
		conds []string
		args  []any
	)
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `
		SELECT id, placed_at, shipping_address, billing_address, notes,
		       customer_id, status, version, created_at, updated_at
		FROM orders
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order  domain.Order
			status string
		)
		if err := rows.Scan(
			&order.ID, &order.PlacedAt, &order.ShippingAddress, &order.BillingAddress, &order.Notes,
			&order.CustomerID, &status, &order.Version, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		if err := r.attachRelations(ctx, &orders[i], relations); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus перезаписывает статус с проверкой версии (optimistic locking).
func (r *orderRepository) UpdateStatus(ctx context.Context, order domain.Order) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3
		  AND version = $4
	`,
		string(order.Status), order.UpdatedAt, order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.orderExists(ctx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrOrderVersionConflict
	}

	return nil
}

// attachRelations догружает позиции и (опционально) продукты позиций.
// Теги типизированы, поэтому сюда попадают только известные связи.
func (r *orderRepository) attachRelations(ctx context.Context, order *domain.Order, relations []storage.Relation) error {
	loadItems, loadProducts := false, false
	for _, rel := range relations {
		switch rel {
		case domain.RelationOrderItems:
			loadItems = true
		case domain.RelationItemProducts:
			loadItems = true
			loadProducts = true
		default:
			return storage.ErrUnknownRelation
		}
	}
	if !loadItems {
		return nil
	}

	items, err := r.loadItems(ctx, order.ID, loadProducts)
	if err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string, withProducts bool) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price_minor
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`
	if withProducts {
		query = `
			SELECT i.id, i.order_id, i.product_id, i.quantity, i.unit_price_minor,
			       p.sku, p.internal_code, p.name, p.description,
			       p.unit_price_minor, p.stock_quantity, p.active, p.created_at, p.updated_at
			FROM order_items i
			JOIN products p ON p.id = i.product_id
			WHERE i.order_id = $1
			ORDER BY i.id ASC
		`
	}

	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if withProducts {
			var p productRow
			if err := rows.Scan(
				&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPriceMinor,
				&p.sku, &p.internalCode, &p.name, &p.description,
				&p.unitPriceMinor, &p.stockQuantity, &p.active, &p.createdAt, &p.updatedAt,
			); err != nil {
				return nil, fmt.Errorf("scan order item with product: %w", err)
			}
			p.id = item.ProductID
			product := p.toDomain()
			item.Product = &product
		} else {
			if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPriceMinor); err != nil {
				return nil, fmt.Errorf("scan order item: %w", err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExists(ctx context.Context, orderID string) (bool, error) {
	var id string
	err := r.q.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
