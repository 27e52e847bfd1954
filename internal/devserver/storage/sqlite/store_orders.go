package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

const orderSelect = `
SELECT id, user_id, total_amount, status, payment_status, shipping_address, created_at, updated_at
FROM orders`

// CreateOrder places an order from the user's current cart in one
// transaction: it re-checks stock, writes the order and its items, decrements
// stock, and clears the cart. An empty cart or insufficient stock aborts the
// whole order.
func (s *Store) CreateOrder(ctx context.Context, userID int, shippingAddress string) (api.Order, error) {
	items, err := s.ListCartItems(ctx, userID)
	if err != nil {
		return api.Order{}, err
	}
	if len(items) == 0 {
		return api.Order{}, fmt.Errorf("cart is empty")
	}

	var total float64
	for _, item := range items {
		if item.Quantity > item.Book.Stock {
			return api.Order{}, fmt.Errorf("not enough stock for %q", item.Book.Title)
		}
		total += item.Book.Price * float64(item.Quantity)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return api.Order{}, fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(s.now())
	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (user_id, total_amount, status, payment_status, shipping_address, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, userID, total, api.OrderPending, "pending", shippingAddress, now, now)
	if err != nil {
		return api.Order{}, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return api.Order{}, fmt.Errorf("order insert id: %w", err)
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, book_id, quantity, price)
VALUES (?, ?, ?, ?)
`, orderID, item.BookID, item.Quantity, item.Book.Price)
		if err != nil {
			return api.Order{}, fmt.Errorf("insert order item: %w", err)
		}

		stockRes, err := tx.ExecContext(ctx, `
UPDATE books SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?
`, item.Quantity, now, item.BookID, item.Quantity)
		if err != nil {
			return api.Order{}, fmt.Errorf("decrement stock: %w", err)
		}
		if affected, err := stockRes.RowsAffected(); err == nil && affected == 0 {
			return api.Order{}, fmt.Errorf("not enough stock for %q", item.Book.Title)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return api.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return api.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return s.getOrder(ctx, int(orderID))
}

// ListOrdersByUser returns one user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int) ([]api.Order, error) {
	return s.listOrders(ctx, orderSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// GetOrderForUser loads one order, refusing orders owned by other users.
func (s *Store) GetOrderForUser(ctx context.Context, userID, orderID int) (api.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return api.Order{}, err
	}
	if order.UserID != userID {
		return api.Order{}, storage.ErrNotFound
	}
	return order, nil
}

// ListAllOrders returns every order, newest first.
func (s *Store) ListAllOrders(ctx context.Context) ([]api.Order, error) {
	return s.listOrders(ctx, orderSelect+` ORDER BY created_at DESC, id DESC`)
}

// UpdateOrderStatus patches order and payment status. Nil fields are left
// unchanged.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int, status, paymentStatus *string) (api.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return api.Order{}, err
	}
	if status != nil {
		order.Status = *status
	}
	if paymentStatus != nil {
		order.PaymentStatus = *paymentStatus
	}
	_, err = s.sqlDB.ExecContext(ctx, `
UPDATE orders SET status = ?, payment_status = ?, updated_at = ? WHERE id = ?
`, order.Status, order.PaymentStatus, toMillis(s.now()), orderID)
	if err != nil {
		return api.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return s.getOrder(ctx, orderID)
}

func (s *Store) getOrder(ctx context.Context, id int) (api.Order, error) {
	row := s.sqlDB.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id)
	order, err := scanOrder(row.Scan)
	if err != nil {
		return api.Order{}, err
	}
	items, err := s.listOrderItems(ctx, order.ID)
	if err != nil {
		return api.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]api.Order, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []api.Order{}
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.listOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) listOrderItems(ctx context.Context, orderID int) ([]api.OrderItem, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT oi.id, oi.order_id, oi.book_id, oi.quantity, oi.price,
       b.id, b.title, b.author, b.category, b.description, b.price, b.stock, b.image_url,
       b.publisher, b.publish_date, b.distributor, b.dimensions, b.pages, b.weight,
       b.created_at, b.updated_at
FROM order_items oi
JOIN books b ON b.id = oi.book_id
WHERE oi.order_id = ?
ORDER BY oi.id ASC
`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []api.OrderItem{}
	for rows.Next() {
		var (
			item          api.OrderItem
			bookCreatedAt int64
			bookUpdatedAt int64
		)
		book := &item.Book
		err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Quantity, &item.Price,
			&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
			&book.Price, &book.Stock, &book.ImageURL, &book.Publisher, &book.PublishDate,
			&book.Distributor, &book.Dimensions, &book.Pages, &book.Weight,
			&bookCreatedAt, &bookUpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		book.CreatedAt = formatMillis(bookCreatedAt)
		book.UpdatedAt = formatMillis(bookUpdatedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(scan func(...any) error) (api.Order, error) {
	var (
		order     api.Order
		createdAt int64
		updatedAt int64
	)
	err := scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status,
		&order.PaymentStatus, &order.ShippingAddress, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Order{}, storage.ErrNotFound
		}
		return api.Order{}, fmt.Errorf("scan order: %w", err)
	}
	order.CreatedAt = formatMillis(createdAt)
	order.UpdatedAt = formatMillis(updatedAt)
	return order, nil
}
