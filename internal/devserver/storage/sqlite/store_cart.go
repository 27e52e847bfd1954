package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

const cartItemSelect = `
SELECT ci.id, ci.user_id, ci.book_id, ci.quantity, ci.created_at,
       b.id, b.title, b.author, b.category, b.description, b.price, b.stock, b.image_url,
       b.publisher, b.publish_date, b.distributor, b.dimensions, b.pages, b.weight,
       b.created_at, b.updated_at
FROM cart_items ci
JOIN books b ON b.id = ci.book_id`

// ListCartItems returns every cart line of one user, oldest first.
func (s *Store) ListCartItems(ctx context.Context, userID int) ([]api.CartItem, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		cartItemSelect+` WHERE ci.user_id = ? ORDER BY ci.created_at ASC, ci.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []api.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetCartItem loads one cart line by id.
func (s *Store) GetCartItem(ctx context.Context, id int) (api.CartItem, error) {
	row := s.sqlDB.QueryRowContext(ctx, cartItemSelect+` WHERE ci.id = ?`, id)
	return scanCartItem(row.Scan)
}

// GetCartItemByUserAndBook loads the cart line a user holds for one book.
func (s *Store) GetCartItemByUserAndBook(ctx context.Context, userID, bookID int) (api.CartItem, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		cartItemSelect+` WHERE ci.user_id = ? AND ci.book_id = ?`, userID, bookID)
	return scanCartItem(row.Scan)
}

// CreateCartItem inserts one cart line.
func (s *Store) CreateCartItem(ctx context.Context, userID, bookID, quantity int) (api.CartItem, error) {
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO cart_items (user_id, book_id, quantity, created_at)
VALUES (?, ?, ?, ?)
`, userID, bookID, quantity, toMillis(s.now()))
	if err != nil {
		if isUniqueViolation(err) {
			return api.CartItem{}, storage.ErrConflict
		}
		return api.CartItem{}, fmt.Errorf("insert cart item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.CartItem{}, fmt.Errorf("cart item insert id: %w", err)
	}
	return s.GetCartItem(ctx, int(id))
}

// UpdateCartItemQuantity replaces the quantity of one cart line.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, id, quantity int) (api.CartItem, error) {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return api.CartItem{}, fmt.Errorf("update cart item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return api.CartItem{}, storage.ErrNotFound
	}
	return s.GetCartItem(ctx, id)
}

// DeleteCartItem removes one cart line.
func (s *Store) DeleteCartItem(ctx context.Context, id int) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanCartItem(scan func(...any) error) (api.CartItem, error) {
	var (
		item          api.CartItem
		createdAt     int64
		bookCreatedAt int64
		bookUpdatedAt int64
	)
	book := &item.Book
	err := scan(&item.ID, &item.UserID, &item.BookID, &item.Quantity, &createdAt,
		&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
		&book.Price, &book.Stock, &book.ImageURL, &book.Publisher, &book.PublishDate,
		&book.Distributor, &book.Dimensions, &book.Pages, &book.Weight,
		&bookCreatedAt, &bookUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.CartItem{}, storage.ErrNotFound
		}
		return api.CartItem{}, fmt.Errorf("scan cart item: %w", err)
	}
	item.CreatedAt = formatMillis(createdAt)
	book.CreatedAt = formatMillis(bookCreatedAt)
	book.UpdatedAt = formatMillis(bookUpdatedAt)
	return item, nil
}
