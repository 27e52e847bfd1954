package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

const bookSelect = `
SELECT id, title, author, category, description, price, stock, image_url,
       publisher, publish_date, distributor, dimensions, pages, weight,
       created_at, updated_at
FROM books`

// ListBooks returns one page of the catalog, filtered by search, category and
// author. Page numbers start at 1.
func (s *Store) ListBooks(ctx context.Context, filter storage.BookFilter) (api.BookPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	var (
		clauses []string
		args    []any
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		clauses = append(clauses, `(title LIKE ? OR author LIKE ?)`)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Category != "" {
		clauses = append(clauses, `category = ?`)
		args = append(args, filter.Category)
	}
	if filter.Author != "" {
		clauses = append(clauses, `author = ?`)
		args = append(args, filter.Author)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&total); err != nil {
		return api.BookPage{}, fmt.Errorf("count books: %w", err)
	}

	listArgs := append(append([]any{}, args...), perPage, (page-1)*perPage)
	rows, err := s.sqlDB.QueryContext(ctx,
		bookSelect+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return api.BookPage{}, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []api.Book{}
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return api.BookPage{}, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return api.BookPage{}, err
	}

	pages := (total + perPage - 1) / perPage
	return api.BookPage{Books: books, Total: total, Page: page, PerPage: perPage, Pages: pages}, nil
}

// GetBook loads one catalog entry by id.
func (s *Store) GetBook(ctx context.Context, id int) (api.Book, error) {
	row := s.sqlDB.QueryRowContext(ctx, bookSelect+` WHERE id = ?`, id)
	return scanBook(row.Scan)
}

// CreateBook inserts one catalog entry.
func (s *Store) CreateBook(ctx context.Context, input api.BookInput) (api.Book, error) {
	now := toMillis(s.now())
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO books (title, author, category, description, price, stock, image_url,
                   publisher, publish_date, distributor, dimensions, pages, weight,
                   created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, input.Title, input.Author, input.Category, input.Description, input.Price, input.Stock,
		input.ImageURL, input.Publisher, input.PublishDate, input.Distributor,
		input.Dimensions, input.Pages, input.Weight, now, now)
	if err != nil {
		return api.Book{}, fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Book{}, fmt.Errorf("book insert id: %w", err)
	}
	return s.GetBook(ctx, int(id))
}

// UpdateBook replaces the writable fields of one catalog entry.
func (s *Store) UpdateBook(ctx context.Context, id int, input api.BookInput) (api.Book, error) {
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE books
SET title = ?, author = ?, category = ?, description = ?, price = ?, stock = ?,
    image_url = ?, publisher = ?, publish_date = ?, distributor = ?, dimensions = ?,
    pages = ?, weight = ?, updated_at = ?
WHERE id = ?
`, input.Title, input.Author, input.Category, input.Description, input.Price, input.Stock,
		input.ImageURL, input.Publisher, input.PublishDate, input.Distributor,
		input.Dimensions, input.Pages, input.Weight, toMillis(s.now()), id)
	if err != nil {
		return api.Book{}, fmt.Errorf("update book: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return api.Book{}, storage.ErrNotFound
	}
	return s.GetBook(ctx, id)
}

// DeleteBook removes one catalog entry.
func (s *Store) DeleteBook(ctx context.Context, id int) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanBook(scan func(...any) error) (api.Book, error) {
	var (
		book      api.Book
		createdAt int64
		updatedAt int64
	)
	err := scan(&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
		&book.Price, &book.Stock, &book.ImageURL, &book.Publisher, &book.PublishDate,
		&book.Distributor, &book.Dimensions, &book.Pages, &book.Weight,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Book{}, storage.ErrNotFound
		}
		return api.Book{}, fmt.Errorf("scan book: %w", err)
	}
	book.CreatedAt = formatMillis(createdAt)
	book.UpdatedAt = formatMillis(updatedAt)
	return book, nil
}
