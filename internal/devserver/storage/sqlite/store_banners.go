package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

const bannerSelect = `
SELECT id, title, image_url, link_url, position, is_active, sort_order, created_at, updated_at
FROM banners`

// ListActiveBanners returns the active banners of one position in display
// order. An empty position returns every active banner.
func (s *Store) ListActiveBanners(ctx context.Context, position string) ([]api.Banner, error) {
	query := bannerSelect + ` WHERE is_active = 1`
	args := []any{}
	if position != "" {
		query += ` AND position = ?`
		args = append(args, position)
	}
	query += ` ORDER BY sort_order ASC, id ASC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active banners: %w", err)
	}
	defer rows.Close()
	return collectBanners(rows)
}

// ListBanners returns one page of all banners for the admin console.
func (s *Store) ListBanners(ctx context.Context, page, perPage int) (api.BannerPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var total int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM banners`).Scan(&total); err != nil {
		return api.BannerPage{}, fmt.Errorf("count banners: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		bannerSelect+` ORDER BY sort_order ASC, id ASC LIMIT ? OFFSET ?`, perPage, (page-1)*perPage)
	if err != nil {
		return api.BannerPage{}, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	banners, err := collectBanners(rows)
	if err != nil {
		return api.BannerPage{}, err
	}
	pages := (total + perPage - 1) / perPage
	return api.BannerPage{Banners: banners, Total: total, Page: page, PerPage: perPage, Pages: pages}, nil
}

// GetBanner loads one banner by id.
func (s *Store) GetBanner(ctx context.Context, id int) (api.Banner, error) {
	row := s.sqlDB.QueryRowContext(ctx, bannerSelect+` WHERE id = ?`, id)
	return scanBanner(row.Scan)
}

// CreateBanner inserts one banner.
func (s *Store) CreateBanner(ctx context.Context, input api.BannerInput) (api.Banner, error) {
	now := toMillis(s.now())
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO banners (title, image_url, link_url, position, is_active, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, input.Title, input.ImageURL, input.LinkURL, input.Position, boolToInt(input.IsActive), input.SortOrder, now, now)
	if err != nil {
		return api.Banner{}, fmt.Errorf("insert banner: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Banner{}, fmt.Errorf("banner insert id: %w", err)
	}
	return s.GetBanner(ctx, int(id))
}

// UpdateBanner replaces the writable fields of one banner.
func (s *Store) UpdateBanner(ctx context.Context, id int, input api.BannerInput) (api.Banner, error) {
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE banners
SET title = ?, image_url = ?, link_url = ?, position = ?, is_active = ?, sort_order = ?, updated_at = ?
WHERE id = ?
`, input.Title, input.ImageURL, input.LinkURL, input.Position, boolToInt(input.IsActive),
		input.SortOrder, toMillis(s.now()), id)
	if err != nil {
		return api.Banner{}, fmt.Errorf("update banner: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return api.Banner{}, storage.ErrNotFound
	}
	return s.GetBanner(ctx, id)
}

// DeleteBanner removes one banner.
func (s *Store) DeleteBanner(ctx context.Context, id int) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM banners WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ToggleBanner flips one banner's active flag.
func (s *Store) ToggleBanner(ctx context.Context, id int) (api.Banner, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE banners SET is_active = 1 - is_active, updated_at = ? WHERE id = ?`, toMillis(s.now()), id)
	if err != nil {
		return api.Banner{}, fmt.Errorf("toggle banner: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return api.Banner{}, storage.ErrNotFound
	}
	return s.GetBanner(ctx, id)
}

// Statistics aggregates the admin dashboard numbers.
func (s *Store) Statistics(ctx context.Context) (api.Statistics, error) {
	var stats api.Statistics

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT (SELECT COUNT(*) FROM users),
       (SELECT COUNT(*) FROM books),
       (SELECT COUNT(*) FROM orders),
       (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled'),
       (SELECT COUNT(*) FROM orders WHERE status = 'pending')
`)
	err := row.Scan(&stats.TotalUsers, &stats.TotalBooks, &stats.TotalOrders,
		&stats.TotalRevenue, &stats.PendingOrders)
	if err != nil {
		return api.Statistics{}, fmt.Errorf("scan statistics: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT b.id, b.title, b.author, SUM(oi.quantity), SUM(oi.quantity * oi.price)
FROM order_items oi
JOIN books b ON b.id = oi.book_id
JOIN orders o ON o.id = oi.order_id
WHERE o.status != 'cancelled'
GROUP BY b.id, b.title, b.author
ORDER BY SUM(oi.quantity) DESC, b.id ASC
LIMIT 5
`)
	if err != nil {
		return api.Statistics{}, fmt.Errorf("list top books: %w", err)
	}
	defer rows.Close()

	stats.TopBooks = []api.TopBook{}
	for rows.Next() {
		var top api.TopBook
		if err := rows.Scan(&top.ID, &top.Title, &top.Author, &top.TotalSold, &top.Revenue); err != nil {
			return api.Statistics{}, fmt.Errorf("scan top book: %w", err)
		}
		stats.TopBooks = append(stats.TopBooks, top)
	}
	if err := rows.Err(); err != nil {
		return api.Statistics{}, err
	}

	recent, err := s.listOrders(ctx, orderSelect+` ORDER BY created_at DESC, id DESC LIMIT 10`)
	if err != nil {
		return api.Statistics{}, err
	}
	stats.RecentOrders = recent
	return stats, nil
}

func collectBanners(rows *sql.Rows) ([]api.Banner, error) {
	banners := []api.Banner{}
	for rows.Next() {
		banner, err := scanBanner(rows.Scan)
		if err != nil {
			return nil, err
		}
		banners = append(banners, banner)
	}
	return banners, rows.Err()
}

func scanBanner(scan func(...any) error) (api.Banner, error) {
	var (
		banner    api.Banner
		active    int
		createdAt int64
		updatedAt int64
	)
	err := scan(&banner.ID, &banner.Title, &banner.ImageURL, &banner.LinkURL,
		&banner.Position, &active, &banner.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Banner{}, storage.ErrNotFound
		}
		return api.Banner{}, fmt.Errorf("scan banner: %w", err)
	}
	banner.IsActive = active != 0
	banner.CreatedAt = formatMillis(createdAt)
	banner.UpdatedAt = formatMillis(updatedAt)
	return banner, nil
}
