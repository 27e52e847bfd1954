// Package sqlite implements bookstore persistence over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/duynhne/bookstored/internal/platform/storage/sqlitemigrate"
	"github.com/duynhne/bookstored/internal/devserver/storage"
	"github.com/duynhne/bookstored/internal/devserver/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store implements storage.Store over a single SQLite file.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func formatMillis(value int64) string {
	return fromMillis(value).Format(time.RFC3339)
}

// Open opens a bookstore SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, clock: time.Now}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func (s *Store) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// CreateUser inserts one account row.
func (s *Store) CreateUser(ctx context.Context, user storage.User) (storage.User, error) {
	now := s.now()
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, full_name, role, is_active, customer_code, staff_code, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, boolToInt(user.IsActive), user.CustomerCode, user.StaffCode, toMillis(now))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.User{}, storage.ErrConflict
		}
		return storage.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.User{}, fmt.Errorf("user insert id: %w", err)
	}
	user.ID = int(id)
	user.CreatedAt = now.UTC()
	return user, nil
}

// GetUserByID loads one account row by id.
func (s *Store) GetUserByID(ctx context.Context, id int) (storage.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id)
	return scanUser(row.Scan)
}

// GetUserByUsername loads one account row by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, userSelect+` WHERE username = ?`, username)
	return scanUser(row.Scan)
}

// ListUsers returns every account row, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]storage.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx, userSelect+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetUserActive flips one account's active flag.
func (s *Store) SetUserActive(ctx context.Context, id int, active bool) (storage.User, error) {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return storage.User{}, fmt.Errorf("update user active flag: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.User{}, storage.ErrNotFound
	}
	return s.GetUserByID(ctx, id)
}

// UpdateUserProfile replaces the mutable profile fields. Nil fields are left
// unchanged.
func (s *Store) UpdateUserProfile(ctx context.Context, id int, fullName, email *string) (storage.User, error) {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return storage.User{}, err
	}
	if fullName != nil {
		current.FullName = *fullName
	}
	if email != nil {
		current.Email = *email
	}
	_, err = s.sqlDB.ExecContext(ctx, `UPDATE users SET full_name = ?, email = ? WHERE id = ?`,
		current.FullName, current.Email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.User{}, storage.ErrConflict
		}
		return storage.User{}, fmt.Errorf("update user profile: %w", err)
	}
	return current, nil
}

const userSelect = `
SELECT id, username, email, password_hash, full_name, role, is_active, customer_code, staff_code, created_at
FROM users`

func scanUser(scan func(...any) error) (storage.User, error) {
	var (
		user      storage.User
		active    int
		createdAt int64
	)
	err := scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FullName,
		&user.Role, &active, &user.CustomerCode, &user.StaffCode, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.IsActive = active != 0
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
