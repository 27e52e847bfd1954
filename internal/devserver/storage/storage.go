// Package storage defines the persistence boundary for the local bookstore
// API server.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/duynhne/bookstored/internal/api"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates a write violated a uniqueness constraint.
var ErrConflict = errors.New("record already exists")

// User is one account row, including the credential hash that never leaves
// the storage layer on the wire.
type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	CustomerCode string
	StaffCode    string
	CreatedAt    time.Time
}

// API converts the row to its wire representation.
func (u User) API() api.User {
	return api.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CustomerCode: u.CustomerCode,
		StaffCode:    u.StaffCode,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// BookFilter narrows and pages the catalog listing.
type BookFilter struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	Author   string
}

// Store is the persistence contract consumed by the HTTP handlers.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByID(ctx context.Context, id int) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserActive(ctx context.Context, id int, active bool) (User, error)
	UpdateUserProfile(ctx context.Context, id int, fullName, email *string) (User, error)

	// Books
	ListBooks(ctx context.Context, filter BookFilter) (api.BookPage, error)
	GetBook(ctx context.Context, id int) (api.Book, error)
	CreateBook(ctx context.Context, input api.BookInput) (api.Book, error)
	UpdateBook(ctx context.Context, id int, input api.BookInput) (api.Book, error)
	DeleteBook(ctx context.Context, id int) error

	// Cart
	ListCartItems(ctx context.Context, userID int) ([]api.CartItem, error)
	GetCartItem(ctx context.Context, id int) (api.CartItem, error)
	GetCartItemByUserAndBook(ctx context.Context, userID, bookID int) (api.CartItem, error)
	CreateCartItem(ctx context.Context, userID, bookID, quantity int) (api.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id, quantity int) (api.CartItem, error)
	DeleteCartItem(ctx context.Context, id int) error

	// Orders. CreateOrder atomically writes the order and its items,
	// decrements stock, and clears the buyer's cart.
	CreateOrder(ctx context.Context, userID int, shippingAddress string) (api.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]api.Order, error)
	GetOrderForUser(ctx context.Context, userID, orderID int) (api.Order, error)
	ListAllOrders(ctx context.Context) ([]api.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int, status, paymentStatus *string) (api.Order, error)

	// Banners
	ListActiveBanners(ctx context.Context, position string) ([]api.Banner, error)
	ListBanners(ctx context.Context, page, perPage int) (api.BannerPage, error)
	GetBanner(ctx context.Context, id int) (api.Banner, error)
	CreateBanner(ctx context.Context, input api.BannerInput) (api.Banner, error)
	UpdateBanner(ctx context.Context, id int, input api.BannerInput) (api.Banner, error)
	DeleteBanner(ctx context.Context, id int) error
	ToggleBanner(ctx context.Context, id int) (api.Banner, error)

	// Statistics
	Statistics(ctx context.Context) (api.Statistics, error)

	Close() error
}
