package devserver

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
	"github.com/duynhne/bookstored/internal/devserver/storage/sqlite"
)

// seed loads sample data into an empty database. A database that already
// has users is left untouched.
func seed(ctx context.Context, store *sqlite.Store) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		log.Print("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := store.CreateUser(ctx, storage.User{
		Username:     "admin",
		Email:        "admin@bookstore.local",
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         api.RoleAdmin,
		IsActive:     true,
		StaffCode:    "NV-0001",
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	books := []api.BookInput{
		{Title: "Dế Mèn Phiêu Lưu Ký", Author: "Tô Hoài", Category: "children", Price: 85000, Stock: 20},
		{Title: "Số Đỏ", Author: "Vũ Trọng Phụng", Category: "fiction", Price: 95000, Stock: 12},
		{Title: "Nhà Giả Kim", Author: "Paulo Coelho", Category: "fiction", Price: 79000, Stock: 30},
		{Title: "Đắc Nhân Tâm", Author: "Dale Carnegie", Category: "self-help", Price: 86000, Stock: 25},
	}
	for _, input := range books {
		if _, err := store.CreateBook(ctx, input); err != nil {
			return fmt.Errorf("create book %q: %w", input.Title, err)
		}
	}

	if _, err := store.CreateBanner(ctx, api.BannerInput{
		Title:    "Khuyến mãi mùa hè",
		ImageURL: "/img/banners/summer.png",
		Position: api.BannerMain,
		IsActive: true,
	}); err != nil {
		return fmt.Errorf("create banner: %w", err)
	}

	log.Print("seeded sample data")
	return nil
}
