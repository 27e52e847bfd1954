// Package devserver wires the local bookstore API server command.
package devserver

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/duynhne/bookstored/internal/devserver"
	"github.com/duynhne/bookstored/internal/devserver/storage/sqlite"
	"github.com/duynhne/bookstored/internal/platform/config"
	"github.com/duynhne/bookstored/internal/platform/otel"
)

const (
	defaultAddr        = "localhost:8090"
	defaultStoragePath = "bookstore.db"
	defaultJWTSecret   = "local-dev-secret"
)

// Config holds the API server command configuration.
type Config struct {
	Addr        string `env:"BOOKSTORED_ADDR"`
	StoragePath string `env:"BOOKSTORED_STORAGE_PATH"`
	JWTSecret   string `env:"BOOKSTORED_JWT_SECRET"`
	Seed        bool   `env:"BOOKSTORED_SEED"`
}

// ParseConfig parses environment variables and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		Addr:        defaultAddr,
		StoragePath: defaultStoragePath,
		JWTSecret:   defaultJWTSecret,
	}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "SQLite database path")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Session signing secret")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "Seed sample data into an empty database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API server and blocks until the context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "bookstored-devserver")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	if cfg.Seed {
		if err := seed(ctx, store); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	server, err := devserver.NewServer(devserver.Config{
		Addr:      cfg.Addr,
		JWTSecret: cfg.JWTSecret,
	}, store)
	if err != nil {
		return fmt.Errorf("init api server: %w", err)
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve api: %w", err)
	}
	return nil
}
