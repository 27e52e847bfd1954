// Package storefront wires the interactive storefront shell.
package storefront

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/platform/config"
	"github.com/duynhne/bookstored/internal/platform/otel"
	"github.com/duynhne/bookstored/internal/store/cart"
	"github.com/duynhne/bookstored/internal/store/notify"
	"github.com/duynhne/bookstored/internal/store/session"
)

const defaultAPIBaseURL = "http://localhost:8090/api"

// Config holds the storefront command configuration.
type Config struct {
	APIBaseURL string `env:"BOOKSTORED_API_URL"`
}

// ParseConfig parses environment variables and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{APIBaseURL: defaultAPIBaseURL}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "Bookstore API base URL")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the storefront shell and blocks until the input ends or the
// context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "bookstored")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	client, err := api.New(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	notifications := notify.New(notify.WithObserver(func(n notify.Notification) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", n.Severity, n.Message)
	}))
	sessions := session.New(client)
	carts := cart.New(client, sessions)
	selection := cart.NewSelection(carts)

	sessions.Resolve(ctx)

	shell := newShell(client, sessions, carts, selection, notifications, os.Stdin, os.Stdout)
	return shell.run(ctx)
}
