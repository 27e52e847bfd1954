package devserver

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Addr != "localhost:8090" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "localhost:8090")
	}
	if cfg.StoragePath != "bookstore.db" {
		t.Fatalf("StoragePath = %q, want %q", cfg.StoragePath, "bookstore.db")
	}
	if cfg.Seed {
		t.Fatalf("Seed = %t, want false", cfg.Seed)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-addr", "127.0.0.1:9000", "-storage-path", "/tmp/store.db", "-seed"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "127.0.0.1:9000")
	}
	if cfg.StoragePath != "/tmp/store.db" {
		t.Fatalf("StoragePath = %q, want %q", cfg.StoragePath, "/tmp/store.db")
	}
	if !cfg.Seed {
		t.Fatalf("Seed = %t, want true", cfg.Seed)
	}
}
