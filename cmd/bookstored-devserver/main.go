// Package main starts the local bookstore API server.
//
// This process owns the SQLite-backed REST backend the storefront talks to,
// so a full store can run from a single self-contained binary.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	devservercmd "github.com/duynhne/bookstored/internal/cmd/devserver"
)

func main() {
	cfg, err := devservercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[API] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := devservercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
