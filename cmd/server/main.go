// Command server runs the CMS backend HTTP server.
//
// Configuration comes from environment variables (optionally a .env file in
// the working directory) or a YAML file pointed to by CONFIG_PATH.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mitrafire/cms-backend/internal/app"
)

func main() {
	// Missing .env is fine in production, where real env vars are set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
