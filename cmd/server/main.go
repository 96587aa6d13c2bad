package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stively/internal/config"
	"stively/internal/db"
	"stively/internal/metrics"
	"stively/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	if cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required")
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	metrics.Init(database)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
