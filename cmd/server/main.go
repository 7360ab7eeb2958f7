package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"budget/internal/config"
	"budget/internal/db"
	"budget/internal/handlers"
	"budget/internal/services"
	"budget/internal/store"
	"budget/internal/websocket"
	"budget/internal/workspace"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	systemDB, err := db.Open(filepath.Join(cfg.DataDir, "system.db"))
	if err != nil {
		log.Fatalf("failed to open system database: %v", err)
	}
	defer systemDB.Close()
	if err := db.MigrateSystem(systemDB); err != nil {
		log.Fatalf("failed to migrate system database: %v", err)
	}

	users := services.NewUserService(store.NewUserStore(systemDB), cfg.JWTSecret, cfg.TokenTTL)
	hub := websocket.NewHub()
	workspaces := workspace.NewManager(cfg.DataDir, hub)
	defer workspaces.CloseAll()

	handler := handlers.New(cfg, users, workspaces, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("budget API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
