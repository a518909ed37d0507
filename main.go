package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	config := LoadConfig()

	if err := InitDB(config.Storage.Database); err != nil {
		log.Fatal("Failed to initialize transfer log:", err)
	}
	defer CloseDB()

	if err := os.MkdirAll(config.Storage.Path, 0755); err != nil {
		log.Fatal("Failed to create upload directory:", err)
	}

	registry := NewRegistry()
	if err := registry.Load(config.Storage.Path); err != nil {
		log.Fatal("Failed to scan upload directory:", err)
	}

	store := NewStore(config.Storage.Path, config.Storage.MaxFileSize)
	api := NewAPI(registry, store)

	router := gin.Default()
	router.Use(corsMiddleware())
	RegisterWebRoutes(router)
	api.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    config.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on %s (%d files registered)", config.Server.Addr, registry.Len())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
