package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"giganticwit/api/internal/app"
	"giganticwit/api/internal/config"
	"giganticwit/api/internal/export"
	"giganticwit/api/internal/kvstore"
	"giganticwit/api/internal/ocr/tesseract"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	store, err := kvstore.Open(ctx, kvstore.Options{
		Backend:     cfg.Store,
		SQLitePath:  cfg.SQLitePath,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		MemoryQuota: cfg.MemoryQuotaBytes,
	})
	if err != nil {
		log.Fatalf("store connection failed: %v", err)
	}
	defer store.Close()
	log.Printf("Using %s store for local persistence", cfg.Store)

	service := app.New(cfg, store, export.NewService(cfg.ExportTimeout), tesseract.NewEngine())
	service.Startup(ctx)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, cfg.MaxUploadBytes)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.ExportTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Gigantic Wit API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := service.Shutdown(shutdownCtx); err != nil {
		log.Printf("autosave flush error: %v", err)
	}
}
