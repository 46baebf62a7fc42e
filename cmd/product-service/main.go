package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MDSAM05/orderflow/internal/auth"
	"github.com/MDSAM05/orderflow/internal/config"
	"github.com/MDSAM05/orderflow/internal/db"
	"github.com/MDSAM05/orderflow/internal/events"
	"github.com/MDSAM05/orderflow/internal/httpapi"
	"github.com/MDSAM05/orderflow/internal/inventory"
	"github.com/MDSAM05/orderflow/internal/redisx"
)

const serviceName = "product-service"

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	cfg := config.LoadProductService()
	logger := log.New(os.Stdout, "[product-service] ", log.LstdFlags|log.Lshortfile)

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, migrationsFS, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	repo := inventory.NewPostgresRepository(pool)

	// --- AMQP ---
	rabbitConn := events.MustDial(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, events.InventoryExchange)
	if err != nil {
		logger.Fatalf("event publisher: %v", err)
	}
	defer publisher.Close()

	queue := events.ServiceQueue(serviceName, events.OrdersExchange)
	if err := events.StartConsumer(ctx, rabbitConn, events.OrdersExchange, queue, events.LogHandler(logger), logger); err != nil {
		logger.Fatalf("start consumer: %v", err)
	}

	// --- HTTP ---
	reservations := inventory.NewService(repo, publisher, logger)
	cache := inventory.NewListCache(redisx.New(cfg.RedisAddr), logger)
	router := httpapi.NewProductRouter(httpapi.NewProductHandler(repo, reservations, cache), verifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("product-service listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	cancel()

	logger.Println("shutdown complete")
}
