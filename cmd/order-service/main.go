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
	"github.com/MDSAM05/orderflow/internal/inventoryclient"
	"github.com/MDSAM05/orderflow/internal/order"
)

const serviceName = "order-service"

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	cfg := config.LoadOrderService()
	logger := log.New(os.Stdout, "[order-service] ", log.LstdFlags|log.Lshortfile)

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	// --- DB ---
	database := db.MustOpen(cfg.DatabaseDSN)
	defer database.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, migrationsFS, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	orderRepo := order.NewRepository(database)

	// --- AMQP ---
	rabbitConn := events.MustDial(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn, events.OrdersExchange)
	if err != nil {
		logger.Fatalf("event publisher: %v", err)
	}
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := events.ServiceQueue(serviceName, events.InventoryExchange)
	if err := events.StartConsumer(ctx, rabbitConn, events.InventoryExchange, queue, events.LogHandler(logger), logger); err != nil {
		logger.Fatalf("start consumer: %v", err)
	}

	// --- HTTP ---
	reserver := inventoryclient.New(cfg.ReserveURL)
	svc := order.NewService(orderRepo, reserver, publisher, logger)
	router := httpapi.NewOrderRouter(httpapi.NewOrderHandler(svc, orderRepo), verifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("order-service listening on %s", cfg.HTTPAddr)
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
