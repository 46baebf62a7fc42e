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
	"github.com/MDSAM05/orderflow/internal/httpapi"
	"github.com/MDSAM05/orderflow/internal/user"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	cfg := config.LoadUserService()
	logger := log.New(os.Stdout, "[user-service] ", log.LstdFlags|log.Lshortfile)

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
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

	// --- HTTP ---
	svc := user.NewService(user.NewRepository(database), issuer)
	router := httpapi.NewUserRouter(httpapi.NewUserHandler(svc), verifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("user-service listening on %s", cfg.HTTPAddr)
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

	logger.Println("shutdown complete")
}
