package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tmukherjee/storefront/internal/api"
	"github.com/tmukherjee/storefront/internal/auth"
	"github.com/tmukherjee/storefront/internal/config"
	"github.com/tmukherjee/storefront/internal/service"
	"github.com/tmukherjee/storefront/internal/storage/sqlite"
	"github.com/tmukherjee/storefront/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Wire services
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	catalogSvc := service.NewCatalogService(store)
	authSvc := service.NewAuthService(authenticator, jwtManager, store)

	server := api.NewServer(catalogSvc, authSvc, jwtManager)

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(server, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
