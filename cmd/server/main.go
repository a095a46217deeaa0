package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/TanishaMaheshwari/vc-manager/internal/auth"
	"github.com/TanishaMaheshwari/vc-manager/internal/middleware"
	"github.com/TanishaMaheshwari/vc-manager/internal/server"
	"github.com/TanishaMaheshwari/vc-manager/internal/service"
	"github.com/TanishaMaheshwari/vc-manager/internal/storage/sqlite"
	"github.com/TanishaMaheshwari/vc-manager/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/committees.db")
	port := getEnv("PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	tokenTTL := 24 * time.Hour
	if raw := getEnv("TOKEN_TTL_HOURS", ""); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			slog.Error("Invalid TOKEN_TTL_HOURS", "value", raw)
			os.Exit(1)
		}
		tokenTTL = time.Duration(hours) * time.Hour
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	ledgers := service.NewLedgerService(store)
	pools := service.NewPoolService(store)
	settlements := service.NewSettlementService(store, ledgers)
	authn := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)

	srv := server.New(store, pools, settlements, ledgers, authn, jwtManager)

	handler := middleware.Logging(middleware.CORS(middleware.Metrics(srv.Router())))

	// h2c allows HTTP/2 without TLS for local and reverse-proxied deployments.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
