package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/woodhaven/storefront/internal/adapter/handler"
	"github.com/woodhaven/storefront/internal/adapter/storage"
	"github.com/woodhaven/storefront/internal/core/service"
	"github.com/woodhaven/storefront/internal/port"
	"github.com/woodhaven/storefront/pkg/logging"
	"github.com/woodhaven/storefront/pkg/shutdown"
)

func main() {
	logger := logging.New()

	cfg := loadConfig()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store init failed", "driver", cfg.storeDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("store ready", "driver", cfg.storeDriver)

	var cache port.Cache
	var rdb *redis.Client
	if cfg.redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("redis init failed", "addr", cfg.redisAddr, "error", err)
			os.Exit(1)
		}
		cache = storage.NewRedisCache(rdb)
		defer rdb.Close()
		logger.Info("redis ready", "addr", cfg.redisAddr)
	}

	carts := service.NewSessionCarts()
	checkout := service.NewCheckoutService(store, cache, cfg.checkoutDelay, logger)
	orders := service.NewOrderService(store, logger)
	admin := service.NewAdminService(store, logger)
	identity := handler.NewStoreIdentity(store)

	httpHandler := handler.NewHTTPHandler(store, identity, carts, checkout, orders, admin, logger)
	httpServer := &http.Server{
		Addr:    cfg.httpAddr,
		Handler: httpHandler.Router(),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.httpAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("http server stopped")
}

type config struct {
	httpAddr      string
	storeDriver   string
	mysqlDSN      string
	sqlitePath    string
	redisAddr     string
	checkoutDelay time.Duration
}

func loadConfig() config {
	delayMS := 1500
	if raw := os.Getenv("CHECKOUT_DELAY_MS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			delayMS = n
		}
	}
	return config{
		httpAddr:      envOr("HTTP_ADDR", ":8080"),
		storeDriver:   envOr("STORE_DRIVER", "sqlite"),
		mysqlDSN:      envOr("MYSQL_DSN", "root:root@tcp(localhost:3306)/storefront?parseTime=true"),
		sqlitePath:    envOr("SQLITE_PATH", "storefront.db"),
		redisAddr:     os.Getenv("REDIS_ADDR"),
		checkoutDelay: time.Duration(delayMS) * time.Millisecond,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore(ctx context.Context, cfg config) (port.Store, func(), error) {
	switch cfg.storeDriver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.mysqlDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		store := storage.NewMySQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.storeDriver)
	}
}
