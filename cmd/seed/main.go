package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/woodhaven/storefront/internal/adapter/storage"
	"github.com/woodhaven/storefront/internal/core/domain"
	"github.com/woodhaven/storefront/internal/port"
	"github.com/woodhaven/storefront/pkg/logging"
)

var catalog = []domain.Product{
	{Name: "Oakwood 3-Seater Sofa", Price: 54999, Category: "Living Room", Description: "Solid oak frame with linen upholstery.", Featured: true, Rating: 4.6, Reviews: 112, InStock: true},
	{Name: "Walnut Coffee Table", Price: 18499, Category: "Living Room", Description: "Mid-century walnut table with storage shelf.", Rating: 4.4, Reviews: 57, InStock: true},
	{Name: "Teak King Bed Frame", Price: 68999, Category: "Bedroom", Description: "Hand-finished teak with slatted base.", Featured: true, Rating: 4.8, Reviews: 203, InStock: true},
	{Name: "Fabric Wardrobe", Price: 32999, Category: "Bedroom", Description: "Three-door wardrobe with mirror panel.", Rating: 4.1, Reviews: 34, InStock: true},
	{Name: "6-Seater Dining Set", Price: 74999, Category: "Dining", Description: "Sheesham table with cushioned chairs.", Featured: true, Rating: 4.7, Reviews: 88, InStock: true},
	{Name: "Bar Cabinet", Price: 27999, Category: "Dining", Description: "Compact cabinet with glass rack.", Rating: 4.2, Reviews: 19, InStock: true},
	{Name: "Ergonomic Office Chair", Price: 15999, Category: "Office", Description: "Lumbar support, adjustable arms.", Rating: 4.5, Reviews: 301, InStock: true},
	{Name: "Standing Desk", Price: 36999, Category: "Office", Description: "Dual-motor height adjustable desk.", Rating: 4.6, Reviews: 145, InStock: true},
	{Name: "Rattan Lounge Set", Price: 45999, Category: "Outdoor", Description: "Weather-proof rattan with cushions.", Rating: 4.3, Reviews: 41, InStock: true},
	{Name: "Garden Bench", Price: 12499, Category: "Outdoor", Description: "Acacia wood two-seater bench.", Rating: 4.0, Reviews: 23, InStock: false},
}

func main() {
	driver := flag.String("driver", "sqlite", "store driver: sqlite or mysql")
	sqlitePath := flag.String("sqlite-path", "storefront.db", "sqlite database path")
	mysqlDSN := flag.String("mysql-dsn", "root:root@tcp(localhost:3306)/storefront?parseTime=true", "mysql DSN")
	adminID := flag.String("admin-id", "admin", "user id to create as administrator")
	adminName := flag.String("admin-name", "Store Admin", "administrator display name")
	adminEmail := flag.String("admin-email", "admin@woodhaven.local", "administrator email")
	flag.Parse()

	logger := logging.New()
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, *driver, *sqlitePath, *mysqlDSN)
	if err != nil {
		logger.Error("store init failed", "driver", *driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	for _, p := range catalog {
		id, err := store.CreateProduct(ctx, p)
		if err != nil {
			logger.Error("seed product failed", "name", p.Name, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded product", "id", id, "name", p.Name)
	}

	existing, err := store.GetProfile(ctx, *adminID)
	if err != nil {
		logger.Error("profile lookup failed", "error", err)
		os.Exit(1)
	}
	if existing == nil {
		profile := domain.Profile{UserID: *adminID, Name: *adminName, Email: *adminEmail}
		if err := store.CreateProfile(ctx, profile); err != nil {
			logger.Error("seed admin profile failed", "error", err)
			os.Exit(1)
		}
	}
	if err := store.GrantRole(ctx, *adminID, domain.RoleAdmin); err != nil {
		logger.Error("grant admin role failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seeded administrator", "user_id", *adminID)
}

func openStore(ctx context.Context, driver, sqlitePath, mysqlDSN string) (port.Store, func(), error) {
	switch driver {
	case "mysql":
		db, err := sql.Open("mysql", mysqlDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
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
		store, err := storage.NewSQLiteStore(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
