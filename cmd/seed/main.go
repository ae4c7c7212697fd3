package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"zizi-storefront/internal/catalog"
	"zizi-storefront/internal/config"
	"zizi-storefront/internal/db"
	"zizi-storefront/internal/logging"
	"zizi-storefront/internal/repository/product"
	"zizi-storefront/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New("seed", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.UsePostgres() {
		logger.Fatal("DB_DSN is required; the sqlite mode serves the embedded catalog directly")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	products, err := catalog.Default()
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}
	n, err := seed.Apply(ctx, product.NewPostgres(pool, logger), products)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("products", n))
}
