package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"zizi-storefront/internal/config"
	"zizi-storefront/internal/db"
	"zizi-storefront/internal/logging"
	"zizi-storefront/internal/migrate"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New("migrate", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	if !cfg.UsePostgres() {
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal("open sqlite", zap.Error(err))
		}
		defer conn.Close()
		if err := migrate.ApplySQLite(ctx, conn); err != nil {
			logger.Fatal("apply sqlite migrations", zap.Error(err))
		}
		logger.Info("sqlite migrations applied", zap.String("path", cfg.SQLitePath))
		return
	}

	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	logger.Info("migrations applied")
}
