package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"zizi-storefront/internal/catalog"
	"zizi-storefront/internal/config"
	"zizi-storefront/internal/db"
	"zizi-storefront/internal/httpserver"
	"zizi-storefront/internal/logging"
	"zizi-storefront/internal/migrate"
	"zizi-storefront/internal/payment"
	"zizi-storefront/internal/repository/kv"
	productrepo "zizi-storefront/internal/repository/product"
	checkoutsvc "zizi-storefront/internal/service/checkout"
	productsvc "zizi-storefront/internal/service/product"
	"zizi-storefront/internal/storefront"
)

const (
	visitorTTL    = 365 * 24 * time.Hour
	sweepInterval = 5 * time.Minute
	appMaxIdle    = 30 * time.Minute
)

type storage struct {
	kv       kv.Repository
	products productrepo.Repository
	pinger   httpserver.Pinger
	close    func()
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if cfg.VisitorSecretGenerated {
		logger.Warn("VISITOR_SECRET not set, using a random secret; visitor cookies will not survive a restart")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer store.close()

	gateway := payment.NewOffline(logger.Named("payment"))
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripe(cfg.StripeSecretKey, logger.Named("payment"))
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, using offline checkout")
	}

	productService := productsvc.New(store.products)
	checkoutService := checkoutsvc.New(gateway, checkoutsvc.Options{
		Currency:      cfg.Currency,
		DefaultOrigin: cfg.DefaultOrigin,
		AssetHost:     cfg.FileURLHost,
	}, logger.Named("checkout"))

	apps := storefront.NewRegistry(storefront.Deps{
		Storage:    store.kv,
		Products:   productService,
		Checkout:   checkoutService,
		Origin:     cfg.DefaultOrigin,
		LoginDelay: cfg.LoginDelay,
		Logger:     logger.Named("storefront"),
	})
	go apps.Run(ctx, sweepInterval, appMaxIdle)

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), store.pinger, httpserver.Deps{
		ProductSvc:     productService,
		CheckoutSvc:    checkoutService,
		Apps:           apps,
		Visitors:       httpserver.NewVisitorTokens(cfg.VisitorSecret, visitorTTL),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// openStorage uses Postgres when DB_DSN is set and a local SQLite file
// otherwise. Without Postgres the catalog is served from memory.
func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storage, error) {
	if cfg.UsePostgres() {
		pool, err := db.Connect(ctx, cfg.DBConnString, logger.Named("db"))
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return &storage{
			kv:       kv.NewPostgres(pool, logger.Named("kv")),
			products: productrepo.NewPostgres(pool, logger.Named("products")),
			pinger:   pool,
			close:    pool.Close,
		}, nil
	}

	conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := migrate.ApplySQLite(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply sqlite migrations: %w", err)
	}
	products, err := catalog.Default()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("using sqlite storage", zap.String("path", cfg.SQLitePath), zap.Int("products", len(products)))
	return &storage{
		kv:       kv.NewSQLite(conn, logger.Named("kv")),
		products: productrepo.NewMemory(products),
		pinger:   db.SQLitePinger{DB: conn},
		close:    func() { conn.Close() },
	}, nil
}
