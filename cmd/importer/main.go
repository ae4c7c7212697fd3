package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zizi-storefront/internal/catalog"
	"zizi-storefront/internal/config"
	"zizi-storefront/internal/db"
	"zizi-storefront/internal/importer"
	"zizi-storefront/internal/repository/product"
	"zizi-storefront/internal/seed"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product CSV export or catalog YAML file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.UsePostgres() {
		log.Fatalf("DB_DSN is required for imports")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, nil)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	repo := product.NewPostgres(pool, nil)
	start := time.Now()

	var count int
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("read file: %v", err)
		}
		products, err := catalog.Parse(data)
		if err != nil {
			log.Fatalf("parse catalog: %v", err)
		}
		count, err = seed.Apply(ctx, repo, products)
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}
	default:
		f, err := os.Open(filePath)
		if err != nil {
			log.Fatalf("open file: %v", err)
		}
		defer f.Close()

		count, err = importer.NewCSVImporter(f, repo).Run(ctx)
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
