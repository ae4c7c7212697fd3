package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"zizi-storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products grouped by slug. Rows without a
// slug carry extra images for the product above them.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["slug"]; !ok {
		return 0, errors.New("read headers: slug column required")
	}

	var (
		current  *domain.Product
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.Slug != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil && len(row.Images) > 0 {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.ID <= 0 || p.Slug == "" || p.Title == "" || p.Price == "" {
		return fmt.Errorf("invalid product row (missing required fields) for slug %q", p.Slug)
	}
	if p.UnitPrice() <= 0 {
		return fmt.Errorf("invalid price for slug %q: %s", p.Slug, p.Price)
	}
	if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Slug, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	slug := pick(record, index, "slug")
	images := splitList(pick(record, index, "images"))
	if slug == "" && len(images) == 0 {
		return nil, nil
	}

	p := &domain.Product{
		Slug:        slug,
		Title:       pick(record, index, "title"),
		Subtitle:    pick(record, index, "subtitle"),
		Price:       pick(record, index, "price"),
		Category:    pick(record, index, "category"),
		Summary:     pick(record, index, "summary"),
		Description: pick(record, index, "description"),
		Images:      images,
		Specs: domain.ProductSpecs{
			Material:   pick(record, index, "material"),
			Finish:     pick(record, index, "finish"),
			Dimensions: pick(record, index, "dimensions"),
			Weight:     pick(record, index, "weight"),
			Care:       pick(record, index, "care"),
			Origin:     pick(record, index, "origin"),
		},
	}
	if idStr := pick(record, index, "id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid id for slug %q: %s", slug, idStr)
		}
		p.ID = id
	}
	return p, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
