// Package catalog holds the products the storefront sells.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"zizi-storefront/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type document struct {
	Products []domain.Product `yaml:"products"`
}

// Default returns the embedded catalog.
func Default() ([]domain.Product, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a YAML catalog and validates that ids and slugs are unique.
func Parse(data []byte) ([]domain.Product, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	ids := make(map[int]struct{}, len(doc.Products))
	slugs := make(map[string]struct{}, len(doc.Products))
	for i := range doc.Products {
		p := &doc.Products[i]
		p.Slug = strings.TrimSpace(p.Slug)
		if p.ID <= 0 || p.Slug == "" || strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("catalog entry %d: id, slug and title are required", i)
		}
		if _, dup := ids[p.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id %d", p.Slug, p.ID)
		}
		if _, dup := slugs[p.Slug]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate slug %q", p.ID, p.Slug)
		}
		ids[p.ID] = struct{}{}
		slugs[p.Slug] = struct{}{}
	}
	return doc.Products, nil
}
