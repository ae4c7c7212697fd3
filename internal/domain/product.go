package domain

import (
	"strconv"
	"strings"
)

// ProductSpecs holds the material facts shown on a product page.
type ProductSpecs struct {
	Material   string `json:"material" yaml:"material"`
	Finish     string `json:"finish" yaml:"finish"`
	Dimensions string `json:"dimensions" yaml:"dimensions"`
	Weight     string `json:"weight,omitempty" yaml:"weight,omitempty"`
	Care       string `json:"care" yaml:"care"`
	Origin     string `json:"origin" yaml:"origin"`
}

type Product struct {
	ID          int          `json:"id" yaml:"id"`
	Slug        string       `json:"slug" yaml:"slug"`
	Title       string       `json:"title" yaml:"title"`
	Subtitle    string       `json:"subtitle" yaml:"subtitle"`
	Price       string       `json:"price" yaml:"price"`
	Category    string       `json:"category" yaml:"category"`
	Summary     string       `json:"summary" yaml:"summary"`
	Description string       `json:"description,omitempty" yaml:"description"`
	Images      []string     `json:"images" yaml:"images"`
	Specs       ProductSpecs `json:"specs" yaml:"specs"`
}

// UnitPrice parses the display price ("£575", "£1,250") into a number by
// keeping its digits. Unparseable prices yield 0.
func (p Product) UnitPrice() float64 {
	var b strings.Builder
	for _, r := range p.Price {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// CartItem builds the cart line added from the product page.
func (p Product) CartItem(quantity int) CartItem {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return CartItem{
		ID:       strconv.Itoa(p.ID),
		Name:     p.Title,
		Price:    p.UnitPrice(),
		Image:    image,
		Quantity: quantity,
	}
}
