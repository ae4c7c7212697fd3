package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsSevenProducts(t *testing.T) {
	products, err := Default()
	require.NoError(t, err)
	require.Len(t, products, 7)

	first := products[0]
	assert.Equal(t, "dior-eloise", first.Slug)
	assert.Equal(t, "Dior – Éloise", first.Title)
	assert.Equal(t, 575.0, first.UnitPrice())
	assert.NotEmpty(t, first.Images)
}

func TestParse_RejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte(`
products:
  - {id: 1, slug: a, title: A, price: "£1"}
  - {id: 2, slug: a, title: B, price: "£1"}
`))
	require.Error(t, err)

	_, err = Parse([]byte(`
products:
  - {id: 1, slug: a, title: A}
  - {id: 1, slug: b, title: B}
`))
	require.Error(t, err)
}

func TestParse_RequiresSlug(t *testing.T) {
	_, err := Parse([]byte(`products: [{id: 1, title: A}]`))
	require.Error(t, err)
}
