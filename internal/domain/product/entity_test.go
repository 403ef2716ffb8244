package product

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTee() *Product {
	original := int64(1999)
	return &Product{
		ID:            "1",
		Name:          "Oversized Cotton Tee",
		Price:         1499,
		OriginalPrice: &original,
		Images:        []string{"/images/tee-front.jpg", "/images/tee-back.jpg"},
		Sizes: []SizeStock{
			{Size: "S", Stock: 5},
			{Size: "M", Stock: 12},
			{Size: "L", Stock: 8},
			{Size: "XL", Stock: 0},
		},
	}
}

func TestProductSizeLookup(t *testing.T) {
	p := sampleTee()

	m, ok := p.Size("M")
	require.True(t, ok)
	assert.Equal(t, 12, m.Stock)

	_, ok = p.Size("XXL")
	assert.False(t, ok)
}

func TestProductStockAndImages(t *testing.T) {
	p := sampleTee()

	assert.Equal(t, 25, p.TotalStock())
	assert.True(t, p.IsInStock())
	assert.Equal(t, "/images/tee-front.jpg", p.PrimaryImage())
	assert.Equal(t, 25, p.GetDiscountPercentage())

	empty := &Product{Sizes: []SizeStock{{Size: "One Size", Stock: 0}}}
	assert.False(t, empty.IsInStock())
	assert.Equal(t, "", empty.PrimaryImage())
	assert.Equal(t, 0, empty.GetDiscountPercentage())
}

func TestProductJSONCarriesDerivedFields(t *testing.T) {
	original := int64(1999)
	p := Product{
		ID:            "tee",
		Name:          "Oversized Cotton Tee",
		Price:         1499,
		OriginalPrice: &original,
		Sizes:         []SizeStock{{Size: "M", Stock: 2}, {Size: "L", Stock: 0}},
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "tee", out["id"])
	assert.Equal(t, float64(1499), out["price"])
	assert.Equal(t, float64(2), out["totalStock"])
	assert.Equal(t, true, out["inStock"])
	assert.Equal(t, float64(25), out["discountPercentage"])
	assert.NotContains(t, out, "DeletedAt")

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, p.Sizes, back.Sizes)
}

func TestValidateSizes(t *testing.T) {
	assert.NoError(t, validateSizes([]SizeInput{{Size: "S", Stock: 1}, {Size: "M"}}))

	cases := map[string][]SizeInput{
		"empty":     nil,
		"blank":     {{Size: "  ", Stock: 1}},
		"duplicate": {{Size: "M"}, {Size: "M"}},
		"negative":  {{Size: "L", Stock: -1}},
	}
	for name, sizes := range cases {
		t.Run(name, func(t *testing.T) {
			err := validateSizes(sizes)
			assert.True(t, errors.Is(err, ErrInvalidProduct), "got %v", err)
		})
	}
}

func TestBuildOrderClause(t *testing.T) {
	assert.Equal(t, "price ASC", buildOrderClause("price", "asc"))
	assert.Equal(t, "created_at DESC", buildOrderClause("drop table", "sideways"))
	assert.Equal(t, "name DESC", buildOrderClause("name", "DESC"))
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, IsKnownCategory("hoodies"))
	assert.True(t, IsKnownCategory("Oversize-Tshirts"))
	assert.False(t, IsKnownCategory("socks"))
}
