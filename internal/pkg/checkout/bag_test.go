package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBagSizeless(t *testing.T) {
	bag := ParseBag(`{"42": 3}`)

	assert.Len(t, bag, 1)
	item := bag["42"]
	assert.False(t, item.HasSizes())
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 3, item.TotalQuantity())
}

func TestParseBagWithSizes(t *testing.T) {
	bag := ParseBag(`{"7": {"items_by_size": {"M": 2, "L": 1}}}`)

	assert.Len(t, bag, 1)
	item := bag["7"]
	assert.True(t, item.HasSizes())
	assert.Equal(t, 2, item.ItemsBySize["M"])
	assert.Equal(t, 1, item.ItemsBySize["L"])
	assert.Equal(t, 3, item.TotalQuantity())
}

func TestParseBagMalformedDegradesToEmpty(t *testing.T) {
	tests := []string{
		``,
		`{`,
		`not json at all`,
		`[1, 2, 3]`,
		`"just a string"`,
		`null`,
	}

	for _, raw := range tests {
		bag := ParseBag(raw)
		assert.NotNil(t, bag, "input %q", raw)
		assert.Empty(t, bag, "input %q", raw)
	}
}

func TestBagQuantityRoundTrips(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "sizeless", raw: `{"42": 3}`, want: 3},
		{name: "sized", raw: `{"7": {"items_by_size": {"M": 2, "L": 1}}}`, want: 3},
		{name: "mixed", raw: `{"42": 3, "7": {"items_by_size": {"S": 4}}}`, want: 7},
		{name: "empty", raw: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := ParseBag(tt.raw)
			assert.Equal(t, tt.want, bag.TotalQuantity())

			// Decoding the serialized form must preserve the total.
			again := ParseBag(bag.Serialize())
			assert.Equal(t, tt.want, again.TotalQuantity())
		})
	}
}

func TestBagSerializeIsCanonical(t *testing.T) {
	a := ParseBag(`{"9": 1, "42": 3}`)
	b := ParseBag(`{"42": 3,    "9": 1}`)

	// Both writers must produce byte-identical serialized bags, the string
	// is part of the order identity.
	assert.Equal(t, a.Serialize(), b.Serialize())
}

func TestBagSerializeKeepsEncodingShape(t *testing.T) {
	bag := ParseBag(`{"42": 3, "7": {"items_by_size": {"M": 2}}}`)

	out := bag.Serialize()
	assert.Contains(t, out, `"42":3`)
	assert.Contains(t, out, `"items_by_size"`)
}

func TestBagProductIDsSorted(t *testing.T) {
	bag := ParseBag(`{"9": 1, "10": 2, "1": 3}`)
	assert.Equal(t, []string{"1", "10", "9"}, bag.ProductIDs())
}

func TestSerializeNilBag(t *testing.T) {
	var bag Bag
	assert.Equal(t, "{}", bag.Serialize())
}
