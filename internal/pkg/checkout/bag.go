package checkout

import (
	"encoding/json"
	"sort"
)

// Bag is the shopping-cart snapshot the checkout page stores in the payment
// intent metadata, keyed by product ID. It is decoded exactly once at
// ingestion; downstream code only ever sees the typed form.
type Bag map[string]BagItem

// BagItem is one cart position. Products without size variants are encoded
// as a bare quantity, sized products as a quantity per size label.
type BagItem struct {
	Quantity    int
	ItemsBySize map[string]int
}

// HasSizes reports whether the item carries per-size quantities.
func (i BagItem) HasSizes() bool {
	return i.ItemsBySize != nil
}

// TotalQuantity sums the item quantity across all sizes.
func (i BagItem) TotalQuantity() int {
	if !i.HasSizes() {
		return i.Quantity
	}
	total := 0
	for _, qty := range i.ItemsBySize {
		total += qty
	}
	return total
}

func (i *BagItem) UnmarshalJSON(data []byte) error {
	var qty int
	if err := json.Unmarshal(data, &qty); err == nil {
		i.Quantity = qty
		i.ItemsBySize = nil
		return nil
	}

	var sized struct {
		ItemsBySize map[string]int `json:"items_by_size"`
	}
	if err := json.Unmarshal(data, &sized); err != nil {
		return err
	}
	if sized.ItemsBySize == nil {
		sized.ItemsBySize = map[string]int{}
	}
	i.Quantity = 0
	i.ItemsBySize = sized.ItemsBySize
	return nil
}

func (i BagItem) MarshalJSON() ([]byte, error) {
	if !i.HasSizes() {
		return json.Marshal(i.Quantity)
	}
	return json.Marshal(struct {
		ItemsBySize map[string]int `json:"items_by_size"`
	}{ItemsBySize: i.ItemsBySize})
}

// ParseBag decodes the serialized bag from intent metadata. Malformed JSON
// degrades to an empty bag instead of failing the webhook; the order then
// simply gets no line items.
func ParseBag(raw string) Bag {
	if raw == "" {
		return Bag{}
	}
	var bag Bag
	if err := json.Unmarshal([]byte(raw), &bag); err != nil {
		return Bag{}
	}
	if bag == nil {
		return Bag{}
	}
	return bag
}

// Serialize renders the bag back to its canonical JSON form. encoding/json
// sorts map keys, so both the checkout page and the webhook produce the same
// string for the same bag, which matters because the serialized bag is part
// of the order identity.
func (b Bag) Serialize() string {
	if b == nil {
		b = Bag{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ProductIDs returns the bag's product keys in stable order.
func (b Bag) ProductIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalQuantity sums quantities across all items and sizes.
func (b Bag) TotalQuantity() int {
	total := 0
	for _, item := range b {
		total += item.TotalQuantity()
	}
	return total
}
