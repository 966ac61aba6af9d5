package checkout

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// Orders under the threshold pay a percentage-based delivery charge.
	FreeDeliveryThreshold = 50.0
	DeliveryPercentage    = 10.0
)

// Totals is the priced-out form of a bag. GrandTotal must come out identical
// on the checkout page and in the webhook reconciliation, since it is part
// of the order identity.
type Totals struct {
	OrderTotal   float64
	DeliveryCost float64
	GrandTotal   float64
}

// AmountMinorUnits is the grand total in minor currency units, the form the
// payment processor charges in.
func (t Totals) AmountMinorUnits() int64 {
	return int64(math.Round(t.GrandTotal * 100))
}

// ComputeTotals prices a bag against the current catalog.
func ComputeTotals(bag Bag, repo Repository) (Totals, error) {
	var t Totals
	for _, rawID := range bag.ProductIDs() {
		productID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return Totals{}, fmt.Errorf("invalid product id %q in bag: %w", rawID, err)
		}
		product, err := repo.GetProductByID(uint(productID))
		if err != nil {
			return Totals{}, fmt.Errorf("product %s lookup failed: %w", rawID, err)
		}
		t.OrderTotal += product.Price * float64(bag[rawID].TotalQuantity())
	}

	t.OrderTotal = roundTwo(t.OrderTotal)
	if t.OrderTotal > 0 && t.OrderTotal < FreeDeliveryThreshold {
		t.DeliveryCost = roundTwo(t.OrderTotal * DeliveryPercentage / 100)
	}
	t.GrandTotal = roundTwo(t.OrderTotal + t.DeliveryCost)
	return t, nil
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
