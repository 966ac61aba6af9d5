package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tacweb/tacweb/app/models"
)

func pricedRepo(prices map[uint]float64) *stubRepo {
	return &stubRepo{
		getProduct: func(productID uint) (*models.Product, error) {
			return &models.Product{ID: productID, Price: prices[productID]}, nil
		},
	}
}

func TestComputeTotalsBelowThresholdAddsDelivery(t *testing.T) {
	bag := ParseBag(`{"42": 3}`)
	repo := pricedRepo(map[uint]float64{42: 9.99})

	totals, err := ComputeTotals(bag, repo)
	require.NoError(t, err)

	assert.Equal(t, 29.97, totals.OrderTotal)
	assert.Equal(t, 3.00, totals.DeliveryCost)
	assert.Equal(t, 32.97, totals.GrandTotal)
	assert.Equal(t, int64(3297), totals.AmountMinorUnits())
}

func TestComputeTotalsFreeDeliveryAtThreshold(t *testing.T) {
	bag := ParseBag(`{"42": 5}`)
	repo := pricedRepo(map[uint]float64{42: 10.00})

	totals, err := ComputeTotals(bag, repo)
	require.NoError(t, err)

	assert.Equal(t, 50.00, totals.OrderTotal)
	assert.Equal(t, 0.00, totals.DeliveryCost)
	assert.Equal(t, 50.00, totals.GrandTotal)
}

func TestComputeTotalsSizedBagCountsAllSizes(t *testing.T) {
	bag := ParseBag(`{"7": {"items_by_size": {"m": 2, "l": 1}}}`)
	repo := pricedRepo(map[uint]float64{7: 12.50})

	totals, err := ComputeTotals(bag, repo)
	require.NoError(t, err)

	assert.Equal(t, 37.50, totals.OrderTotal)
	assert.Equal(t, 3.75, totals.DeliveryCost)
	assert.Equal(t, 41.25, totals.GrandTotal)
}

func TestComputeTotalsEmptyBag(t *testing.T) {
	totals, err := ComputeTotals(Bag{}, pricedRepo(nil))
	require.NoError(t, err)

	assert.Equal(t, 0.00, totals.OrderTotal)
	assert.Equal(t, 0.00, totals.DeliveryCost)
	assert.Equal(t, 0.00, totals.GrandTotal)
	assert.Equal(t, int64(0), totals.AmountMinorUnits())
}

func TestComputeTotalsUnknownProductFails(t *testing.T) {
	bag := ParseBag(`{"42": 1}`)
	repo := &stubRepo{
		getProduct: func(productID uint) (*models.Product, error) {
			return nil, assert.AnError
		},
	}

	_, err := ComputeTotals(bag, repo)
	assert.Error(t, err)
}

func TestComputeTotalsBadProductIDFails(t *testing.T) {
	bag := Bag{"not-a-number": {Quantity: 1}}

	_, err := ComputeTotals(bag, pricedRepo(nil))
	assert.Error(t, err)
}
