package checkout

import (
	"github.com/tacweb/tacweb/app/models"
	"gorm.io/gorm"
)

// OrderIdentity is the composite key both order writers agree on. String
// comparisons are case-insensitive; nil pointer fields match only NULL.
// There is no separate idempotency key: this tuple is the sole dedup
// mechanism between the checkout form and the webhook.
type OrderIdentity struct {
	FullName       string
	Email          string
	PhoneNumber    string
	Country        *string
	Postcode       *string
	TownOrCity     *string
	StreetAddress1 *string
	StreetAddress2 *string
	County         *string
	GrandTotal     float64
	OriginalBag    string
	StripePID      string
}

// Repository provides the DB operations used by the webhook handler and the
// checkout page.
type Repository interface {
	FindOrderByIdentity(key OrderIdentity) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	CreateOrder(order *models.Order) error
	DeleteOrder(orderID uint) error
	CreateOrderLineItem(item *models.OrderLineItem) error
	GetProductByID(productID uint) (*models.Product, error)
	GetProfileByUsername(username string) (*models.UserProfile, error)
	SaveProfile(profile *models.UserProfile) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a checkout repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// whereFold adds a case-insensitive equality condition for col. A nil value
// matches NULL, never the empty string.
func whereFold(q *gorm.DB, col string, val *string) *gorm.DB {
	if val == nil {
		return q.Where(col + " IS NULL")
	}
	return q.Where("LOWER("+col+") = LOWER(?)", *val)
}

func (r *gormRepository) FindOrderByIdentity(key OrderIdentity) (*models.Order, error) {
	q := r.db.Model(&models.Order{})
	q = whereFold(q, "full_name", &key.FullName)
	q = whereFold(q, "email", &key.Email)
	q = whereFold(q, "phone_number", &key.PhoneNumber)
	q = whereFold(q, "country", key.Country)
	q = whereFold(q, "postcode", key.Postcode)
	q = whereFold(q, "town_or_city", key.TownOrCity)
	q = whereFold(q, "street_address1", key.StreetAddress1)
	q = whereFold(q, "street_address2", key.StreetAddress2)
	q = whereFold(q, "county", key.County)
	q = whereFold(q, "stripe_pid", &key.StripePID)
	q = q.Where("grand_total = ?", key.GrandTotal)
	q = q.Where("original_bag = ?", key.OriginalBag)

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("LineItems").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) CreateOrder(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) DeleteOrder(orderID uint) error {
	if err := r.db.Where("order_id = ?", orderID).Delete(&models.OrderLineItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Order{}, orderID).Error
}

func (r *gormRepository) CreateOrderLineItem(item *models.OrderLineItem) error {
	return r.db.Create(item).Error
}

func (r *gormRepository) GetProductByID(productID uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) GetProfileByUsername(username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.
		Joins("JOIN users ON users.id = user_profiles.user_id").
		Where("users.name = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormRepository) SaveProfile(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}
