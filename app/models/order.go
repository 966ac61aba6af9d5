package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a persisted checkout. Orders are created either by the checkout
// form submission or by the Stripe webhook handler when the form's write has
// not landed yet. The combination of contact, address, total, original bag
// and stripe_pid identifies "the same order" across both writers.
type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	OrderNumber   string       `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserProfileID *uint        `gorm:"index" json:"user_profile_id,omitempty"`
	UserProfile   *UserProfile `gorm:"foreignKey:UserProfileID" json:"-"`

	FullName    string `gorm:"type:varchar(50);not null;index" json:"full_name" validate:"required,max=50"`
	Email       string `gorm:"type:varchar(254);not null;index" json:"email" validate:"required,max=254"`
	PhoneNumber string `gorm:"type:varchar(20);not null" json:"phone_number" validate:"max=20"`

	// Optional geographic fields are pointers: an empty string from the
	// payment processor is normalized to NULL before it gets here. Some
	// store configurations reject empty strings on these columns, and
	// "" vs NULL must not produce two distinct order identities.
	Country        *string `gorm:"type:varchar(40)" json:"country,omitempty"`
	Postcode       *string `gorm:"type:varchar(20)" json:"postcode,omitempty"`
	TownOrCity     *string `gorm:"type:varchar(40)" json:"town_or_city,omitempty"`
	StreetAddress1 *string `gorm:"type:varchar(80)" json:"street_address1,omitempty"`
	StreetAddress2 *string `gorm:"type:varchar(80)" json:"street_address2,omitempty"`
	County         *string `gorm:"type:varchar(80)" json:"county,omitempty"`

	GrandTotal  float64 `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	OriginalBag string  `gorm:"type:text;not null" json:"original_bag"`
	StripePID   string  `gorm:"type:varchar(254);not null;index" json:"stripe_pid"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID" json:"line_items,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Order) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// NewOrderNumber generates a random, unguessable order number.
func NewOrderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// BeforeCreate assigns an order number when the caller did not set one.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber()
	}
	return nil
}
