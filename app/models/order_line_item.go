package models

import "time"

// OrderLineItem is one product position on an order. Sized products carry
// one line item per size, sizeless products exactly one with Size nil.
type OrderLineItem struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	OrderID       uint     `gorm:"not null;index" json:"order_id"`
	ProductID     uint     `gorm:"not null;index" json:"product_id"`
	Product       *Product `gorm:"foreignKey:ProductID" json:"-"`
	ProductSize   *string  `gorm:"type:varchar(2)" json:"product_size,omitempty"`
	Quantity      int      `gorm:"not null" json:"quantity"`
	LineItemTotal float64  `gorm:"column:lineitem_total;type:decimal(10,2);not null" json:"lineitem_total"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
