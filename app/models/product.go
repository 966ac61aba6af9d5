package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the minimal catalog record line items reference. Bag entries
// carry product IDs only; a product deleted between checkout and webhook
// delivery makes the line-item build fail.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SKU         string         `gorm:"type:varchar(254);index" json:"sku"`
	Name        string         `gorm:"type:varchar(254);not null" json:"name" validate:"required,max=254"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"type:decimal(6,2);not null" json:"price" validate:"gte=0"`
	HasSizes    bool           `gorm:"default:false" json:"has_sizes"`
	ImageURL    string         `gorm:"type:varchar(1024)" json:"image_url"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
