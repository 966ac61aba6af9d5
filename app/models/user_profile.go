package models

import "time"

// UserProfile stores a user's default shipping details. The webhook handler
// overwrites these from the current shipping details when the checkout was
// submitted with the save-info box ticked.
type UserProfile struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	DefaultPhoneNumber    *string `gorm:"type:varchar(20)" json:"default_phone_number,omitempty"`
	DefaultCountry        *string `gorm:"type:varchar(40)" json:"default_country,omitempty"`
	DefaultPostcode       *string `gorm:"type:varchar(20)" json:"default_postcode,omitempty"`
	DefaultTownOrCity     *string `gorm:"type:varchar(40)" json:"default_town_or_city,omitempty"`
	DefaultStreetAddress1 *string `gorm:"type:varchar(80)" json:"default_street_address1,omitempty"`
	DefaultStreetAddress2 *string `gorm:"type:varchar(80)" json:"default_street_address2,omitempty"`
	DefaultCounty         *string `gorm:"type:varchar(80)" json:"default_county,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
