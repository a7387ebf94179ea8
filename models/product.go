package models

import "time"

// MaxProductPrice is the price ceiling enforced on create and update.
const MaxProductPrice = 2000

type Product struct {
	ID                 uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title              string   `gorm:"not null" json:"title"`
	Slug               string   `gorm:"index" json:"slug"`
	Description        string   `gorm:"not null" json:"description"`
	Quantity           int      `gorm:"not null" json:"quantity"`
	Price              float64  `gorm:"not null" json:"price"`
	PriceAfterDiscount *float64 `json:"priceAfterDiscount,omitempty"`
	ImageCover         string   `json:"imageCover"`

	CategoryID uint     `gorm:"index" json:"categoryId"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
