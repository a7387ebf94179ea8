package models

import "time"

type Cart struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         string     `gorm:"uniqueIndex" json:"userId"` // one live cart per user
	Items          []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cartItems"`
	TotalCartPrice float64    `json:"totalCartPrice"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CartID     uint    `gorm:"index" json:"-"`
	ProductID  uint    `json:"productId"`
	Title      string  `json:"title"`
	ImageCover string  `json:"imageCover"`
	Price      float64 `json:"price"` // unit price snapshot at add time
	Quantity   int     `json:"quantity"`
}

// RecalcTotal recomputes the derived cart total from its line items.
// Callers must invoke it after every item mutation before saving.
func (c *Cart) RecalcTotal() {
	var total float64
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.Price
	}
	c.TotalCartPrice = total
}
