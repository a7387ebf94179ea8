package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s belongs to the closed status set.
// Progression through the set is expected to be linear but is not enforced.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Customer is the purchaser snapshot embedded in an order. UserID is set
// when the order was placed by a logged-in user.
type Customer struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	UserID *string `json:"userId,omitempty"`
}

type Order struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	Customer Customer    `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total    float64     `json:"total"`
	Status   OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// BeforeCreate defaults the total to the line-item sum when the caller did
// not supply one.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Total == 0 {
		for _, item := range o.Items {
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			o.Total += item.Price * float64(qty)
		}
	}
	return nil
}
