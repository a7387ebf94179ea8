package models

import "time"

type Subscriber struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
