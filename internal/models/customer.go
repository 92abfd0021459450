package models

import "time"

// Customer belongs to exactly one owner. OwnerID is set at creation and
// never changes afterwards. Email is unique per owner, checked at the
// application level before insert.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Company   string    `gorm:"size:100" json:"company"`
	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
