package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// UserKind records which of the two historical account pools an identity
// came from: the fixed administrative list or open self-registration. Both
// live in one table with a single email uniqueness rule.
type UserKind string

const (
	KindAdmin    UserKind = "admin"
	KindSignedUp UserKind = "signedup"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	Kind         UserKind  `gorm:"type:varchar(20);not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
