// Package store holds the persistence layer: a gorm-backed implementation
// for production and an in-memory one for tests. Every read and write on
// customers and leads takes an explicit access.Scope.
package store

import (
	"errors"

	"mini-crm/internal/access"
	"mini-crm/internal/models"
)

var (
	// ErrNotFound covers both true absence and records outside the
	// caller's scope; callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")
)

type CustomerFilter struct {
	Search string
	Page   int
	Limit  int
}

type LeadFilter struct {
	Status string
	Page   int
	Limit  int
}

type StatusCount struct {
	Status     models.LeadStatus `json:"status"`
	Count      int64             `json:"count"`
	TotalValue float64           `json:"totalValue"`
}

type Stats struct {
	TotalCustomers      int64   `json:"totalCustomers"`
	TotalLeads          int64   `json:"totalLeads"`
	ConvertedLeads      int64   `json:"convertedLeads"`
	ConversionRate      float64 `json:"conversionRate"`
	TotalConvertedValue float64 `json:"totalConvertedValue"`
}

type UserStore interface {
	CreateUser(u *models.User) error
	// UserByEmail matches case-insensitively across both account kinds.
	UserByEmail(email string) (*models.User, error)
	UserByID(id uint) (*models.User, error)
}

type CustomerStore interface {
	CreateCustomer(c *models.Customer) error
	// Customers returns one page sorted by creation time descending,
	// plus the total match count.
	Customers(scope access.Scope, f CustomerFilter) ([]models.Customer, int64, error)
	CustomerByID(scope access.Scope, id uint) (*models.Customer, error)
	CustomerEmailTaken(ownerID uint, email string) (bool, error)
	UpdateCustomer(c *models.Customer) error
	// DeleteCustomerCascade removes the customer's leads first, then the
	// customer. The two steps are separate store operations, not a
	// transaction.
	DeleteCustomerCascade(c *models.Customer) error
}

type LeadStore interface {
	CreateLead(l *models.Lead) error
	Leads(customerID uint, f LeadFilter) ([]models.Lead, int64, error)
	LeadsForCustomer(customerID uint) ([]models.Lead, error)
	LeadByID(customerID, leadID uint) (*models.Lead, error)
	UpdateLead(l *models.Lead) error
	DeleteLead(l *models.Lead) error
}

type AnalyticsStore interface {
	// LeadsByStatus reports one entry per known status, zero-filled for
	// statuses with no leads, in canonical order.
	LeadsByStatus(scope access.Scope) ([]StatusCount, error)
	Stats(scope access.Scope) (*Stats, error)
}

type Store interface {
	UserStore
	CustomerStore
	LeadStore
	AnalyticsStore
}
