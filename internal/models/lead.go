package models

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadConverted LeadStatus = "Converted"
	LeadLost      LeadStatus = "Lost"
)

// LeadStatuses is the canonical ordering used by analytics; every status
// appears in leads-by-status output even with zero leads.
var LeadStatuses = []LeadStatus{LeadNew, LeadContacted, LeadConverted, LeadLost}

func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Lead cannot outlive its customer: deleting a customer removes its leads
// first, then the customer itself. OwnerID is inherited from the parent
// customer at creation time, not from the acting identity.
type Lead struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      LeadStatus `gorm:"type:varchar(20);not null;default:New" json:"status"`
	Value       float64    `gorm:"not null;default:0" json:"value"`
	CustomerID  uint       `gorm:"not null;index" json:"customerId"`
	OwnerID     uint       `gorm:"not null;index" json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
