// Package access derives the record-visibility scope of an authenticated
// identity. The scope is computed once per request and passed explicitly
// into every store call.
package access

import (
	"mini-crm/internal/models"

	"gorm.io/gorm"
)

// Scope is the query predicate of one identity: either "everything"
// (admin override) or "records owned by OwnerID". Admin is a scope
// override, not an exclusive privilege — non-admins keep full CRUD on
// their own records.
type Scope struct {
	OwnerID uint
	All     bool
}

func ScopeFor(u *models.User) Scope {
	return Scope{OwnerID: u.ID, All: u.Role == models.RoleAdmin}
}

// Apply narrows a query to the records visible under the scope.
func (s Scope) Apply(q *gorm.DB) *gorm.DB {
	if s.All {
		return q
	}
	return q.Where("owner_id = ?", s.OwnerID)
}

func (s Scope) Allows(ownerID uint) bool {
	return s.All || s.OwnerID == ownerID
}
