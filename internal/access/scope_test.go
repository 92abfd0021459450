package access

import (
	"testing"

	"mini-crm/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScopeForAdmin(t *testing.T) {
	admin := &models.User{ID: 7, Role: models.RoleAdmin}
	s := ScopeFor(admin)

	assert.True(t, s.All)
	assert.True(t, s.Allows(7))
	assert.True(t, s.Allows(42))
}

func TestScopeForUser(t *testing.T) {
	u := &models.User{ID: 7, Role: models.RoleUser}
	s := ScopeFor(u)

	assert.False(t, s.All)
	assert.True(t, s.Allows(7))
	assert.False(t, s.Allows(42))
}
