package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"itops-backend/internal/auth"
	"itops-backend/internal/models"
	"itops-backend/internal/policy"
)

func TestCanManage(t *testing.T) {
	admin := auth.Principal{ID: 1, Role: models.RoleAdmin}
	user := auth.Principal{ID: 2, Role: models.RoleUser}

	for _, r := range []policy.Resource{
		policy.ResourceEmployee,
		policy.ResourceInventoryCategory,
		policy.ResourceInventoryItem,
	} {
		assert.True(t, policy.CanManage(admin, r))
		assert.False(t, policy.CanManage(user, r))
	}
}

func TestCanAccessTicket(t *testing.T) {
	admin := auth.Principal{ID: 1, Role: models.RoleAdmin}
	owner := auth.Principal{ID: 2, Role: models.RoleUser}
	other := auth.Principal{ID: 3, Role: models.RoleUser}

	ticket := &models.Ticket{CreatedBy: owner.ID}

	assert.True(t, policy.CanAccessTicket(admin, ticket), "admin her talebe erişir")
	assert.True(t, policy.CanAccessTicket(owner, ticket), "sahibi kendi talebine erişir")
	assert.False(t, policy.CanAccessTicket(other, ticket), "başkasının talebi erişilemez")
}

func TestCanSetTicketAdminFields(t *testing.T) {
	assert.True(t, policy.CanSetTicketAdminFields(auth.Principal{Role: models.RoleAdmin}))
	assert.False(t, policy.CanSetTicketAdminFields(auth.Principal{Role: models.RoleUser}))
}
