package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/policy"
)

func TestAllows(t *testing.T) {
	cases := []struct {
		role domain.UserRole
		cap  policy.Capability
		want bool
	}{
		{domain.RoleAdmin, policy.RevertRequest, true},
		{domain.RoleAdmin, policy.ManageUsers, true},
		{domain.RoleAlmox, policy.ApplyDelivery, true},
		{domain.RoleAlmox, policy.AdjustStock, true},
		{domain.RoleAlmox, policy.RevertRequest, false},
		{domain.RoleAlmox, policy.SetMinimum, false},
		{domain.RoleSolicitante, policy.SubmitRequest, true},
		{domain.RoleSolicitante, policy.ApplyDelivery, false},
		{domain.RoleSolicitante, policy.RegisterItem, false},
		{domain.UserRole("VISITANTE"), policy.ViewReports, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, policy.Allows(c.role, c.cap), "%s / %s", c.role, c.cap)
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, policy.Authorize(domain.Actor{Role: domain.RoleAdmin}, policy.RevertRequest))

	err := policy.Authorize(domain.Actor{Role: domain.RoleSolicitante}, policy.ApplyDelivery)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}
