package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleLecturer, RoleStaff, RoleAdmin, RoleHead} {
		assert.Truef(t, r.Valid(), "%s", r)
	}
	assert.False(t, Role("janitor").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role    Role
		approve bool
		returns bool
		manage  bool
		staff   bool
	}{
		{RoleStudent, false, false, false, false},
		{RoleLecturer, false, false, false, false},
		{RoleStaff, true, true, true, true},
		{RoleAdmin, true, true, true, true},
		{RoleHead, false, false, false, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.approve, tc.role.CanApprove(), "%s CanApprove", tc.role)
		assert.Equalf(t, tc.returns, tc.role.CanProcessReturn(), "%s CanProcessReturn", tc.role)
		assert.Equalf(t, tc.manage, tc.role.CanManageAssets(), "%s CanManageAssets", tc.role)
		assert.Equalf(t, tc.staff, tc.role.IsStaff(), "%s IsStaff", tc.role)
	}
}
