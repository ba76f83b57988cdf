package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	testCases := []struct {
		label string
		id    int
		want  Role
	}{
		{label: "admin", want: RoleAdmin},
		{label: " Vendor ", want: RoleVendor},
		{label: "AFFILIATE", want: RoleAffiliate},
		{label: "member", want: RoleMember},
		{label: "customer", want: RoleMember},
		{label: "member", id: 4, want: RoleMember},
		{id: 1, want: RoleMember},
		{id: 2, want: RoleAffiliate},
		{id: 3, want: RoleVendor},
		{id: 4, want: RoleAdmin},
		{id: 5, want: RoleVendor},
		{label: "owner", id: 2, want: RoleAffiliate},
		{label: "owner", want: RoleUnknown},
		{id: 9, want: RoleUnknown},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q/%d", tc.label, tc.id), func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRole(tc.label, tc.id))
		})
	}
}

func TestRoleString(t *testing.T) {
	for _, r := range []Role{RoleMember, RoleAffiliate, RoleVendor, RoleAdmin} {
		assert.True(t, r.Valid())
		assert.Equal(t, r, ResolveRole(r.String(), 0))
	}
	assert.False(t, RoleUnknown.Valid())
	assert.Equal(t, "unknown", Role(7).String())
}
