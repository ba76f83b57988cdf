package service

import (
	"context"
	"errors"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"
)

// Caller is the authenticated principal of one request
type Caller struct {
	IdentityID uint
	Role       domain.Role
}

// IsAdmin reports whether the caller has unrestricted access
func (c Caller) IsAdmin() bool { return c.Role == domain.RoleAdmin }

// Scope is a set of row filters. Nil fields do not filter.
type Scope struct {
	VendorID    *uint
	MemberID    *uint
	AffiliateID *uint
	IdentityID  *uint // Identity that performed the action, e.g. the redeemer
}

// Guard narrows caller-supplied filters to the rows a caller may see.
// Decisions are never cached; every call looks the profile up again.
type Guard struct {
	store repository.Store
}

// NewGuard returns a Guard resolving profiles through store
func NewGuard(store repository.Store) *Guard {
	return &Guard{store: store}
}

// ProfileID returns the id of the profile owned by the caller
func (g *Guard) ProfileID(ctx context.Context, caller Caller) (uint, error) {
	if !caller.Role.Valid() || caller.IdentityID == 0 {
		return 0, forbidden("unknown caller role")
	}
	id, err := g.store.FindProfileID(ctx, caller.Role, caller.IdentityID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, forbidden(caller.Role.String() + " profile not found for this user")
	}
	if err != nil {
		return 0, storeError("failed to resolve caller profile", err)
	}
	return id, nil
}

// ScopeFor returns the filters that apply for caller. Admin filters pass
// through untouched; for every other role the filter naming the caller's
// own profile kind is replaced with the caller's own profile id, and
// members and affiliates are further pinned to their own identity.
func (g *Guard) ScopeFor(ctx context.Context, caller Caller, requested Scope) (Scope, error) {
	if caller.IsAdmin() {
		return requested, nil
	}
	id, err := g.ProfileID(ctx, caller)
	if err != nil {
		return Scope{}, err
	}
	scoped := requested
	identity := caller.IdentityID
	switch caller.Role {
	case domain.RoleVendor:
		scoped.VendorID = &id
	case domain.RoleAffiliate:
		scoped.AffiliateID = &id
		scoped.IdentityID = &identity
	case domain.RoleMember:
		scoped.MemberID = &id
		scoped.IdentityID = &identity
	}
	return scoped, nil
}
