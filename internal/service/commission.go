package service

import (
	"context"
	"time"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"
)

// CommissionQuery filters the commission summary
type CommissionQuery struct {
	AffiliateID *uint
	MemberID    *uint
	Status      *domain.CommissionStatus
	From        *time.Time
	To          *time.Time
}

// CommissionService reports on the commission ledger
type CommissionService struct {
	store repository.Store
	guard *Guard
}

// NewCommissionService wires a CommissionService
func NewCommissionService(store repository.Store, guard *Guard) *CommissionService {
	return &CommissionService{store: store, guard: guard}
}

// Filter resolves the effective summary filter for caller. Vendors have
// no commission ledger.
func (s *CommissionService) Filter(ctx context.Context, caller Caller, q CommissionQuery) (repository.CommissionFilter, error) {
	if caller.Role == domain.RoleVendor {
		return repository.CommissionFilter{}, forbidden("vendors have no commissions")
	}
	scope, err := s.guard.ScopeFor(ctx, caller, Scope{AffiliateID: q.AffiliateID, MemberID: q.MemberID})
	if err != nil {
		return repository.CommissionFilter{}, err
	}
	return repository.CommissionFilter{
		AffiliateID: scope.AffiliateID,
		MemberID:    scope.MemberID,
		Status:      q.Status,
		From:        q.From,
		To:          q.To,
	}, nil
}

// Summarize aggregates an already scoped filter
func (s *CommissionService) Summarize(ctx context.Context, f repository.CommissionFilter) (repository.CommissionSummary, error) {
	sum, err := s.store.SummarizeCommissions(ctx, f)
	if err != nil {
		return sum, storeError("failed to summarize commissions", err)
	}
	return sum, nil
}

// Summary returns the ledger aggregates visible to caller
func (s *CommissionService) Summary(ctx context.Context, caller Caller, q CommissionQuery) (repository.CommissionSummary, error) {
	f, err := s.Filter(ctx, caller, q)
	if err != nil {
		return repository.CommissionSummary{}, err
	}
	return s.Summarize(ctx, f)
}
