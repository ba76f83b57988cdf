package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultRedemptionSource = "web"

// RedeemInput carries one redemption request. Request metadata fields are
// filled by the HTTP layer.
type RedeemInput struct {
	VoucherID        uint
	RedeemerID       uint
	ExternalOrderRef *string
	Source           string
	DeviceInfo       string
	Note             string
	UserAgent        string
	ForwardedFor     string
}

// RedemptionQuery filters a redemption listing
type RedemptionQuery struct {
	VendorID   *uint
	RedeemerID *uint
	VoucherID  *uint
	Status     *domain.RedemptionStatus
	From       *time.Time
	To         *time.Time
	PageQuery
}

// RedemptionService records and lists voucher redemptions
type RedemptionService struct {
	store repository.Store
	guard *Guard
	now   func() time.Time
}

// NewRedemptionService wires a RedemptionService
func NewRedemptionService(store repository.Store, guard *Guard) *RedemptionService {
	return &RedemptionService{store: store, guard: guard, now: time.Now}
}

// CanonicalOrderRef trims an external order reference; blank means none
func CanonicalOrderRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	s := strings.TrimSpace(*ref)
	if s == "" {
		return nil
	}
	return &s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// clientIP returns the first address of an X-Forwarded-For value
func clientIP(forwardedFor string) *string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	return optional(first)
}

// Redeem records one redemption of a voucher. The vendor is taken from the
// voucher and must be active. A second redemption with the same external order reference
// fails with DuplicateRedemption and leaves the first one untouched.
func (s *RedemptionService) Redeem(ctx context.Context, in RedeemInput) (domain.Redemption, error) {
	if in.VoucherID == 0 {
		return domain.Redemption{}, validationError("voucher_id is required", "voucher_id")
	}
	if in.RedeemerID == 0 {
		return domain.Redemption{}, forbidden("redeemer is not authenticated")
	}
	v, err := s.store.FindVoucher(ctx, in.VoucherID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Redemption{}, notFound("voucher not found", err)
	}
	if err != nil {
		return domain.Redemption{}, storeError("failed to load voucher", err)
	}
	if err := activeVendor(ctx, s.store, v.VendorID); err != nil {
		return domain.Redemption{}, err
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = defaultRedemptionSource
	}
	device := optional(in.DeviceInfo)
	if device == nil {
		device = optional(in.UserAgent)
	}
	r := domain.Redemption{
		VoucherID:        v.ID,
		IdentityID:       in.RedeemerID,
		VendorID:         v.VendorID,
		ExternalOrderRef: CanonicalOrderRef(in.ExternalOrderRef),
		Source:           source,
		DeviceInfo:       device,
		IPAddress:        clientIP(in.ForwardedFor),
		Status:           domain.RedemptionActive,
		Note:             optional(in.Note),
		RedeemedAt:       s.now(),
	}
	if err := s.store.CreateRedemption(ctx, &r); err != nil {
		var de *repository.DuplicateError
		if errors.As(err, &de) && de.Index == "uniq_redemption_order_ref" {
			logrus.WithFields(logrus.Fields{
				"voucher_id": v.ID,
				"order_id":   *r.ExternalOrderRef,
			}).Warn("Duplicate redemption rejected")
			return domain.Redemption{}, &Error{
				Kind:    KindDuplicateRedemption,
				Message: "order_id already used",
				Fields:  []string{"order_id"},
				Err:     err,
			}
		}
		logrus.WithFields(logrus.Fields{"voucher_id": v.ID, "error": err.Error()}).Error("Redemption failed")
		return domain.Redemption{}, mapStoreError("redemption failed", err)
	}
	logrus.WithFields(logrus.Fields{
		"redemption_id": r.ID,
		"voucher_id":    r.VoucherID,
		"vendor_id":     r.VendorID,
		"identity_id":   r.IdentityID,
		"timestamp":     r.RedeemedAt.Format(time.RFC3339),
	}).Info("Voucher redeemed")
	return r, nil
}

// Filter resolves the effective filter for caller. Vendors are pinned to
// their own vendor profile whatever vendor filter they asked for.
func (s *RedemptionService) Filter(ctx context.Context, caller Caller, q RedemptionQuery) (repository.RedemptionFilter, error) {
	scope, err := s.guard.ScopeFor(ctx, caller, Scope{VendorID: q.VendorID, IdentityID: q.RedeemerID})
	if err != nil {
		return repository.RedemptionFilter{}, err
	}
	return repository.RedemptionFilter{
		VendorID:   scope.VendorID,
		IdentityID: scope.IdentityID,
		VoucherID:  q.VoucherID,
		Status:     q.Status,
		From:       q.From,
		To:         q.To,
		Page:       q.page(repository.RedemptionSortable, "redeemed_at"),
	}, nil
}

// Fetch runs an already scoped filter, counting and paging concurrently
func (s *RedemptionService) Fetch(ctx context.Context, f repository.RedemptionFilter) ([]domain.Redemption, int64, error) {
	var (
		items []domain.Redemption
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.ListRedemptions(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountRedemptions(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, storeError("failed to list redemptions", err)
	}
	return items, total, nil
}

// List returns the redemptions caller may see
func (s *RedemptionService) List(ctx context.Context, caller Caller, q RedemptionQuery) ([]domain.Redemption, int64, error) {
	f, err := s.Filter(ctx, caller, q)
	if err != nil {
		return nil, 0, err
	}
	return s.Fetch(ctx, f)
}
