package repository

import (
	"context"

	"voucher_market/internal/domain"

	"gorm.io/gorm"
)

// CreateRedemption inserts one redemption. A repeated non-null external
// order reference fails with a DuplicateError on uniq_redemption_order_ref.
func (s *GormStore) CreateRedemption(ctx context.Context, r *domain.Redemption) error {
	return translate(s.conn(ctx).Omit("Voucher").Create(r).Error)
}

func redemptionQuery(db *gorm.DB, f RedemptionFilter) *gorm.DB {
	q := db.Model(&domain.Redemption{})
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", *f.VendorID)
	}
	if f.IdentityID != nil {
		q = q.Where("identity_id = ?", *f.IdentityID)
	}
	if f.VoucherID != nil {
		q = q.Where("voucher_id = ?", *f.VoucherID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("redeemed_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("redeemed_at < ?", *f.To)
	}
	return q
}

func (s *GormStore) ListRedemptions(ctx context.Context, f RedemptionFilter) ([]domain.Redemption, error) {
	var res []domain.Redemption
	err := redemptionQuery(s.conn(ctx), f).
		Preload("Voucher").
		Order(orderBy(f.Page, RedemptionSortable, "redeemed_at")).
		Offset(f.Offset).Limit(f.Limit).
		Find(&res).Error
	return res, err
}

func (s *GormStore) CountRedemptions(ctx context.Context, f RedemptionFilter) (int64, error) {
	var n int64
	err := redemptionQuery(s.conn(ctx), f).Count(&n).Error
	return n, err
}
