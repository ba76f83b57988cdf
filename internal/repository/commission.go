package repository

import (
	"context"

	"voucher_market/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *GormStore) CreateCommission(ctx context.Context, c *domain.Commission) error {
	return translate(s.conn(ctx).Create(c).Error)
}

// ReverseOrderCommissions marks every live commission of an order reversed
func (s *GormStore) ReverseOrderCommissions(ctx context.Context, orderID uint) (int64, error) {
	res := s.conn(ctx).Model(&domain.Commission{}).
		Where("order_id = ? AND status <> ?", orderID, domain.CommissionReversed).
		Update("status", domain.CommissionReversed)
	return res.RowsAffected, res.Error
}

func commissionQuery(db *gorm.DB, f CommissionFilter) *gorm.DB {
	q := db.Model(&domain.Commission{})
	if f.AffiliateID != nil {
		q = q.Where("affiliate_id = ?", *f.AffiliateID)
	}
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}

// SummarizeCommissions runs the SUM, COUNT and GROUP BY aggregates server side
func (s *GormStore) SummarizeCommissions(ctx context.Context, f CommissionFilter) (CommissionSummary, error) {
	var res CommissionSummary
	var agg struct {
		Total decimal.Decimal
		Count int64
	}
	if err := commissionQuery(s.conn(ctx), f).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&agg).Error; err != nil {
		return res, err
	}
	res.Total, res.Count = agg.Total, agg.Count
	if err := commissionQuery(s.conn(ctx), f).
		Select("status, COUNT(*) AS count").
		Group("status").Order("status").
		Scan(&res.ByStatus).Error; err != nil {
		return res, err
	}
	var monthly []struct {
		Month string
		Total decimal.Decimal
	}
	if err := commissionQuery(s.conn(ctx), f).
		Select("DATE_FORMAT(created_at, '%Y-%m') AS month, SUM(amount) AS total").
		Group("month").Order("month").
		Scan(&monthly).Error; err != nil {
		return res, err
	}
	for _, m := range monthly {
		res.Monthly = append(res.Monthly, MonthlyTotal{Month: m.Month, Total: m.Total})
	}
	return res, nil
}
