package repository

import (
	"context"

	"voucher_market/internal/domain"

	"gorm.io/gorm"
)

// CreateOrder inserts the header and its lines in one nested create
func (s *GormStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	return translate(s.conn(ctx).Omit("Member").Create(o).Error)
}

// FindOrder loads an order with its member, lines and line vouchers
func (s *GormStore) FindOrder(ctx context.Context, id uint) (domain.Order, error) {
	var res domain.Order
	err := s.conn(ctx).
		Preload("Member").
		Preload("Lines").
		Preload("Lines.Voucher").
		First(&res, id).Error
	return res, err
}

func orderQuery(db *gorm.DB, f OrderFilter) *gorm.DB {
	q := db.Model(&domain.Order{})
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if f.PaymentStatus != nil {
		q = q.Where("payment_status = ?", *f.PaymentStatus)
	}
	return q
}

func (s *GormStore) ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	var res []domain.Order
	err := orderQuery(s.conn(ctx), f).
		Preload("Lines").
		Order(orderBy(f.Page, OrderSortable, "ordered_at")).
		Offset(f.Offset).Limit(f.Limit).
		Find(&res).Error
	return res, err
}

func (s *GormStore) CountOrders(ctx context.Context, f OrderFilter) (int64, error) {
	var n int64
	err := orderQuery(s.conn(ctx), f).Count(&n).Error
	return n, err
}

// TransitionOrderPayment moves an order from one payment status to another.
// It reports false when the order was not in the from status.
func (s *GormStore) TransitionOrderPayment(ctx context.Context, id uint, from, to domain.PaymentStatus) (bool, error) {
	res := s.conn(ctx).Model(&domain.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	return res.RowsAffected == 1, res.Error
}

// orderBy renders a safe ORDER BY clause; unknown columns fall back to def
func orderBy(p Page, allowed func(string) bool, def string) string {
	col := p.SortBy
	if !allowed(col) {
		col = def
	}
	dir := " DESC"
	if p.Asc {
		dir = " ASC"
	}
	if col == "id" {
		return col + dir
	}
	return col + dir + ", id" + dir
}
