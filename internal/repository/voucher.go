package repository

import (
	"context"

	"voucher_market/internal/domain"
)

func (s *GormStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	return translate(s.conn(ctx).Create(c).Error)
}

func (s *GormStore) FindCategory(ctx context.Context, id uint) (domain.Category, error) {
	var res domain.Category
	err := s.conn(ctx).First(&res, id).Error
	return res, err
}

func (s *GormStore) CreateVoucher(ctx context.Context, v *domain.Voucher) error {
	return translate(s.conn(ctx).Create(v).Error)
}

func (s *GormStore) FindVoucher(ctx context.Context, id uint) (domain.Voucher, error) {
	var res domain.Voucher
	err := s.conn(ctx).First(&res, id).Error
	return res, err
}

func (s *GormStore) UpdateVoucherStatus(ctx context.Context, id uint, status domain.VoucherStatus) error {
	return s.conn(ctx).Model(&domain.Voucher{}).Where("id = ?", id).Update("status", status).Error
}
