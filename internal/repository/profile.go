package repository

import (
	"context"

	"voucher_market/internal/domain"
)

func (s *GormStore) CreateAffiliate(ctx context.Context, a *domain.Affiliate) error {
	return translate(s.conn(ctx).Create(a).Error)
}

func (s *GormStore) FindAffiliate(ctx context.Context, id uint) (domain.Affiliate, error) {
	var res domain.Affiliate
	err := s.conn(ctx).First(&res, id).Error
	return res, err
}

func (s *GormStore) FindAffiliateByReferral(ctx context.Context, referral string) (domain.Affiliate, error) {
	var res domain.Affiliate
	err := s.conn(ctx).Where("referral_code = ?", referral).Take(&res).Error
	return res, err
}

func (s *GormStore) UpdateAffiliateStatus(ctx context.Context, id uint, status domain.Status) error {
	return s.conn(ctx).Model(&domain.Affiliate{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) CreateMember(ctx context.Context, m *domain.Member) error {
	return translate(s.conn(ctx).Omit("Affiliate").Create(m).Error)
}

func (s *GormStore) FindMember(ctx context.Context, id uint) (domain.Member, error) {
	var res domain.Member
	err := s.conn(ctx).Preload("Affiliate").First(&res, id).Error
	return res, err
}

// UpdateMemberProfile rewrites contact fields only; affiliate_id is create-only
func (s *GormStore) UpdateMemberProfile(ctx context.Context, id uint, name string, addr domain.Address) error {
	return s.conn(ctx).Model(&domain.Member{}).Where("id = ?", id).Updates(map[string]any{
		"name":        name,
		"address":     addr.Address,
		"city":        addr.City,
		"province":    addr.Province,
		"postal_code": addr.PostalCode,
		"twitter":     addr.Twitter,
		"instagram":   addr.Instagram,
		"tiktok":      addr.Tiktok,
	}).Error
}

func (s *GormStore) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	return translate(s.conn(ctx).Create(v).Error)
}

func (s *GormStore) FindVendor(ctx context.Context, id uint) (domain.Vendor, error) {
	var res domain.Vendor
	err := s.conn(ctx).First(&res, id).Error
	return res, err
}

func (s *GormStore) UpdateVendorStatus(ctx context.Context, id uint, status domain.Status) error {
	return s.conn(ctx).Model(&domain.Vendor{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	return translate(s.conn(ctx).Create(a).Error)
}
