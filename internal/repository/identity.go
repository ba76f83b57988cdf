package repository

import (
	"context"
	"fmt"

	"voucher_market/internal/domain"
)

func (s *GormStore) IdentityEmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&domain.Identity{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// profileModel returns the profile table model for a role
func profileModel(role domain.Role) (any, error) {
	switch role {
	case domain.RoleAffiliate:
		return &domain.Affiliate{}, nil
	case domain.RoleMember:
		return &domain.Member{}, nil
	case domain.RoleVendor:
		return &domain.Vendor{}, nil
	case domain.RoleAdmin:
		return &domain.Admin{}, nil
	}
	return nil, fmt.Errorf("no profile table for role %s", role)
}

func (s *GormStore) ProfileEmailExists(ctx context.Context, role domain.Role, email string) (bool, error) {
	model, err := profileModel(role)
	if err != nil {
		return false, err
	}
	var n int64
	err = s.conn(ctx).Model(model).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (s *GormStore) CreateIdentity(ctx context.Context, identity *domain.Identity) error {
	return translate(s.conn(ctx).Create(identity).Error)
}

func (s *GormStore) FindIdentity(ctx context.Context, id uint) (domain.Identity, error) {
	var res domain.Identity
	err := s.conn(ctx).First(&res, id).Error
	return res, err
}

func (s *GormStore) FindIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var res domain.Identity
	err := s.conn(ctx).Where("email = ?", email).Take(&res).Error
	return res, err
}

// FindProfileID resolves the profile row owned by an identity
func (s *GormStore) FindProfileID(ctx context.Context, role domain.Role, identityID uint) (uint, error) {
	model, err := profileModel(role)
	if err != nil {
		return 0, err
	}
	var ids []uint
	if err := s.conn(ctx).Model(model).Where("identity_id = ?", identityID).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}
