package repository

import (
	"context"
	"fmt"

	"voucher_market/internal/domain"

	"gorm.io/gorm"
)

// GormStore implements Store on top of gorm and MySQL
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an opened gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction runs fn inside one database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx}) // Bind every call in fn to tx
	})
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// codeColumns maps each code kind onto its uniquely indexed column
var codeColumns = map[domain.CodeKind]struct {
	model  any
	column string
}{
	domain.CodeAffiliate: {&domain.Affiliate{}, "code"},
	domain.CodeReferral:  {&domain.Affiliate{}, "referral_code"},
	domain.CodeMember:    {&domain.Member{}, "code"},
	domain.CodeOrder:     {&domain.Order{}, "code"},
	domain.CodeVoucher:   {&domain.Voucher{}, "code"},
	domain.CodeVendor:    {&domain.Vendor{}, "code"},
}

// CodeExists checks a candidate code against its unique column
func (s *GormStore) CodeExists(ctx context.Context, kind domain.CodeKind, code string) (bool, error) {
	target, ok := codeColumns[kind]
	if !ok {
		return false, fmt.Errorf("unknown code kind %d", kind)
	}
	var n int64
	err := s.conn(ctx).Model(target.model).Where(target.column+" = ?", code).Count(&n).Error
	return n > 0, err
}
