package service

import (
	"context"
	"testing"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store       *memstore.Store
	codes       *CodeGenerator
	guard       *Guard
	reg         *RegistrationService
	orders      *OrderService
	redemptions *RedemptionService
	vouchers    *VoucherService
	commissions *CommissionService
}

func newFixture() *fixture {
	store := memstore.New()
	codes := NewCodeGenerator(store)
	guard := NewGuard(store)
	return &fixture{
		store:       store,
		codes:       codes,
		guard:       guard,
		reg:         NewRegistrationService(store, codes, "12345", bcrypt.MinCost),
		orders:      NewOrderService(store, codes, guard),
		redemptions: NewRedemptionService(store, guard),
		vouchers:    NewVoucherService(store, codes, guard),
		commissions: NewCommissionService(store, guard),
	}
}

func (f *fixture) register(t *testing.T, in RegisterInput) Registration {
	t.Helper()
	res, err := f.reg.Register(context.Background(), in)
	require.NoError(t, err)
	return res
}

func (f *fixture) affiliate(t *testing.T, email string) Registration {
	return f.register(t, RegisterInput{Role: domain.RoleAffiliate, Name: "Affiliate", Email: email})
}

func (f *fixture) member(t *testing.T, email, referral string) Registration {
	return f.register(t, RegisterInput{Role: domain.RoleMember, Name: "Member", Email: email, ReferralCode: referral})
}

func (f *fixture) vendor(t *testing.T, email string) Registration {
	return f.register(t, RegisterInput{Role: domain.RoleVendor, Name: "Vendor", Email: email})
}

func (f *fixture) admin(t *testing.T) Registration {
	return f.register(t, RegisterInput{Role: domain.RoleAdmin, Name: "Admin", Email: "admin@example.com"})
}

// voucher stores a published voucher of vendorID at price
func (f *fixture) voucher(t *testing.T, vendorID uint, price string) domain.Voucher {
	t.Helper()
	ctx := context.Background()
	code, err := f.codes.Generate(ctx, domain.CodeVoucher)
	require.NoError(t, err)
	cat := domain.Category{Name: "cat-" + code}
	require.NoError(t, f.store.CreateCategory(ctx, &cat))
	v := domain.Voucher{
		VendorID:   vendorID,
		CategoryID: cat.ID,
		Code:       code,
		Title:      "Voucher " + code,
		Price:      decimal.RequireFromString(price),
		Inventory:  10,
		Status:     domain.VoucherPublished,
	}
	require.NoError(t, f.store.CreateVoucher(ctx, &v))
	return v
}

func callerOf(r Registration) Caller {
	return Caller{IdentityID: r.Identity.ID, Role: r.Identity.Role}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
