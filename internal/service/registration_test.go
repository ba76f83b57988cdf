package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationService_RegisterMember(t *testing.T) {
	f := newFixture()
	aff := f.affiliate(t, "aff@example.com")
	require.NotNil(t, aff.Affiliate)

	res := f.register(t, RegisterInput{
		Role:         domain.RoleMember,
		Name:         "  Budi  ",
		Email:        " Budi@Example.com ",
		ReferralCode: aff.Affiliate.ReferralCode,
		Commission:   ptr(dec("12.345")),
	})

	require.NotNil(t, res.Member)
	require.NotNil(t, res.Commission)
	assert.Equal(t, domain.RoleMember, res.Identity.Role)
	assert.Equal(t, "budi@example.com", res.Identity.Email)
	assert.Equal(t, "Budi", res.Member.Name)
	assert.True(t, validCode(domain.CodeMember, res.Member.Code))
	assert.Equal(t, aff.Affiliate.ID, res.Member.AffiliateID)
	assert.Equal(t, res.Identity.ID, res.Member.IdentityID)

	ledger := f.store.Commissions()
	require.Len(t, ledger, 1)
	assert.Equal(t, aff.Affiliate.ID, ledger[0].AffiliateID)
	assert.Equal(t, res.Member.ID, ledger[0].MemberID)
	assert.Nil(t, ledger[0].OrderID)
	assert.Equal(t, "12.35", ledger[0].Amount.StringFixed(2))
	assert.Equal(t, domain.CommissionPending, ledger[0].Status)
}

func TestRegistrationService_DefaultCommissionIsZero(t *testing.T) {
	f := newFixture()
	aff := f.affiliate(t, "aff@example.com")
	f.member(t, "m@example.com", aff.Affiliate.ReferralCode)

	ledger := f.store.Commissions()
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].Amount.IsZero())
}

func TestRegistrationService_ReferralMatchIgnoresCaseAndSpace(t *testing.T) {
	f := newFixture()
	aff := f.affiliate(t, "aff@example.com")
	res := f.member(t, "m@example.com", "  "+strings.ToLower(aff.Affiliate.ReferralCode)+" ")
	assert.Equal(t, aff.Affiliate.ID, res.Member.AffiliateID)
}

func TestRegistrationService_RegisterAffiliate(t *testing.T) {
	f := newFixture()
	res := f.affiliate(t, "aff@example.com")

	require.NotNil(t, res.Affiliate)
	assert.True(t, validCode(domain.CodeAffiliate, res.Affiliate.Code))
	assert.True(t, validCode(domain.CodeReferral, res.Affiliate.ReferralCode))
	assert.Equal(t, "10.00", res.Affiliate.CommissionRate.StringFixed(2))
	assert.True(t, res.Affiliate.Active())
	assert.Empty(t, f.store.Commissions())
}

func TestRegistrationService_RegisterVendorAndAdmin(t *testing.T) {
	f := newFixture()

	v := f.vendor(t, "shop@example.com")
	require.NotNil(t, v.Vendor)
	assert.True(t, validCode(domain.CodeVendor, v.Vendor.Code))

	supplied := f.register(t, RegisterInput{Role: domain.RoleVendor, Name: "Shop 2", Email: "shop2@example.com", Code: "MY-SHOP"})
	assert.Equal(t, "MY-SHOP", supplied.Vendor.Code)

	_, err := f.reg.Register(context.Background(), RegisterInput{Role: domain.RoleVendor, Name: "Shop 3", Email: "shop3@example.com", Code: "MY-SHOP"})
	assertKind(t, err, KindDuplicateData, "code")

	a := f.admin(t)
	require.NotNil(t, a.Admin)
	assert.Equal(t, a.Identity.ID, a.Admin.IdentityID)
}

func TestRegistrationService_RegisterFailures(t *testing.T) {
	testCases := []struct {
		name       string
		prepare    func(t *testing.T, f *fixture) RegisterInput
		wantKind   Kind
		wantFields []string
	}{
		{
			name:    "unknown referral code",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				return RegisterInput{Role: domain.RoleMember, Name: "M", Email: "m@example.com", ReferralCode: "REFNOPE22"}
			},
			wantKind:   KindReferralInvalid,
			wantFields: []string{"referral_code"},
		},
		{
			name:    "suspended affiliate",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				aff := f.affiliate(t, "aff@example.com")
				_, err := f.reg.SetAffiliateStatus(context.Background(), aff.Affiliate.ID, domain.StatusSuspended)
				require.NoError(t, err)
				return RegisterInput{Role: domain.RoleMember, Name: "M", Email: "m@example.com", ReferralCode: aff.Affiliate.ReferralCode}
			},
			wantKind:   KindReferralSuspended,
			wantFields: []string{"referral_code"},
		},
		{
			name:    "email already registered",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				f.vendor(t, "taken@example.com")
				return RegisterInput{Role: domain.RoleAffiliate, Name: "A", Email: "TAKEN@example.com"}
			},
			wantKind:   KindDuplicateData,
			wantFields: []string{"email"},
		},
		{
			name:    "member without referral",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				return RegisterInput{Role: domain.RoleMember, Name: "M", Email: "m@example.com"}
			},
			wantKind:   KindValidation,
			wantFields: []string{"referral_code"},
		},
		{
			name:    "malformed email",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				return RegisterInput{Role: domain.RoleVendor, Name: "V", Email: "not-an-email"}
			},
			wantKind:   KindValidation,
			wantFields: []string{"email"},
		},
		{
			name:    "short password",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				return RegisterInput{Role: domain.RoleVendor, Name: "V", Email: "v@example.com", Password: "short"}
			},
			wantKind:   KindValidation,
			wantFields: []string{"password"},
		},
		{
			name:    "commission rate above 100",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				return RegisterInput{Role: domain.RoleAffiliate, Name: "A", Email: "a@example.com", CommissionRate: ptr(dec("100.01"))}
			},
			wantKind:   KindValidation,
			wantFields: []string{"commission_rate"},
		},
		{
			name:    "caller supplied affiliate code in use",
			prepare: func(t *testing.T, f *fixture) RegisterInput {
				aff := f.affiliate(t, "aff@example.com")
				return RegisterInput{Role: domain.RoleAffiliate, Name: "A", Email: "a2@example.com", Code: aff.Affiliate.Code}
			},
			wantKind:   KindDuplicateData,
			wantFields: []string{"code"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := tc.prepare(t, f)
			_, err := f.reg.Register(context.Background(), in)
			assertKind(t, err, tc.wantKind, tc.wantFields...)

			email, _ := NormalizeEmail(in.Email)
			if email != "" && tc.wantKind != KindDuplicateData {
				_, err = f.store.FindIdentityByEmail(context.Background(), email)
				assert.ErrorIs(t, err, repository.ErrNotFound, "no identity may be left behind")
			}
		})
	}
}

func TestRegistrationService_RollsBackOnFailure(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		err        error
		wantKind   Kind
		wantFields []string
	}{
		{name: "ledger insert fails", method: "CreateCommission", err: errors.New("disk full"), wantKind: KindStore},
		{name: "profile insert fails", method: "CreateMember", err: errors.New("deadlock"), wantKind: KindStore},
		{
			name:       "unique index hit at commit",
			method:     "CreateMember",
			err:        repository.NewDuplicateError("uniq_member_code", errors.New("duplicate")),
			wantKind:   KindDuplicateData,
			wantFields: []string{"code"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			aff := f.affiliate(t, "aff@example.com")
			f.store.FailOn(tc.method, tc.err)

			_, err := f.reg.Register(context.Background(), RegisterInput{
				Role: domain.RoleMember, Name: "M", Email: "m@example.com", ReferralCode: aff.Affiliate.ReferralCode,
			})
			assertKind(t, err, tc.wantKind, tc.wantFields...)

			f.store.FailOn(tc.method, nil)
			exists, err := f.store.IdentityEmailExists(context.Background(), "m@example.com")
			require.NoError(t, err)
			assert.False(t, exists)
			assert.Empty(t, f.store.Commissions())

			// The same email registers cleanly once the fault is gone
			f.member(t, "m@example.com", aff.Affiliate.ReferralCode)
		})
	}
}

func TestRegistrationService_Authenticate(t *testing.T) {
	f := newFixture()
	v := f.vendor(t, "shop@example.com")
	f.register(t, RegisterInput{Role: domain.RoleAffiliate, Name: "A", Email: "a@example.com", Password: "s3cret-pass"})

	id, err := f.reg.Authenticate(context.Background(), "SHOP@example.com", "12345")
	require.NoError(t, err)
	assert.Equal(t, v.Identity.ID, id.ID)

	_, err = f.reg.Authenticate(context.Background(), "a@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = f.reg.Authenticate(context.Background(), "a@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.reg.Authenticate(context.Background(), "ghost@example.com", "12345")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegistrationService_SetAffiliateStatus(t *testing.T) {
	f := newFixture()
	aff := f.affiliate(t, "aff@example.com")

	_, err := f.reg.SetAffiliateStatus(context.Background(), aff.Affiliate.ID, domain.Status(9))
	assertKind(t, err, KindValidation, "status")
	_, err = f.reg.SetAffiliateStatus(context.Background(), 999, domain.StatusSuspended)
	assertKind(t, err, KindNotFound)

	a, err := f.reg.SetAffiliateStatus(context.Background(), aff.Affiliate.ID, domain.StatusSuspended)
	require.NoError(t, err)
	assert.False(t, a.Active())

	a, err = f.reg.SetAffiliateStatus(context.Background(), aff.Affiliate.ID, domain.StatusActive)
	require.NoError(t, err)
	assert.True(t, a.Active())
	f.member(t, "m@example.com", aff.Affiliate.ReferralCode)
}

func TestRegistrationService_SetVendorStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	vendor := f.vendor(t, "shop@example.com")
	assert.True(t, vendor.Vendor.Active())

	_, err := f.reg.SetVendorStatus(ctx, vendor.Vendor.ID, domain.Status(9))
	assertKind(t, err, KindValidation, "status")
	_, err = f.reg.SetVendorStatus(ctx, 999, domain.StatusSuspended)
	assertKind(t, err, KindNotFound)

	v, err := f.reg.SetVendorStatus(ctx, vendor.Vendor.ID, domain.StatusSuspended)
	require.NoError(t, err)
	assert.False(t, v.Active())
	stored, err := f.store.FindVendor(ctx, vendor.Vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, stored.Status)

	f.store.FailOn("UpdateVendorStatus", errors.New("read only"))
	_, err = f.reg.SetVendorStatus(ctx, vendor.Vendor.ID, domain.StatusActive)
	assertKind(t, err, KindStore)
}

func TestRegistrationService_RegisterConcurrently(t *testing.T) {
	testCases := []struct {
		name       string
		input      func(i int) RegisterInput
		wantFields []string
	}{
		{
			name:  "same email",
			input: func(int) RegisterInput {
				return RegisterInput{Role: domain.RoleAffiliate, Name: "A", Email: "same@example.com"}
			},
			wantFields: []string{"email"},
		},
		{
			name:  "same vendor code",
			input: func(i int) RegisterInput {
				return RegisterInput{Role: domain.RoleVendor, Name: "V", Email: fmt.Sprintf("v%d@example.com", i), Code: "VSHOP01"}
			},
			wantFields: []string{"code"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			const callers = 30

			errs := make([]error, callers)
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = f.reg.Register(context.Background(), tc.input(i))
				}(i)
			}
			wg.Wait()

			ok := 0
			for _, err := range errs {
				if err == nil {
					ok++
					continue
				}
				assertKind(t, err, KindDuplicateData, tc.wantFields...)
			}
			assert.Equal(t, 1, ok)
		})
	}
}

func TestRegistrationService_UpdateMemberProfileKeepsAffiliate(t *testing.T) {
	f := newFixture()
	aff := f.affiliate(t, "aff@example.com")
	m := f.member(t, "m@example.com", aff.Affiliate.ReferralCode)

	city := "Bandung"
	updated, err := f.reg.UpdateMemberProfile(context.Background(), m.Member.ID, "Renamed", domain.Address{City: city, Instagram: ptr("@renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, city, updated.City)
	assert.Equal(t, aff.Affiliate.ID, updated.AffiliateID)
	require.NotNil(t, updated.Affiliate)
	assert.Equal(t, aff.Affiliate.ReferralCode, updated.Affiliate.ReferralCode)

	_, err = f.reg.UpdateMemberProfile(context.Background(), m.Member.ID, " ", domain.Address{})
	assertKind(t, err, KindValidation, "name")
	_, err = f.reg.UpdateMemberProfile(context.Background(), 999, "X", domain.Address{})
	assertKind(t, err, KindNotFound)
}

// assertKind checks err is a service error of kind, optionally naming fields
func assertKind(t *testing.T, err error, kind Kind, fields ...string) {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, kind, se.Kind, "error: %v", err)
	if len(fields) > 0 {
		assert.Equal(t, fields, se.Fields)
	}
}
