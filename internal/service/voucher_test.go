package service

import (
	"context"
	"testing"
	"time"

	"voucher_market/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherService_Create(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	cat, err := s.f.vouchers.CreateCategory(ctx, callerOf(s.admin), "  Dining ")
	require.NoError(t, err)
	assert.Equal(t, "Dining", cat.Name)

	rival := s.f.vendor(t, "rival@example.com")
	v, err := s.f.vouchers.Create(ctx, callerOf(s.vendor), CreateVoucherInput{
		VendorID:   rival.Vendor.ID,
		CategoryID: cat.ID,
		Title:      " Dinner for two ",
		Price:      dec("49.999"),
		Inventory:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, s.vendor.Vendor.ID, v.VendorID, "vendors create under their own profile")
	assert.Equal(t, "Dinner for two", v.Title)
	assert.Equal(t, "50.00", v.Price.StringFixed(2))
	assert.Equal(t, domain.VoucherDraft, v.Status)
	assert.True(t, validCode(domain.CodeVoucher, v.Code))

	v, err = s.f.vouchers.Create(ctx, callerOf(s.admin), CreateVoucherInput{
		VendorID:   rival.Vendor.ID,
		CategoryID: cat.ID,
		Code:       "GIFT-2026",
		Title:      "Gift card",
		Price:      dec("25"),
		Status:     ptr(domain.VoucherPublished),
	})
	require.NoError(t, err)
	assert.Equal(t, rival.Vendor.ID, v.VendorID)
	assert.Equal(t, "GIFT-2026", v.Code)
	assert.Equal(t, domain.VoucherPublished, v.Status)

	_, err = s.f.vouchers.Create(ctx, callerOf(s.vendor), CreateVoucherInput{CategoryID: cat.ID, Code: "GIFT-2026", Title: "Copy"})
	assertKind(t, err, KindDuplicateData, "code")
}

func TestVoucherService_CreateRejects(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	cat, err := s.f.vouchers.CreateCategory(ctx, callerOf(s.admin), "Travel")
	require.NoError(t, err)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	testCases := []struct {
		name       string
		caller     Caller
		input      CreateVoucherInput
		wantKind   Kind
		wantFields []string
	}{
		{
			name:     "member",
			caller:   callerOf(s.member),
			input:    CreateVoucherInput{CategoryID: cat.ID, Title: "x"},
			wantKind: KindForbidden,
		},
		{
			name:       "admin without vendor",
			caller:     callerOf(s.admin),
			input:      CreateVoucherInput{CategoryID: cat.ID, Title: "x"},
			wantKind:   KindValidation,
			wantFields: []string{"vendor_id"},
		},
		{
			name:       "blank title",
			caller:     callerOf(s.vendor),
			input:      CreateVoucherInput{CategoryID: cat.ID, Title: "  "},
			wantKind:   KindValidation,
			wantFields: []string{"title"},
		},
		{
			name:       "negative price",
			caller:     callerOf(s.vendor),
			input:      CreateVoucherInput{CategoryID: cat.ID, Title: "x", Price: dec("-0.01")},
			wantKind:   KindValidation,
			wantFields: []string{"price"},
		},
		{
			name:       "window ends before it starts",
			caller:     callerOf(s.vendor),
			input:      CreateVoucherInput{CategoryID: cat.ID, Title: "x", StartAt: &start, EndAt: &before},
			wantKind:   KindValidation,
			wantFields: []string{"end_at"},
		},
		{
			name:       "unknown status",
			caller:     callerOf(s.vendor),
			input:      CreateVoucherInput{CategoryID: cat.ID, Title: "x", Status: ptr(domain.VoucherStatus(9))},
			wantKind:   KindValidation,
			wantFields: []string{"status"},
		},
		{
			name:     "admin names an unknown vendor",
			caller:   callerOf(s.admin),
			input:    CreateVoucherInput{VendorID: 4040, CategoryID: cat.ID, Title: "x"},
			wantKind: KindNotFound,
		},
		{
			name:     "unknown category",
			caller:   callerOf(s.vendor),
			input:    CreateVoucherInput{CategoryID: 4040, Title: "x"},
			wantKind: KindNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.f.vouchers.Create(ctx, tc.caller, tc.input)
			assertKind(t, err, tc.wantKind, tc.wantFields...)
		})
	}
}

func TestVoucherService_CreateRefusesSuspendedVendor(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	cat, err := s.f.vouchers.CreateCategory(ctx, callerOf(s.admin), "Spa")
	require.NoError(t, err)
	_, err = s.f.reg.SetVendorStatus(ctx, s.vendor.Vendor.ID, domain.StatusSuspended)
	require.NoError(t, err)

	in := CreateVoucherInput{VendorID: s.vendor.Vendor.ID, CategoryID: cat.ID, Title: "Massage"}
	_, err = s.f.vouchers.Create(ctx, callerOf(s.vendor), in)
	assertKind(t, err, KindForbidden)
	_, err = s.f.vouchers.Create(ctx, callerOf(s.admin), in)
	assertKind(t, err, KindForbidden)

	_, err = s.f.reg.SetVendorStatus(ctx, s.vendor.Vendor.ID, domain.StatusActive)
	require.NoError(t, err)
	v, err := s.f.vouchers.Create(ctx, callerOf(s.vendor), in)
	require.NoError(t, err)
	assert.Equal(t, s.vendor.Vendor.ID, v.VendorID)
}

func TestVoucherService_SetStatus(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()
	rival := s.f.vendor(t, "rival@example.com")

	v, err := s.f.vouchers.SetStatus(ctx, callerOf(s.vendor), s.a.ID, domain.VoucherArchived)
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherArchived, v.Status)

	_, err = s.f.vouchers.SetStatus(ctx, callerOf(rival), s.a.ID, domain.VoucherPublished)
	assertKind(t, err, KindNotFound)

	v, err = s.f.vouchers.SetStatus(ctx, callerOf(s.admin), s.a.ID, domain.VoucherPublished)
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherPublished, v.Status)

	_, err = s.f.vouchers.SetStatus(ctx, callerOf(s.member), s.a.ID, domain.VoucherDraft)
	assertKind(t, err, KindForbidden)

	_, err = s.f.vouchers.SetStatus(ctx, callerOf(s.admin), s.a.ID, domain.VoucherStatus(7))
	assertKind(t, err, KindValidation, "status")

	_, err = s.f.vouchers.SetStatus(ctx, callerOf(s.admin), 4040, domain.VoucherDraft)
	assertKind(t, err, KindNotFound)
}

func TestVoucherService_CreateCategory(t *testing.T) {
	s := newShop(t)
	ctx := context.Background()

	_, err := s.f.vouchers.CreateCategory(ctx, callerOf(s.vendor), "Spa")
	assertKind(t, err, KindForbidden)

	_, err = s.f.vouchers.CreateCategory(ctx, callerOf(s.admin), " ")
	assertKind(t, err, KindValidation, "name")

	_, err = s.f.vouchers.CreateCategory(ctx, callerOf(s.admin), "Spa")
	require.NoError(t, err)
	_, err = s.f.vouchers.CreateCategory(ctx, callerOf(s.admin), "spa")
	assertKind(t, err, KindDuplicateData, "name")
}
