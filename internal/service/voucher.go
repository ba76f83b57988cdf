package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CreateVoucherInput carries one voucher definition
type CreateVoucherInput struct {
	VendorID    uint // Ignored for vendor callers
	CategoryID  uint
	Code        string // Optional; a 15 digit code is generated when empty
	Title       string
	Description string
	Price       decimal.Decimal
	Inventory   int
	StartAt     *time.Time
	EndAt       *time.Time
	Status      *domain.VoucherStatus
}

// VoucherService manages the vendor voucher catalogue
type VoucherService struct {
	store repository.Store
	codes *CodeGenerator
	guard *Guard
}

// NewVoucherService wires a VoucherService
func NewVoucherService(store repository.Store, codes *CodeGenerator, guard *Guard) *VoucherService {
	return &VoucherService{store: store, codes: codes, guard: guard}
}

// Create adds a voucher. Vendor callers always create under their own
// vendor profile; admins must name the vendor.
func (s *VoucherService) Create(ctx context.Context, caller Caller, in CreateVoucherInput) (domain.Voucher, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		if in.VendorID == 0 {
			return domain.Voucher{}, validationError("vendor_id is required", "vendor_id")
		}
	case domain.RoleVendor:
		id, err := s.guard.ProfileID(ctx, caller)
		if err != nil {
			return domain.Voucher{}, err
		}
		in.VendorID = id
	default:
		return domain.Voucher{}, forbidden("only vendors and admins can create vouchers")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Code = strings.TrimSpace(in.Code)
	switch {
	case in.Title == "":
		return domain.Voucher{}, validationError("title is required", "title")
	case in.CategoryID == 0:
		return domain.Voucher{}, validationError("category_id is required", "category_id")
	case in.Price.IsNegative():
		return domain.Voucher{}, validationError("price must not be negative", "price")
	case in.Inventory < 0:
		return domain.Voucher{}, validationError("inventory must not be negative", "inventory")
	case in.StartAt != nil && in.EndAt != nil && in.EndAt.Before(*in.StartAt):
		return domain.Voucher{}, validationError("end_at must not be before start_at", "end_at")
	case in.Status != nil && !in.Status.Valid():
		return domain.Voucher{}, validationError("status is invalid", "status")
	}
	if _, err := s.store.FindCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Voucher{}, notFound("category not found", err)
		}
		return domain.Voucher{}, storeError("failed to load category", err)
	}
	if err := activeVendor(ctx, s.store, in.VendorID); err != nil {
		return domain.Voucher{}, err
	}

	code := in.Code
	if code == "" {
		var err error
		if code, err = s.codes.Generate(ctx, domain.CodeVoucher); err != nil {
			return domain.Voucher{}, err
		}
	} else {
		taken, err := s.store.CodeExists(ctx, domain.CodeVoucher, code)
		if err != nil {
			return domain.Voucher{}, storeError("failed to check code uniqueness", err)
		}
		if taken {
			return domain.Voucher{}, &Error{Kind: KindDuplicateData, Message: "voucher code already used", Fields: []string{"code"}}
		}
	}

	v := domain.Voucher{
		VendorID:    in.VendorID,
		CategoryID:  in.CategoryID,
		Code:        code,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Inventory:   in.Inventory,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		Status:      domain.VoucherDraft,
	}
	if in.Status != nil {
		v.Status = *in.Status
	}
	if err := s.store.CreateVoucher(ctx, &v); err != nil {
		logrus.WithFields(logrus.Fields{"vendor_id": in.VendorID, "error": err.Error()}).Error("Voucher creation failed")
		return domain.Voucher{}, mapStoreError("voucher creation failed", err)
	}
	logrus.WithFields(logrus.Fields{"voucher_id": v.ID, "vendor_id": v.VendorID, "code": v.Code}).Info("Voucher created")
	return v, nil
}

// activeVendor loads a vendor and refuses one that is suspended
func activeVendor(ctx context.Context, store repository.Store, id uint) error {
	vendor, err := store.FindVendor(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("vendor not found", err)
	}
	if err != nil {
		return storeError("failed to load vendor", err)
	}
	if !vendor.Active() {
		logrus.WithFields(logrus.Fields{"vendor_id": id}).Warn("Suspended vendor refused")
		return forbidden("vendor is suspended")
	}
	return nil
}

// SetStatus changes a voucher's status. Vendors may only touch their own.
func (s *VoucherService) SetStatus(ctx context.Context, caller Caller, id uint, status domain.VoucherStatus) (domain.Voucher, error) {
	if !status.Valid() {
		return domain.Voucher{}, validationError("status is invalid", "status")
	}
	if !caller.IsAdmin() && caller.Role != domain.RoleVendor {
		return domain.Voucher{}, forbidden("only vendors and admins can update vouchers")
	}
	v, err := s.store.FindVoucher(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return v, notFound("voucher not found", err)
	}
	if err != nil {
		return v, storeError("failed to load voucher", err)
	}
	scope, err := s.guard.ScopeFor(ctx, caller, Scope{})
	if err != nil {
		return domain.Voucher{}, err
	}
	if scope.VendorID != nil && *scope.VendorID != v.VendorID {
		return domain.Voucher{}, notFound("voucher not found or not yours", nil)
	}
	if err := s.store.UpdateVoucherStatus(ctx, id, status); err != nil {
		return domain.Voucher{}, storeError("failed to update voucher", err)
	}
	v.Status = status
	return v, nil
}

// CreateCategory adds a voucher category; admin only
func (s *VoucherService) CreateCategory(ctx context.Context, caller Caller, name string) (domain.Category, error) {
	if !caller.IsAdmin() {
		return domain.Category{}, forbidden("only admins can create categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, validationError("name is required", "name")
	}
	c := domain.Category{Name: name}
	if err := s.store.CreateCategory(ctx, &c); err != nil {
		return domain.Category{}, mapStoreError("category creation failed", err)
	}
	return c, nil
}
