// Package repository is the persistence boundary of the engine.
package repository

import (
	"context"
	"time"

	"voucher_market/internal/domain"

	"github.com/shopspring/decimal"
)

// Store is the transactional query interface used by the services.
// Every method honours ctx; Transaction runs fn against a Store bound to
// one database transaction and rolls back when fn returns an error.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CodeExists(ctx context.Context, kind domain.CodeKind, code string) (bool, error)

	IdentityEmailExists(ctx context.Context, email string) (bool, error)
	ProfileEmailExists(ctx context.Context, role domain.Role, email string) (bool, error)
	CreateIdentity(ctx context.Context, identity *domain.Identity) error
	FindIdentity(ctx context.Context, id uint) (domain.Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)
	FindProfileID(ctx context.Context, role domain.Role, identityID uint) (uint, error)

	CreateAffiliate(ctx context.Context, a *domain.Affiliate) error
	FindAffiliate(ctx context.Context, id uint) (domain.Affiliate, error)
	FindAffiliateByReferral(ctx context.Context, referral string) (domain.Affiliate, error)
	UpdateAffiliateStatus(ctx context.Context, id uint, status domain.Status) error
	CreateMember(ctx context.Context, m *domain.Member) error
	FindMember(ctx context.Context, id uint) (domain.Member, error)
	UpdateMemberProfile(ctx context.Context, id uint, name string, addr domain.Address) error
	CreateVendor(ctx context.Context, v *domain.Vendor) error
	FindVendor(ctx context.Context, id uint) (domain.Vendor, error)
	UpdateVendorStatus(ctx context.Context, id uint, status domain.Status) error
	CreateAdmin(ctx context.Context, a *domain.Admin) error

	CreateCommission(ctx context.Context, c *domain.Commission) error
	ReverseOrderCommissions(ctx context.Context, orderID uint) (int64, error)
	SummarizeCommissions(ctx context.Context, f CommissionFilter) (CommissionSummary, error)

	CreateCategory(ctx context.Context, c *domain.Category) error
	FindCategory(ctx context.Context, id uint) (domain.Category, error)
	CreateVoucher(ctx context.Context, v *domain.Voucher) error
	FindVoucher(ctx context.Context, id uint) (domain.Voucher, error)
	UpdateVoucherStatus(ctx context.Context, id uint, status domain.VoucherStatus) error

	CreateOrder(ctx context.Context, o *domain.Order) error
	FindOrder(ctx context.Context, id uint) (domain.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	CountOrders(ctx context.Context, f OrderFilter) (int64, error)
	TransitionOrderPayment(ctx context.Context, id uint, from, to domain.PaymentStatus) (bool, error)

	CreateRedemption(ctx context.Context, r *domain.Redemption) error
	ListRedemptions(ctx context.Context, f RedemptionFilter) ([]domain.Redemption, error)
	CountRedemptions(ctx context.Context, f RedemptionFilter) (int64, error)
}

// Page describes a bounded, ordered slice of a list
type Page struct {
	Limit  int
	Offset int
	SortBy string // Column name, checked against a per-list allowlist
	Asc    bool
}

// RedemptionFilter narrows a redemption listing. Nil fields do not filter.
type RedemptionFilter struct {
	VendorID   *uint
	IdentityID *uint
	VoucherID  *uint
	Status     *domain.RedemptionStatus
	From       *time.Time // Inclusive lower bound on redeemed_at
	To         *time.Time // Exclusive upper bound on redeemed_at
	Page
}

// OrderFilter narrows an order listing
type OrderFilter struct {
	MemberID      *uint
	PaymentStatus *domain.PaymentStatus
	Page
}

// CommissionFilter narrows the commission aggregates
type CommissionFilter struct {
	AffiliateID *uint
	MemberID    *uint
	Status      *domain.CommissionStatus
	From        *time.Time
	To          *time.Time
}

// StatusCount is one GROUP BY status bucket
type StatusCount struct {
	Status domain.CommissionStatus `json:"status"`
	Count  int64                   `json:"count"`
}

// MonthlyTotal is the commission sum for one YYYY-MM bucket
type MonthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// CommissionSummary is the aggregate view of the commission ledger
type CommissionSummary struct {
	Total    decimal.Decimal `json:"total_commission"`
	Count    int64           `json:"count"`
	ByStatus []StatusCount   `json:"by_status"`
	Monthly  []MonthlyTotal  `json:"monthly"`
}

var (
	redemptionSortColumns = map[string]bool{"redeemed_at": true, "created_at": true, "id": true, "status": true}
	orderSortColumns      = map[string]bool{"ordered_at": true, "created_at": true, "id": true, "total_amount": true}
)

// RedemptionSortable reports whether col may be used to sort redemptions
func RedemptionSortable(col string) bool { return redemptionSortColumns[col] }

// OrderSortable reports whether col may be used to sort orders
func OrderSortable(col string) bool { return orderSortColumns[col] }
