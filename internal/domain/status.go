package domain

// Status is the lifecycle flag shared by identities and profiles
type Status uint8

const (
	StatusSuspended Status = 0 // Cannot be referred to or log in
	StatusActive    Status = 1 // Default for new rows
)

// Valid reports whether s is a known profile status
func (s Status) Valid() bool {
	return s == StatusSuspended || s == StatusActive
}

// CommissionStatus is the state of a Commission ledger entry
type CommissionStatus uint8

const (
	CommissionPending   CommissionStatus = 0 // Recorded, not yet payable
	CommissionConfirmed CommissionStatus = 1 // Payable to the affiliate
	CommissionReversed  CommissionStatus = 2 // Cancelled, e.g. by a refund
)

// VoucherStatus is the publication state of a Voucher
type VoucherStatus uint8

const (
	VoucherDraft     VoucherStatus = 0 // Not visible to buyers
	VoucherPublished VoucherStatus = 1 // Purchasable
	VoucherArchived  VoucherStatus = 2 // Retired
)

// Valid reports whether s is a known voucher status
func (s VoucherStatus) Valid() bool {
	return s <= VoucherArchived
}

// PaymentStatus is the payment state of an Order
type PaymentStatus uint8

const (
	PaymentPending  PaymentStatus = 0 // Awaiting payment
	PaymentPaid     PaymentStatus = 1 // Paid in full
	PaymentRefunded PaymentStatus = 2 // Refunded by an admin
)

// RedemptionStatus is the state of a Redemption record
type RedemptionStatus uint8

const (
	RedemptionVoid   RedemptionStatus = 0 // Cancelled redemption
	RedemptionActive RedemptionStatus = 1 // Default for new redemptions
)
