package domain

import "time"

// Redemption Model. ExternalOrderRef is unique when not null.
type Redemption struct {
	ID               uint             `gorm:"primaryKey" json:"id"`                                              // Primary key
	VoucherID        uint             `gorm:"not null;index" json:"voucher_id"`                                  // Redeemed voucher
	Voucher          *Voucher         `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`                     // Voucher projection
	IdentityID       uint             `gorm:"not null;index" json:"identity_id"`                                 // Redeeming identity
	VendorID         uint             `gorm:"not null;index" json:"vendor_id"`                                   // Copied from the voucher
	ExternalOrderRef *string          `gorm:"size:191;uniqueIndex:uniq_redemption_order_ref" json:"order_id"`    // Idempotency key
	Source           string           `gorm:"size:50;not null;default:'web'" json:"source"`                      // web, pos, ...
	DeviceInfo       *string          `gorm:"size:255" json:"device_info"`                                       // Device or user agent
	IPAddress        *string          `gorm:"size:64" json:"ip_address"`                                         // Forwarded client address
	Status           RedemptionStatus `gorm:"type:tinyint unsigned;not null;default:1;index" json:"status"`     // active or void
	Note             *string          `gorm:"size:255" json:"note"`                                              // Free text
	RedeemedAt       time.Time        `gorm:"index" json:"redeemed_at"`                                          // Redemption time
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
