package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission Model: one ledger entry owed to an affiliate for a member
type Commission struct {
	ID          uint             `gorm:"primaryKey" json:"id"`                                          // Primary key
	AffiliateID uint             `gorm:"not null;index" json:"affiliate_id"`                            // Affiliate earning the commission
	MemberID    uint             `gorm:"not null;index" json:"member_id"`                               // Member that generated it
	OrderID     *uint            `gorm:"index" json:"order_id"`                                         // Set for order-time entries
	Amount      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`           // Commission amount
	Status      CommissionStatus `gorm:"type:tinyint unsigned;not null;default:0;index" json:"status"` // pending, confirmed or reversed
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`                                       // Creation time
	UpdatedAt   time.Time        `json:"updated_at"`                                                    // Last update time
}
