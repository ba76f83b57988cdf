package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order Model
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                                          // Primary key
	Code          string          `gorm:"size:16;not null;uniqueIndex:uniq_order_code" json:"code"`      // TRX-XXXXXXXX
	MemberID      uint            `gorm:"not null;index" json:"member_id"`                               // Buyer
	Member        *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`                   // Buyer projection
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`               // Sum of line sub totals
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`                        // e.g. Manual
	PaymentStatus PaymentStatus   `gorm:"type:tinyint unsigned;not null;default:0;index" json:"payment_status"` // pending, paid or refunded
	OrderedAt     time.Time       `gorm:"index" json:"ordered_at"`                                       // Order time
	Lines         []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`                               // One or more lines
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderLine Model. Price is the unit price captured at order time.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	VoucherID uint            `gorm:"not null;index" json:"voucher_id"`
	Voucher   *Voucher        `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	SubTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sub_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
