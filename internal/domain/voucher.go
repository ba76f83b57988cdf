package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category Model
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uniq_category_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Voucher Model
type Voucher struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                                          // Primary key
	VendorID    uint            `gorm:"not null;index" json:"vendor_id"`                               // Owning vendor
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`                             // Category
	Code        string          `gorm:"size:64;not null;uniqueIndex:uniq_voucher_code" json:"code"`    // 15 digit code unless supplied
	Title       string          `gorm:"size:191;not null" json:"title"`                                // Display title
	Description string          `gorm:"type:text" json:"description"`                                  // Long description
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`            // Current price
	Inventory   int             `gorm:"not null;default:0" json:"inventory"`                           // Units available
	StartAt     *time.Time      `json:"start_at"`                                                      // Validity start
	EndAt       *time.Time      `json:"end_at"`                                                        // Validity end
	Status      VoucherStatus   `gorm:"type:tinyint unsigned;not null;default:0;index" json:"status"` // draft, published or archived
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
