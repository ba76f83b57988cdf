package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address holds the contact fields shared by every business profile
type Address struct {
	Address    string  `gorm:"size:255;not null;default:''" json:"address"`    // Street address
	City       string  `gorm:"size:100;not null;default:''" json:"city"`       // City
	Province   string  `gorm:"size:100;not null;default:''" json:"province"`   // Province
	PostalCode string  `gorm:"size:20;not null;default:''" json:"postal_code"` // Postal code
	Twitter    *string `gorm:"size:100" json:"twitter"`                         // Optional social handle
	Instagram  *string `gorm:"size:100" json:"instagram"`                       // Optional social handle
	Tiktok     *string `gorm:"size:100" json:"tiktok"`                          // Optional social handle
}

// Affiliate Model
type Affiliate struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"size:16;not null;uniqueIndex:uniq_affiliate_code" json:"code"`              // AF-XXXXXX
	ReferralCode   string          `gorm:"size:16;not null;uniqueIndex:uniq_affiliate_referral" json:"referral_code"` // REFXXXXXX
	Name           string          `gorm:"size:191;not null" json:"name"`
	Email          string          `gorm:"size:191;not null;uniqueIndex:uniq_affiliate_email" json:"email"`
	Address        `gorm:"embedded"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10.00" json:"commission_rate"` // Percent of order total
	IdentityID     uint            `gorm:"not null;uniqueIndex:uniq_affiliate_identity" json:"identity_id"`
	Status         Status          `gorm:"type:tinyint unsigned;not null;default:1;index" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Active reports whether the affiliate may accept new referrals
func (a Affiliate) Active() bool {
	return a.Status == StatusActive
}

// Member Model. AffiliateID is written once at registration.
type Member struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:16;not null;uniqueIndex:uniq_member_code" json:"code"` // MB-XXXXXX
	Name        string    `gorm:"size:191;not null" json:"name"`
	Email       string    `gorm:"size:191;not null;uniqueIndex:uniq_member_email" json:"email"`
	Address     `gorm:"embedded"`
	IdentityID  uint       `gorm:"not null;uniqueIndex:uniq_member_identity" json:"identity_id"`
	AffiliateID uint       `gorm:"<-:create;not null;index" json:"affiliate_id"`
	Affiliate   *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Status      Status     `gorm:"type:tinyint unsigned;not null;default:1" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Vendor Model
type Vendor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:32;not null;uniqueIndex:uniq_vendor_code" json:"code"`
	Name       string    `gorm:"size:191;not null" json:"name"`
	Email      string    `gorm:"size:191;not null;uniqueIndex:uniq_vendor_email" json:"email"`
	Address    `gorm:"embedded"`
	IdentityID uint      `gorm:"not null;uniqueIndex:uniq_vendor_identity" json:"identity_id"`
	Status     Status    `gorm:"type:tinyint unsigned;not null;default:1" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Active reports whether the vendor may list and sell vouchers
func (v Vendor) Active() bool {
	return v.Status == StatusActive
}

// Admin Model
type Admin struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:191;not null" json:"name"`
	Email      string    `gorm:"size:191;not null;uniqueIndex:uniq_admin_email" json:"email"`
	IdentityID uint      `gorm:"not null;uniqueIndex:uniq_admin_identity" json:"identity_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
