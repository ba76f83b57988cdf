package domain

// CodeKind names a family of unique business codes
type CodeKind uint8

const (
	CodeAffiliate CodeKind = iota + 1 // AF-XXXXXX on affiliates.code
	CodeReferral                      // REFXXXXXX on affiliates.referral_code
	CodeMember                        // MB-XXXXXX on members.code
	CodeOrder                         // TRX-XXXXXXXX on orders.code
	CodeVoucher                       // 15 digits on vouchers.code
	CodeVendor                        // V + 4 base36 + 2 digits on vendors.code
)

// String returns a short label used in logs and errors
func (k CodeKind) String() string {
	switch k {
	case CodeAffiliate:
		return "affiliate_code"
	case CodeReferral:
		return "referral_code"
	case CodeMember:
		return "member_code"
	case CodeOrder:
		return "order_code"
	case CodeVoucher:
		return "voucher_code"
	case CodeVendor:
		return "vendor_code"
	default:
		return "unknown_code"
	}
}
