package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var defaultCommissionRate = decimal.NewFromInt(10)

// RegisterInput carries one registration request
type RegisterInput struct {
	Role           domain.Role
	Name           string
	Email          string
	Password       string // Optional; the configured default is used when empty
	Address        domain.Address
	ReferralCode   string           // Member: referral code of the attributing affiliate
	Commission     *decimal.Decimal // Member: initial ledger amount, default 0
	CommissionRate *decimal.Decimal // Affiliate: percent of order totals, default 10
	Code           string           // Affiliate or Vendor: caller-supplied business code
	OwnReferral    string           // Affiliate: caller-supplied referral code
}

// Registration is the result of a successful registration. Exactly one of
// the profile pointers is set.
type Registration struct {
	Identity   domain.Identity    `json:"identity"`
	Affiliate  *domain.Affiliate  `json:"affiliate,omitempty"`
	Member     *domain.Member     `json:"member,omitempty"`
	Vendor     *domain.Vendor     `json:"vendor,omitempty"`
	Admin      *domain.Admin      `json:"admin,omitempty"`
	Commission *domain.Commission `json:"commission,omitempty"`
}

// RegistrationService creates identities together with their profile
type RegistrationService struct {
	store           repository.Store
	codes           *CodeGenerator
	defaultPassword string
	bcryptCost      int
}

// NewRegistrationService wires a RegistrationService
func NewRegistrationService(store repository.Store, codes *CodeGenerator, defaultPassword string, bcryptCost int) *RegistrationService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &RegistrationService{store: store, codes: codes, defaultPassword: defaultPassword, bcryptCost: bcryptCost}
}

// NormalizeEmail trims and lower-cases an email and checks its shape
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", validationError("email is invalid", "email")
	}
	return email, nil
}

// Register creates the identity, its role profile and, for members, the
// initial commission ledger entry in one transaction.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (Registration, error) {
	var res Registration
	in, err := s.validate(in)
	if err != nil {
		return res, err
	}
	if err := s.checkEmail(ctx, in.Role, in.Email); err != nil {
		return res, err
	}

	var referrer domain.Affiliate
	if in.Role == domain.RoleMember {
		if referrer, err = s.resolveReferral(ctx, in.ReferralCode); err != nil {
			return res, err
		}
	}

	password := in.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return res, &Error{Kind: KindStore, Message: "failed to hash password", Err: err}
	}

	identity := domain.Identity{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       domain.StatusActive,
	}

	switch in.Role {
	case domain.RoleAffiliate:
		code, referral, err := s.mintAffiliateCodes(ctx, in.Code, in.OwnReferral)
		if err != nil {
			return res, err
		}
		rate := defaultCommissionRate
		if in.CommissionRate != nil {
			rate = *in.CommissionRate
		}
		res.Affiliate = &domain.Affiliate{
			Code:           code,
			ReferralCode:   referral,
			Name:           in.Name,
			Email:          in.Email,
			Address:        in.Address,
			CommissionRate: rate.Round(2),
			Status:         domain.StatusActive,
		}
	case domain.RoleMember:
		code, err := s.codes.Generate(ctx, domain.CodeMember)
		if err != nil {
			return res, err
		}
		res.Member = &domain.Member{
			Code:        code,
			Name:        in.Name,
			Email:       in.Email,
			Address:     in.Address,
			AffiliateID: referrer.ID,
			Status:      domain.StatusActive,
		}
		amount := decimal.Zero
		if in.Commission != nil {
			amount = *in.Commission
		}
		res.Commission = &domain.Commission{
			AffiliateID: referrer.ID,
			Amount:      amount.Round(2),
			Status:      domain.CommissionPending,
		}
	case domain.RoleVendor:
		code, err := s.vendorCode(ctx, in.Code)
		if err != nil {
			return res, err
		}
		res.Vendor = &domain.Vendor{
			Code:    code,
			Name:    in.Name,
			Email:   in.Email,
			Address: in.Address,
			Status:  domain.StatusActive,
		}
	case domain.RoleAdmin:
		res.Admin = &domain.Admin{Name: in.Name, Email: in.Email}
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.CreateIdentity(ctx, &identity); err != nil {
			return err
		}
		switch {
		case res.Affiliate != nil:
			res.Affiliate.IdentityID = identity.ID
			return tx.CreateAffiliate(ctx, res.Affiliate)
		case res.Member != nil:
			res.Member.IdentityID = identity.ID
			if err := tx.CreateMember(ctx, res.Member); err != nil {
				return err
			}
			res.Commission.MemberID = res.Member.ID
			return tx.CreateCommission(ctx, res.Commission)
		case res.Vendor != nil:
			res.Vendor.IdentityID = identity.ID
			return tx.CreateVendor(ctx, res.Vendor)
		default:
			res.Admin.IdentityID = identity.ID
			return tx.CreateAdmin(ctx, res.Admin)
		}
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"role":  in.Role.String(),
			"email": in.Email,
			"error": err.Error(),
		}).Error("Registration failed")
		return Registration{}, mapStoreError("registration failed", err)
	}
	res.Identity = identity
	logrus.WithFields(logrus.Fields{
		"role":        in.Role.String(),
		"identity_id": identity.ID,
		"timestamp":   time.Now().Format(time.RFC3339),
	}).Info("Registration completed")
	return res, nil
}

func (s *RegistrationService) validate(in RegisterInput) (RegisterInput, error) {
	if !in.Role.Valid() {
		return in, validationError("role is invalid", "role")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, validationError("name is required", "name")
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return in, err
	}
	in.Email = email
	if in.Password != "" && (len(in.Password) < 8 || len(in.Password) > 72) {
		return in, validationError("password must be 8-72 characters", "password")
	}
	in.Code = strings.TrimSpace(in.Code)
	in.OwnReferral = strings.ToUpper(strings.TrimSpace(in.OwnReferral))
	in.ReferralCode = strings.ToUpper(strings.TrimSpace(in.ReferralCode))
	if in.Role == domain.RoleMember && in.ReferralCode == "" {
		return in, validationError("referral_code is required", "referral_code")
	}
	if in.Commission != nil && in.Commission.IsNegative() {
		return in, validationError("commission must not be negative", "commission")
	}
	if in.CommissionRate != nil && (in.CommissionRate.IsNegative() || in.CommissionRate.GreaterThan(decimal.NewFromInt(100))) {
		return in, validationError("commission_rate must be between 0 and 100", "commission_rate")
	}
	return in, nil
}

// checkEmail rejects emails already used by an identity or a profile of role
func (s *RegistrationService) checkEmail(ctx context.Context, role domain.Role, email string) error {
	taken, err := s.store.IdentityEmailExists(ctx, email)
	if err != nil {
		return storeError("failed to check email", err)
	}
	if !taken {
		if taken, err = s.store.ProfileEmailExists(ctx, role, email); err != nil {
			return storeError("failed to check email", err)
		}
	}
	if taken {
		return &Error{Kind: KindDuplicateData, Message: "email already registered", Fields: []string{"email"}}
	}
	return nil
}

func (s *RegistrationService) resolveReferral(ctx context.Context, code string) (domain.Affiliate, error) {
	a, err := s.store.FindAffiliateByReferral(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return a, &Error{Kind: KindReferralInvalid, Message: "referral code not found", Fields: []string{"referral_code"}}
	}
	if err != nil {
		return a, storeError("failed to resolve referral code", err)
	}
	if !a.Active() {
		return a, &Error{Kind: KindReferralSuspended, Message: "referring affiliate is suspended", Fields: []string{"referral_code"}}
	}
	return a, nil
}

// mintAffiliateCodes settles an affiliate code and referral code pair. Both
// are checked together each round and only a colliding generated value is
// redrawn; a collision on a caller-supplied value is final.
func (s *RegistrationService) mintAffiliateCodes(ctx context.Context, code, referral string) (string, string, error) {
	fixedCode, fixedRef := code != "", referral != ""
	var err error
	if !fixedCode {
		if code, err = s.codes.Candidate(domain.CodeAffiliate); err != nil {
			return "", "", storeError("failed to draw random code", err)
		}
	}
	if !fixedRef {
		if referral, err = s.codes.Candidate(domain.CodeReferral); err != nil {
			return "", "", storeError("failed to draw random code", err)
		}
	}
	for attempt := 1; attempt <= shortCodeAttempts; attempt++ {
		codeClash, err := s.store.CodeExists(ctx, domain.CodeAffiliate, code)
		if err != nil {
			return "", "", storeError("failed to check code uniqueness", err)
		}
		refClash, err := s.store.CodeExists(ctx, domain.CodeReferral, referral)
		if err != nil {
			return "", "", storeError("failed to check code uniqueness", err)
		}
		if codeClash && fixedCode {
			return "", "", &Error{Kind: KindDuplicateData, Message: "affiliate code already used", Fields: []string{"code"}}
		}
		if refClash && fixedRef {
			return "", "", &Error{Kind: KindDuplicateData, Message: "referral code already used", Fields: []string{"referral_code"}}
		}
		if !codeClash && !refClash {
			return code, referral, nil
		}
		if codeClash {
			if code, err = s.codes.Candidate(domain.CodeAffiliate); err != nil {
				return "", "", storeError("failed to draw random code", err)
			}
		}
		if refClash {
			if referral, err = s.codes.Candidate(domain.CodeReferral); err != nil {
				return "", "", storeError("failed to draw random code", err)
			}
		}
	}
	return "", "", exhausted(domain.CodeAffiliate)
}

func (s *RegistrationService) vendorCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return s.codes.Generate(ctx, domain.CodeVendor)
	}
	taken, err := s.store.CodeExists(ctx, domain.CodeVendor, code)
	if err != nil {
		return "", storeError("failed to check code uniqueness", err)
	}
	if taken {
		return "", &Error{Kind: KindDuplicateData, Message: "vendor code already used", Fields: []string{"code"}}
	}
	return code, nil
}

// SetAffiliateStatus activates or suspends an affiliate
func (s *RegistrationService) SetAffiliateStatus(ctx context.Context, id uint, status domain.Status) (domain.Affiliate, error) {
	if !status.Valid() {
		return domain.Affiliate{}, validationError("status is invalid", "status")
	}
	a, err := s.store.FindAffiliate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return a, notFound("affiliate not found", err)
	}
	if err != nil {
		return a, storeError("failed to load affiliate", err)
	}
	if err := s.store.UpdateAffiliateStatus(ctx, id, status); err != nil {
		return a, storeError("failed to update affiliate", err)
	}
	a.Status = status
	logrus.WithFields(logrus.Fields{"affiliate_id": id, "status": status}).Info("Affiliate status changed")
	return a, nil
}

// SetVendorStatus activates or suspends a vendor. A suspended vendor can
// neither list new vouchers nor have its vouchers redeemed.
func (s *RegistrationService) SetVendorStatus(ctx context.Context, id uint, status domain.Status) (domain.Vendor, error) {
	if !status.Valid() {
		return domain.Vendor{}, validationError("status is invalid", "status")
	}
	v, err := s.store.FindVendor(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return v, notFound("vendor not found", err)
	}
	if err != nil {
		return v, storeError("failed to load vendor", err)
	}
	if err := s.store.UpdateVendorStatus(ctx, id, status); err != nil {
		return v, storeError("failed to update vendor", err)
	}
	v.Status = status
	logrus.WithFields(logrus.Fields{"vendor_id": id, "status": status}).Info("Vendor status changed")
	return v, nil
}

// UpdateMemberProfile edits a member's contact details. The affiliate
// attribution is never part of the update.
func (s *RegistrationService) UpdateMemberProfile(ctx context.Context, id uint, name string, addr domain.Address) (domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Member{}, validationError("name is required", "name")
	}
	if _, err := s.store.FindMember(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Member{}, notFound("member not found", err)
		}
		return domain.Member{}, storeError("failed to load member", err)
	}
	if err := s.store.UpdateMemberProfile(ctx, id, name, addr); err != nil {
		return domain.Member{}, storeError("failed to update member", err)
	}
	m, err := s.store.FindMember(ctx, id)
	if err != nil {
		return m, storeError("failed to load member", err)
	}
	return m, nil
}

// mapStoreError turns a failed store call into a typed service error
func mapStoreError(msg string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	var de *repository.DuplicateError
	if errors.As(err, &de) {
		return &Error{Kind: KindDuplicateData, Message: "duplicate data", Fields: de.Fields, Err: err}
	}
	return storeError(msg, err)
}
