// Package memstore is an in-memory repository.Store. It enforces the same
// unique indexes as the MySQL schema and gives transactions snapshot
// rollback, so service tests can assert atomicity without a database.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/shopspring/decimal"
)

var _ repository.Store = (*Store)(nil)

type data struct {
	seq         uint
	identities  []domain.Identity
	affiliates  []domain.Affiliate
	members     []domain.Member
	vendors     []domain.Vendor
	admins      []domain.Admin
	commissions []domain.Commission
	categories  []domain.Category
	vouchers    []domain.Voucher
	orders      []domain.Order // Stored without lines
	lines       []domain.OrderLine
	redemptions []domain.Redemption
}

func (d *data) clone() *data {
	return &data{
		seq:         d.seq,
		identities:  append([]domain.Identity(nil), d.identities...),
		affiliates:  append([]domain.Affiliate(nil), d.affiliates...),
		members:     append([]domain.Member(nil), d.members...),
		vendors:     append([]domain.Vendor(nil), d.vendors...),
		admins:      append([]domain.Admin(nil), d.admins...),
		commissions: append([]domain.Commission(nil), d.commissions...),
		categories:  append([]domain.Category(nil), d.categories...),
		vouchers:    append([]domain.Voucher(nil), d.vouchers...),
		orders:      append([]domain.Order(nil), d.orders...),
		lines:       append([]domain.OrderLine(nil), d.lines...),
		redemptions: append([]domain.Redemption(nil), d.redemptions...),
	}
}

func (d *data) nextID() uint {
	d.seq++
	return d.seq
}

// Store is a goroutine-safe in-memory Store
type Store struct {
	mu     *sync.Mutex
	data   *data
	inTx   bool
	faults *sync.Map // method name -> error
	now    func() time.Time
}

// New returns an empty Store
func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: &data{}, faults: &sync.Map{}, now: time.Now}
}

// FailOn makes every later call of method return err. A nil err clears it.
func (s *Store) FailOn(method string, err error) {
	if err == nil {
		s.faults.Delete(method)
		return
	}
	s.faults.Store(method, err)
}

func (s *Store) fault(method string) error {
	if v, ok := s.faults.Load(method); ok {
		return v.(error)
	}
	return nil
}

// do runs fn with the lock held, or directly when already inside a transaction
func (s *Store) do(method string, fn func(d *data) error) error {
	if err := s.fault(method); err != nil {
		return err
	}
	if s.inTx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Transaction serialises fn against a snapshot and publishes it on success
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := s.fault("Transaction"); err != nil {
		return err
	}
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: snapshot, inTx: true, faults: s.faults, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *Store) CodeExists(ctx context.Context, kind domain.CodeKind, code string) (bool, error) {
	var found bool
	err := s.do("CodeExists", func(d *data) error {
		switch kind {
		case domain.CodeAffiliate:
			found = has(d.affiliates, func(a domain.Affiliate) bool { return a.Code == code })
		case domain.CodeReferral:
			found = has(d.affiliates, func(a domain.Affiliate) bool { return a.ReferralCode == code })
		case domain.CodeMember:
			found = has(d.members, func(m domain.Member) bool { return m.Code == code })
		case domain.CodeOrder:
			found = has(d.orders, func(o domain.Order) bool { return o.Code == code })
		case domain.CodeVoucher:
			found = has(d.vouchers, func(v domain.Voucher) bool { return v.Code == code })
		case domain.CodeVendor:
			found = has(d.vendors, func(v domain.Vendor) bool { return v.Code == code })
		default:
			return fmt.Errorf("unknown code kind %d", kind)
		}
		return nil
	})
	return found, err
}

func has[T any](rows []T, pred func(T) bool) bool {
	for _, r := range rows {
		if pred(r) {
			return true
		}
	}
	return false
}

func find[T any](rows []T, pred func(T) bool) (int, bool) {
	for i, r := range rows {
		if pred(r) {
			return i, true
		}
	}
	return -1, false
}

func duplicate(index string) error {
	return repository.NewDuplicateError(index, errors.New("duplicate entry for key '"+index+"'"))
}

func (s *Store) IdentityEmailExists(ctx context.Context, email string) (bool, error) {
	var found bool
	err := s.do("IdentityEmailExists", func(d *data) error {
		found = has(d.identities, func(i domain.Identity) bool { return i.Email == email })
		return nil
	})
	return found, err
}

func (s *Store) ProfileEmailExists(ctx context.Context, role domain.Role, email string) (bool, error) {
	var found bool
	err := s.do("ProfileEmailExists", func(d *data) error {
		switch role {
		case domain.RoleAffiliate:
			found = has(d.affiliates, func(a domain.Affiliate) bool { return a.Email == email })
		case domain.RoleMember:
			found = has(d.members, func(m domain.Member) bool { return m.Email == email })
		case domain.RoleVendor:
			found = has(d.vendors, func(v domain.Vendor) bool { return v.Email == email })
		case domain.RoleAdmin:
			found = has(d.admins, func(a domain.Admin) bool { return a.Email == email })
		default:
			return fmt.Errorf("no profile table for role %s", role)
		}
		return nil
	})
	return found, err
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	*created, *updated = now, now
}

func (s *Store) CreateIdentity(ctx context.Context, identity *domain.Identity) error {
	return s.do("CreateIdentity", func(d *data) error {
		if has(d.identities, func(i domain.Identity) bool { return i.Email == identity.Email }) {
			return duplicate("uniq_identity_email")
		}
		identity.ID = d.nextID()
		s.stamp(&identity.CreatedAt, &identity.UpdatedAt)
		d.identities = append(d.identities, *identity)
		return nil
	})
}

func (s *Store) FindIdentity(ctx context.Context, id uint) (domain.Identity, error) {
	var res domain.Identity
	err := s.do("FindIdentity", func(d *data) error {
		i, ok := find(d.identities, func(x domain.Identity) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.identities[i]
		return nil
	})
	return res, err
}

func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var res domain.Identity
	err := s.do("FindIdentityByEmail", func(d *data) error {
		i, ok := find(d.identities, func(x domain.Identity) bool { return x.Email == email })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.identities[i]
		return nil
	})
	return res, err
}

func (s *Store) FindProfileID(ctx context.Context, role domain.Role, identityID uint) (uint, error) {
	var id uint
	err := s.do("FindProfileID", func(d *data) error {
		switch role {
		case domain.RoleAffiliate:
			if i, ok := find(d.affiliates, func(a domain.Affiliate) bool { return a.IdentityID == identityID }); ok {
				id = d.affiliates[i].ID
			}
		case domain.RoleMember:
			if i, ok := find(d.members, func(m domain.Member) bool { return m.IdentityID == identityID }); ok {
				id = d.members[i].ID
			}
		case domain.RoleVendor:
			if i, ok := find(d.vendors, func(v domain.Vendor) bool { return v.IdentityID == identityID }); ok {
				id = d.vendors[i].ID
			}
		case domain.RoleAdmin:
			if i, ok := find(d.admins, func(a domain.Admin) bool { return a.IdentityID == identityID }); ok {
				id = d.admins[i].ID
			}
		default:
			return fmt.Errorf("no profile table for role %s", role)
		}
		if id == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	return id, err
}

func (s *Store) CreateAffiliate(ctx context.Context, a *domain.Affiliate) error {
	return s.do("CreateAffiliate", func(d *data) error {
		switch {
		case has(d.affiliates, func(x domain.Affiliate) bool { return x.Code == a.Code }):
			return duplicate("uniq_affiliate_code")
		case has(d.affiliates, func(x domain.Affiliate) bool { return x.ReferralCode == a.ReferralCode }):
			return duplicate("uniq_affiliate_referral")
		case has(d.affiliates, func(x domain.Affiliate) bool { return x.Email == a.Email }):
			return duplicate("uniq_affiliate_email")
		case has(d.affiliates, func(x domain.Affiliate) bool { return x.IdentityID == a.IdentityID }):
			return duplicate("uniq_affiliate_identity")
		}
		a.ID = d.nextID()
		s.stamp(&a.CreatedAt, &a.UpdatedAt)
		d.affiliates = append(d.affiliates, *a)
		return nil
	})
}

func (s *Store) FindAffiliate(ctx context.Context, id uint) (domain.Affiliate, error) {
	var res domain.Affiliate
	err := s.do("FindAffiliate", func(d *data) error {
		i, ok := find(d.affiliates, func(x domain.Affiliate) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.affiliates[i]
		return nil
	})
	return res, err
}

func (s *Store) FindAffiliateByReferral(ctx context.Context, referral string) (domain.Affiliate, error) {
	var res domain.Affiliate
	err := s.do("FindAffiliateByReferral", func(d *data) error {
		i, ok := find(d.affiliates, func(x domain.Affiliate) bool { return x.ReferralCode == referral })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.affiliates[i]
		return nil
	})
	return res, err
}

func (s *Store) UpdateAffiliateStatus(ctx context.Context, id uint, status domain.Status) error {
	return s.do("UpdateAffiliateStatus", func(d *data) error {
		if i, ok := find(d.affiliates, func(x domain.Affiliate) bool { return x.ID == id }); ok {
			d.affiliates[i].Status = status
			d.affiliates[i].UpdatedAt = s.now()
		}
		return nil
	})
}

func (s *Store) CreateMember(ctx context.Context, m *domain.Member) error {
	return s.do("CreateMember", func(d *data) error {
		switch {
		case has(d.members, func(x domain.Member) bool { return x.Code == m.Code }):
			return duplicate("uniq_member_code")
		case has(d.members, func(x domain.Member) bool { return x.Email == m.Email }):
			return duplicate("uniq_member_email")
		case has(d.members, func(x domain.Member) bool { return x.IdentityID == m.IdentityID }):
			return duplicate("uniq_member_identity")
		}
		m.ID = d.nextID()
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		row := *m
		row.Affiliate = nil
		d.members = append(d.members, row)
		return nil
	})
}

func (s *Store) FindMember(ctx context.Context, id uint) (domain.Member, error) {
	var res domain.Member
	err := s.do("FindMember", func(d *data) error {
		i, ok := find(d.members, func(x domain.Member) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.members[i]
		if j, ok := find(d.affiliates, func(a domain.Affiliate) bool { return a.ID == res.AffiliateID }); ok {
			a := d.affiliates[j]
			res.Affiliate = &a
		}
		return nil
	})
	return res, err
}

func (s *Store) UpdateMemberProfile(ctx context.Context, id uint, name string, addr domain.Address) error {
	return s.do("UpdateMemberProfile", func(d *data) error {
		if i, ok := find(d.members, func(x domain.Member) bool { return x.ID == id }); ok {
			d.members[i].Name = name
			d.members[i].Address = addr
			d.members[i].UpdatedAt = s.now()
		}
		return nil
	})
}

func (s *Store) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	return s.do("CreateVendor", func(d *data) error {
		switch {
		case has(d.vendors, func(x domain.Vendor) bool { return x.Code == v.Code }):
			return duplicate("uniq_vendor_code")
		case has(d.vendors, func(x domain.Vendor) bool { return x.Email == v.Email }):
			return duplicate("uniq_vendor_email")
		case has(d.vendors, func(x domain.Vendor) bool { return x.IdentityID == v.IdentityID }):
			return duplicate("uniq_vendor_identity")
		}
		v.ID = d.nextID()
		s.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.vendors = append(d.vendors, *v)
		return nil
	})
}

func (s *Store) FindVendor(ctx context.Context, id uint) (domain.Vendor, error) {
	var res domain.Vendor
	err := s.do("FindVendor", func(d *data) error {
		i, ok := find(d.vendors, func(x domain.Vendor) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.vendors[i]
		return nil
	})
	return res, err
}

func (s *Store) UpdateVendorStatus(ctx context.Context, id uint, status domain.Status) error {
	return s.do("UpdateVendorStatus", func(d *data) error {
		if i, ok := find(d.vendors, func(x domain.Vendor) bool { return x.ID == id }); ok {
			d.vendors[i].Status = status
			d.vendors[i].UpdatedAt = s.now()
		}
		return nil
	})
}

func (s *Store) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	return s.do("CreateAdmin", func(d *data) error {
		switch {
		case has(d.admins, func(x domain.Admin) bool { return x.Email == a.Email }):
			return duplicate("uniq_admin_email")
		case has(d.admins, func(x domain.Admin) bool { return x.IdentityID == a.IdentityID }):
			return duplicate("uniq_admin_identity")
		}
		a.ID = d.nextID()
		s.stamp(&a.CreatedAt, &a.UpdatedAt)
		d.admins = append(d.admins, *a)
		return nil
	})
}

func (s *Store) CreateCommission(ctx context.Context, c *domain.Commission) error {
	return s.do("CreateCommission", func(d *data) error {
		c.ID = d.nextID()
		s.stamp(&c.CreatedAt, &c.UpdatedAt)
		d.commissions = append(d.commissions, *c)
		return nil
	})
}

func (s *Store) ReverseOrderCommissions(ctx context.Context, orderID uint) (int64, error) {
	var n int64
	err := s.do("ReverseOrderCommissions", func(d *data) error {
		for i, c := range d.commissions {
			if c.OrderID != nil && *c.OrderID == orderID && c.Status != domain.CommissionReversed {
				d.commissions[i].Status = domain.CommissionReversed
				d.commissions[i].UpdatedAt = s.now()
				n++
			}
		}
		return nil
	})
	return n, err
}

func commissionMatches(c domain.Commission, f repository.CommissionFilter) bool {
	switch {
	case f.AffiliateID != nil && c.AffiliateID != *f.AffiliateID:
		return false
	case f.MemberID != nil && c.MemberID != *f.MemberID:
		return false
	case f.Status != nil && c.Status != *f.Status:
		return false
	case f.From != nil && c.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !c.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

func (s *Store) SummarizeCommissions(ctx context.Context, f repository.CommissionFilter) (repository.CommissionSummary, error) {
	res := repository.CommissionSummary{Total: decimal.Zero}
	err := s.do("SummarizeCommissions", func(d *data) error {
		byStatus := map[domain.CommissionStatus]int64{}
		monthly := map[string]decimal.Decimal{}
		for _, c := range d.commissions {
			if !commissionMatches(c, f) {
				continue
			}
			res.Total = res.Total.Add(c.Amount)
			res.Count++
			byStatus[c.Status]++
			month := c.CreatedAt.Format("2006-01")
			monthly[month] = monthly[month].Add(c.Amount)
		}
		for st, n := range byStatus {
			res.ByStatus = append(res.ByStatus, repository.StatusCount{Status: st, Count: n})
		}
		sort.Slice(res.ByStatus, func(i, j int) bool { return res.ByStatus[i].Status < res.ByStatus[j].Status })
		for m, t := range monthly {
			res.Monthly = append(res.Monthly, repository.MonthlyTotal{Month: m, Total: t})
		}
		sort.Slice(res.Monthly, func(i, j int) bool { return res.Monthly[i].Month < res.Monthly[j].Month })
		return nil
	})
	return res, err
}

// Commissions returns a copy of every ledger row
func (s *Store) Commissions() []domain.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Commission(nil), s.data.commissions...)
}

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	return s.do("CreateCategory", func(d *data) error {
		if has(d.categories, func(x domain.Category) bool { return strings.EqualFold(x.Name, c.Name) }) {
			return duplicate("uniq_category_name")
		}
		c.ID = d.nextID()
		s.stamp(&c.CreatedAt, &c.UpdatedAt)
		d.categories = append(d.categories, *c)
		return nil
	})
}

func (s *Store) FindCategory(ctx context.Context, id uint) (domain.Category, error) {
	var res domain.Category
	err := s.do("FindCategory", func(d *data) error {
		i, ok := find(d.categories, func(x domain.Category) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.categories[i]
		return nil
	})
	return res, err
}

func (s *Store) CreateVoucher(ctx context.Context, v *domain.Voucher) error {
	return s.do("CreateVoucher", func(d *data) error {
		if has(d.vouchers, func(x domain.Voucher) bool { return x.Code == v.Code }) {
			return duplicate("uniq_voucher_code")
		}
		v.ID = d.nextID()
		s.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.vouchers = append(d.vouchers, *v)
		return nil
	})
}

func (s *Store) FindVoucher(ctx context.Context, id uint) (domain.Voucher, error) {
	var res domain.Voucher
	err := s.do("FindVoucher", func(d *data) error {
		i, ok := find(d.vouchers, func(x domain.Voucher) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.vouchers[i]
		return nil
	})
	return res, err
}

func (s *Store) UpdateVoucherStatus(ctx context.Context, id uint, status domain.VoucherStatus) error {
	return s.do("UpdateVoucherStatus", func(d *data) error {
		if i, ok := find(d.vouchers, func(x domain.Voucher) bool { return x.ID == id }); ok {
			d.vouchers[i].Status = status
			d.vouchers[i].UpdatedAt = s.now()
		}
		return nil
	})
}

// DeleteVoucher removes a voucher, standing in for a concurrent delete
func (s *Store) DeleteVoucher(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := find(s.data.vouchers, func(x domain.Voucher) bool { return x.ID == id }); ok {
		s.data.vouchers = append(s.data.vouchers[:i:i], s.data.vouchers[i+1:]...)
	}
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	return s.do("CreateOrder", func(d *data) error {
		if has(d.orders, func(x domain.Order) bool { return x.Code == o.Code }) {
			return duplicate("uniq_order_code")
		}
		if !has(d.members, func(m domain.Member) bool { return m.ID == o.MemberID }) {
			return errors.New("foreign key constraint fails: orders.member_id")
		}
		for _, l := range o.Lines {
			if !has(d.vouchers, func(v domain.Voucher) bool { return v.ID == l.VoucherID }) {
				return errors.New("foreign key constraint fails: order_lines.voucher_id")
			}
		}
		o.ID = d.nextID()
		s.stamp(&o.CreatedAt, &o.UpdatedAt)
		for i := range o.Lines {
			o.Lines[i].ID = d.nextID()
			o.Lines[i].OrderID = o.ID
			s.stamp(&o.Lines[i].CreatedAt, &o.Lines[i].UpdatedAt)
			d.lines = append(d.lines, o.Lines[i])
		}
		header := *o
		header.Lines, header.Member = nil, nil
		d.orders = append(d.orders, header)
		return nil
	})
}

func (d *data) loadOrder(o domain.Order, withVouchers bool) domain.Order {
	o.Lines = nil
	for _, l := range d.lines {
		if l.OrderID != o.ID {
			continue
		}
		if withVouchers {
			if i, ok := find(d.vouchers, func(v domain.Voucher) bool { return v.ID == l.VoucherID }); ok {
				v := d.vouchers[i]
				l.Voucher = &v
			}
		}
		o.Lines = append(o.Lines, l)
	}
	return o
}

func (s *Store) FindOrder(ctx context.Context, id uint) (domain.Order, error) {
	var res domain.Order
	err := s.do("FindOrder", func(d *data) error {
		i, ok := find(d.orders, func(x domain.Order) bool { return x.ID == id })
		if !ok {
			return repository.ErrNotFound
		}
		res = d.loadOrder(d.orders[i], true)
		if j, ok := find(d.members, func(m domain.Member) bool { return m.ID == res.MemberID }); ok {
			m := d.members[j]
			res.Member = &m
		}
		return nil
	})
	return res, err
}

func orderMatches(o domain.Order, f repository.OrderFilter) bool {
	if f.MemberID != nil && o.MemberID != *f.MemberID {
		return false
	}
	if f.PaymentStatus != nil && o.PaymentStatus != *f.PaymentStatus {
		return false
	}
	return true
}

func (s *Store) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	var res []domain.Order
	err := s.do("ListOrders", func(d *data) error {
		for _, o := range d.orders {
			if orderMatches(o, f) {
				res = append(res, d.loadOrder(o, false))
			}
		}
		sort.SliceStable(res, func(i, j int) bool {
			if f.Asc {
				return res[i].ID < res[j].ID
			}
			return res[i].ID > res[j].ID
		})
		res = paginate(res, f.Page)
		return nil
	})
	return res, err
}

func (s *Store) CountOrders(ctx context.Context, f repository.OrderFilter) (int64, error) {
	var n int64
	err := s.do("CountOrders", func(d *data) error {
		for _, o := range d.orders {
			if orderMatches(o, f) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) TransitionOrderPayment(ctx context.Context, id uint, from, to domain.PaymentStatus) (bool, error) {
	var moved bool
	err := s.do("TransitionOrderPayment", func(d *data) error {
		i, ok := find(d.orders, func(x domain.Order) bool { return x.ID == id })
		if ok && d.orders[i].PaymentStatus == from {
			d.orders[i].PaymentStatus = to
			d.orders[i].UpdatedAt = s.now()
			moved = true
		}
		return nil
	})
	return moved, err
}

// OrderCounts returns the number of persisted order headers and lines
func (s *Store) OrderCounts() (headers, lines int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders), len(s.data.lines)
}

func (s *Store) CreateRedemption(ctx context.Context, r *domain.Redemption) error {
	return s.do("CreateRedemption", func(d *data) error {
		if r.ExternalOrderRef != nil && has(d.redemptions, func(x domain.Redemption) bool {
			return x.ExternalOrderRef != nil && *x.ExternalOrderRef == *r.ExternalOrderRef
		}) {
			return duplicate("uniq_redemption_order_ref")
		}
		r.ID = d.nextID()
		s.stamp(&r.CreatedAt, &r.UpdatedAt)
		row := *r
		row.Voucher = nil
		d.redemptions = append(d.redemptions, row)
		return nil
	})
}

func redemptionMatches(r domain.Redemption, f repository.RedemptionFilter) bool {
	switch {
	case f.VendorID != nil && r.VendorID != *f.VendorID:
		return false
	case f.IdentityID != nil && r.IdentityID != *f.IdentityID:
		return false
	case f.VoucherID != nil && r.VoucherID != *f.VoucherID:
		return false
	case f.Status != nil && r.Status != *f.Status:
		return false
	case f.From != nil && r.RedeemedAt.Before(*f.From):
		return false
	case f.To != nil && !r.RedeemedAt.Before(*f.To):
		return false
	}
	return true
}

func (s *Store) ListRedemptions(ctx context.Context, f repository.RedemptionFilter) ([]domain.Redemption, error) {
	var res []domain.Redemption
	err := s.do("ListRedemptions", func(d *data) error {
		for _, r := range d.redemptions {
			if !redemptionMatches(r, f) {
				continue
			}
			if i, ok := find(d.vouchers, func(v domain.Voucher) bool { return v.ID == r.VoucherID }); ok {
				v := d.vouchers[i]
				r.Voucher = &v
			}
			res = append(res, r)
		}
		sort.SliceStable(res, func(i, j int) bool {
			if f.Asc {
				return res[i].ID < res[j].ID
			}
			return res[i].ID > res[j].ID
		})
		res = paginate(res, f.Page)
		return nil
	})
	return res, err
}

func (s *Store) CountRedemptions(ctx context.Context, f repository.RedemptionFilter) (int64, error) {
	var n int64
	err := s.do("CountRedemptions", func(d *data) error {
		for _, r := range d.redemptions {
			if redemptionMatches(r, f) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func paginate[T any](rows []T, p repository.Page) []T {
	if p.Offset >= len(rows) {
		return nil
	}
	rows = rows[p.Offset:]
	if p.Limit > 0 && p.Limit < len(rows) {
		rows = rows[:p.Limit]
	}
	return rows
}
