package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voucher_market/internal/domain"
	"voucher_market/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultPaymentMethod = "Manual"

var hundred = decimal.NewFromInt(100)

// LineInput is one requested order line. A nil or negative Price means
// the voucher's current price is used.
type LineInput struct {
	VoucherID uint
	Quantity  int
	Price     *decimal.Decimal
}

// CreateOrderInput carries one order request
type CreateOrderInput struct {
	MemberID      uint
	Lines         []LineInput
	PaymentMethod string
}

// OrderQuery filters an order listing
type OrderQuery struct {
	MemberID      *uint
	PaymentStatus *domain.PaymentStatus
	PageQuery
}

// OrderService creates and settles orders
type OrderService struct {
	store repository.Store
	codes *CodeGenerator
	guard *Guard
	now   func() time.Time
}

// NewOrderService wires an OrderService
func NewOrderService(store repository.Store, codes *CodeGenerator, guard *Guard) *OrderService {
	return &OrderService{store: store, codes: codes, guard: guard, now: time.Now}
}

// CreateFor creates an order on behalf of caller. Members always order for
// themselves; admins name the member; other roles may not order.
func (s *OrderService) CreateFor(ctx context.Context, caller Caller, in CreateOrderInput) (domain.Order, error) {
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleMember:
		id, err := s.guard.ProfileID(ctx, caller)
		if err != nil {
			return domain.Order{}, err
		}
		in.MemberID = id
	default:
		return domain.Order{}, forbidden("only members and admins can place orders")
	}
	return s.Create(ctx, in)
}

// Create validates the cart, prices every line and persists the order
// header together with its lines in one transaction.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.MemberID == 0 {
		return domain.Order{}, validationError("member_id is required", "member_id")
	}
	if len(in.Lines) == 0 {
		return domain.Order{}, validationError("items must not be empty", "items")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}
	if len(method) > 50 {
		return domain.Order{}, validationError("payment method is too long", "payment_method")
	}
	if _, err := s.store.FindMember(ctx, in.MemberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Order{}, notFound("member not found", err)
		}
		return domain.Order{}, storeError("failed to load member", err)
	}

	lines, total, err := s.priceLines(ctx, in.Lines)
	if err != nil {
		return domain.Order{}, err
	}
	code, err := s.codes.Generate(ctx, domain.CodeOrder)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		Code:          code,
		MemberID:      in.MemberID,
		TotalAmount:   total,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentPending,
		OrderedAt:     s.now(),
		Lines:         lines,
	}
	var created domain.Order
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}
		var err error
		created, err = tx.FindOrder(ctx, order.ID)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"member_id": in.MemberID,
			"code":      code,
			"error":     err.Error(),
		}).Error("Order creation failed")
		return domain.Order{}, &Error{Kind: KindOrderCreationFailed, Message: "order creation failed", Err: err}
	}
	logrus.WithFields(logrus.Fields{
		"order_id":  created.ID,
		"code":      created.Code,
		"member_id": created.MemberID,
		"total":     created.TotalAmount.StringFixed(2),
		"lines":     len(created.Lines),
	}).Info("Order created")
	return created, nil
}

// priceLines validates every line and snapshots its unit price. The total
// is the exact sum of the two-decimal sub totals.
func (s *OrderService) priceLines(ctx context.Context, in []LineInput) ([]domain.OrderLine, decimal.Decimal, error) {
	lines := make([]domain.OrderLine, 0, len(in))
	total := decimal.Zero
	for i, l := range in {
		field := fmt.Sprintf("items[%d]", i)
		if l.VoucherID == 0 {
			return nil, total, validationError("voucher_id is required", field+".voucher_id")
		}
		if l.Quantity <= 0 {
			return nil, total, validationError("quantity must be a positive integer", field+".qty")
		}
		v, err := s.store.FindVoucher(ctx, l.VoucherID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, total, &Error{
				Kind:    KindNotFound,
				Message: fmt.Sprintf("voucher %d not found", l.VoucherID),
				Fields:  []string{field + ".voucher_id"},
				Err:     err,
			}
		}
		if err != nil {
			return nil, total, storeError("failed to load voucher", err)
		}
		price := v.Price
		if l.Price != nil && !l.Price.IsNegative() {
			price = *l.Price
		}
		price = price.Round(2)
		sub := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(sub)
		lines = append(lines, domain.OrderLine{
			VoucherID: v.ID,
			Quantity:  l.Quantity,
			Price:     price,
			SubTotal:  sub,
		})
	}
	return lines, total, nil
}

// Get returns one order; members only see their own
func (s *OrderService) Get(ctx context.Context, caller Caller, id uint) (domain.Order, error) {
	o, err := s.store.FindOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return o, notFound("order not found", err)
	}
	if err != nil {
		return o, storeError("failed to load order", err)
	}
	if err := s.authorize(ctx, caller, o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *OrderService) authorize(ctx context.Context, caller Caller, o domain.Order) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.Role != domain.RoleMember {
		return forbidden("only members and admins can access orders")
	}
	id, err := s.guard.ProfileID(ctx, caller)
	if err != nil {
		return err
	}
	if id != o.MemberID {
		return notFound("order not found", nil)
	}
	return nil
}

// List returns a page of orders visible to caller and the total match count
func (s *OrderService) List(ctx context.Context, caller Caller, q OrderQuery) ([]domain.Order, int64, error) {
	if !caller.IsAdmin() && caller.Role != domain.RoleMember {
		return nil, 0, forbidden("only members and admins can list orders")
	}
	scope, err := s.guard.ScopeFor(ctx, caller, Scope{MemberID: q.MemberID})
	if err != nil {
		return nil, 0, err
	}
	f := repository.OrderFilter{
		MemberID:      scope.MemberID,
		PaymentStatus: q.PaymentStatus,
		Page:          q.page(repository.OrderSortable, "ordered_at"),
	}
	var (
		orders []domain.Order
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.store.ListOrders(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountOrders(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, storeError("failed to list orders", err)
	}
	return orders, total, nil
}

// Pay marks a pending order paid and books the referring affiliate's
// commission for it in the same transaction.
func (s *OrderService) Pay(ctx context.Context, caller Caller, id uint) (domain.Order, error) {
	o, err := s.Get(ctx, caller, id)
	if err != nil {
		return o, err
	}
	var paid domain.Order
	var commission domain.Commission
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		moved, err := tx.TransitionOrderPayment(ctx, id, domain.PaymentPending, domain.PaymentPaid)
		if err != nil {
			return err
		}
		if !moved {
			return &Error{Kind: KindConflict, Message: "order is not pending payment"}
		}
		m, err := tx.FindMember(ctx, o.MemberID)
		if err != nil {
			return err
		}
		a, err := tx.FindAffiliate(ctx, m.AffiliateID)
		if err != nil {
			return err
		}
		orderID := o.ID
		commission = domain.Commission{
			AffiliateID: a.ID,
			MemberID:    m.ID,
			OrderID:     &orderID,
			Amount:      o.TotalAmount.Mul(a.CommissionRate).Div(hundred).Round(2),
			Status:      domain.CommissionPending,
		}
		if err := tx.CreateCommission(ctx, &commission); err != nil {
			return err
		}
		paid, err = tx.FindOrder(ctx, id)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"order_id": id, "error": err.Error()}).Error("Order payment failed")
		return domain.Order{}, mapStoreError("order payment failed", err)
	}
	logrus.WithFields(logrus.Fields{
		"order_id":      id,
		"affiliate_id":  commission.AffiliateID,
		"commission":    commission.Amount.StringFixed(2),
		"commission_id": commission.ID,
	}).Info("Order paid")
	return paid, nil
}

// Refund marks a paid order refunded and reverses its commissions
func (s *OrderService) Refund(ctx context.Context, caller Caller, id uint) (domain.Order, error) {
	if !caller.IsAdmin() {
		return domain.Order{}, forbidden("only admins can refund orders")
	}
	var refunded domain.Order
	var reversed int64
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.FindOrder(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("order not found", err)
			}
			return err
		}
		moved, err := tx.TransitionOrderPayment(ctx, id, domain.PaymentPaid, domain.PaymentRefunded)
		if err != nil {
			return err
		}
		if !moved {
			return &Error{Kind: KindConflict, Message: "order is not paid"}
		}
		if reversed, err = tx.ReverseOrderCommissions(ctx, id); err != nil {
			return err
		}
		refunded, err = tx.FindOrder(ctx, id)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"order_id": id, "error": err.Error()}).Error("Order refund failed")
		return domain.Order{}, mapStoreError("order refund failed", err)
	}
	logrus.WithFields(logrus.Fields{"order_id": id, "reversed_commissions": reversed}).Info("Order refunded")
	return refunded, nil
}
