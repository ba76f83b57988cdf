package api

import (
	"context"  // Request contexts
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"voucher_market/internal/domain"  // Order models
	"voucher_market/internal/service" // Order service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money amounts
)

// OrderItemRequest is one requested line
type OrderItemRequest struct {
	VoucherID uint             `json:"voucher_id"` // Voucher to buy
	Qty       int              `json:"qty"`        // Quantity
	Quantity  int              `json:"quantity"`   // Alias of qty
	Price     *decimal.Decimal `json:"price"`      // Optional unit price
}

// CreateOrderRequest is the body of the order creation route
type CreateOrderRequest struct {
	MemberID       uint               `json:"member_id"`       // Admin only; members always order for themselves
	PaymentMethod  string             `json:"payment_method"`  // Defaults to Manual
	PaymentMethode string             `json:"payment_methode"` // Legacy spelling of payment_method
	Items          []OrderItemRequest `json:"items"`           // Order lines
}

// CreateOrderHandler places an order with its lines in one transaction
func CreateOrderHandler(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in := service.CreateOrderInput{MemberID: req.MemberID, PaymentMethod: req.PaymentMethod}
		if in.PaymentMethod == "" {
			in.PaymentMethod = req.PaymentMethode
		}
		for _, it := range req.Items {
			qty := it.Qty
			if qty == 0 {
				qty = it.Quantity
			}
			in.Lines = append(in.Lines, service.LineInput{VoucherID: it.VoucherID, Quantity: qty, Price: it.Price})
		}
		order, err := svc.CreateFor(c.Request.Context(), caller, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order created", "data": order})
	}
}

// GetOrderHandler returns one order with its lines
func GetOrderHandler(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		order, err := svc.Get(c.Request.Context(), caller, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": order})
	}
}

// ListOrdersHandler returns a page of orders visible to the caller
func ListOrdersHandler(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		q := service.OrderQuery{MemberID: uintQuery(c, "member_id"), PageQuery: pageQuery(c)}
		if v, err := strconv.Atoi(c.Query("payment_status")); err == nil && v >= 0 && v <= 255 {
			ps := domain.PaymentStatus(v)
			q.PaymentStatus = &ps
		}
		orders, total, err := svc.List(c.Request.Context(), caller, q)
		if err != nil {
			writeError(c, err)
			return
		}
		limit, offset := q.Bounds()
		c.JSON(http.StatusOK, gin.H{
			"data":       orders,                                                 // Orders on this page
			"pagination": pagination{Total: total, Limit: limit, Offset: offset}, // Paging block
		})
	}
}

// PayOrderHandler marks a pending order paid
func PayOrderHandler(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settle(c, svc.Pay, "Order paid")
	}
}

// RefundOrderHandler refunds a paid order (admin)
func RefundOrderHandler(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settle(c, svc.Refund, "Order refunded")
	}
}

type settleFunc func(ctx context.Context, caller service.Caller, id uint) (domain.Order, error)

func settle(c *gin.Context, fn settleFunc, message string) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := fn(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "data": order})
}
