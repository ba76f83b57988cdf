package api

import (
	"net/http" // HTTP status codes
	"time"     // Validity window

	"voucher_market/internal/domain"  // Voucher models
	"voucher_market/internal/service" // Voucher service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money amounts
)

// CreateVoucherRequest is the body of the voucher creation route
type CreateVoucherRequest struct {
	VendorID    uint            `json:"vendor_id"`                      // Admin only; vendors always use their own
	CategoryID  uint            `json:"category_id" binding:"required"` // Category
	Code        string          `json:"code"`                           // Optional; generated when empty
	Title       string          `json:"title" binding:"required"`       // Display title
	Description string          `json:"description"`                    // Long description
	Price       decimal.Decimal `json:"price"`                          // Unit price
	Inventory   int             `json:"inventory"`                      // Units available
	StartAt     *time.Time      `json:"start_at"`                       // Validity start
	EndAt       *time.Time      `json:"end_at"`                         // Validity end
	Status      *int            `json:"status"`                         // Defaults to draft
}

// CategoryRequest is the body of the category creation route
type CategoryRequest struct {
	Name string `json:"name" binding:"required"` // Category name
}

// CreateVoucherHandler adds a voucher to the catalogue
func CreateVoucherHandler(svc *service.VoucherService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		var req CreateVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in := service.CreateVoucherInput{
			VendorID:    req.VendorID,
			CategoryID:  req.CategoryID,
			Code:        req.Code,
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Inventory:   req.Inventory,
			StartAt:     req.StartAt,
			EndAt:       req.EndAt,
		}
		if req.Status != nil {
			if *req.Status < 0 || *req.Status > 255 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "status is invalid", "fields": []string{"status"}})
				return
			}
			st := domain.VoucherStatus(*req.Status)
			in.Status = &st
		}
		v, err := svc.Create(c.Request.Context(), caller, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Voucher created", "data": v})
	}
}

// SetVoucherStatusHandler publishes, archives or drafts a voucher
func SetVoucherStatusHandler(svc *service.VoucherService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || *req.Status < 0 || *req.Status > 255 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		v, err := svc.SetStatus(c.Request.Context(), caller, id, domain.VoucherStatus(*req.Status))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Voucher status updated", "data": v})
	}
}

// CreateCategoryHandler adds a voucher category (admin)
func CreateCategoryHandler(svc *service.VoucherService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		cat, err := svc.CreateCategory(c.Request.Context(), caller, req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Category created", "data": cat})
	}
}
