package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS max age

	"voucher_market/internal/domain"     // Roles
	"voucher_market/internal/middleware" // Auth, role gates and request ids
	"voucher_market/internal/repository" // Store used by role gates
	"voucher_market/internal/service"    // Business services

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Store        repository.Store
	Guard        *service.Guard
	Registration *service.RegistrationService
	Orders       *service.OrderService
	Redemptions  *service.RedemptionService
	Vouchers     *service.VoucherService
	Commissions  *service.CommissionService
}

// RouterConfig holds the HTTP settings of the router
type RouterConfig struct {
	JWTSecret      string        // Token signing secret
	CORSOrigins    []string      // Allowed browser origins, empty allows none
	TrustedProxies []string      // Proxies allowed to set X-Forwarded-For
	Redis          *redis.Client // Optional list cache
}

// NewRouter builds the gin engine with every route registered
func NewRouter(svc Services, cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Public routes
	r.POST("/register", RegisterHandler(svc.Registration, domain.RoleUnknown))
	r.POST("/register/member", RegisterHandler(svc.Registration, domain.RoleMember))
	r.POST("/register/affiliate", RegisterHandler(svc.Registration, domain.RoleAffiliate))
	r.POST("/register/vendor", RegisterHandler(svc.Registration, domain.RoleVendor))
	r.POST("/login", LoginHandler(svc.Registration, cfg.JWTSecret))

	// Any active identity; services scope what each role sees
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRoles(svc.Store))
	auth.POST("/orders", CreateOrderHandler(svc.Orders))
	auth.GET("/orders", ListOrdersHandler(svc.Orders))
	auth.GET("/orders/:id", GetOrderHandler(svc.Orders))
	auth.POST("/orders/:id/pay", PayOrderHandler(svc.Orders))
	auth.POST("/redemptions", RedeemHandler(svc.Redemptions, cfg.Redis))
	auth.GET("/redemptions", ListRedemptionsHandler(svc.Redemptions, cfg.Redis))
	auth.GET("/commissions/summary", CommissionSummaryHandler(svc.Commissions, cfg.Redis))
	auth.PUT("/members/:id", UpdateMemberProfileHandler(svc.Registration, svc.Guard))

	// Vendor catalogue
	vendor := r.Group("/vouchers")
	vendor.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRoles(svc.Store, domain.RoleVendor, domain.RoleAdmin))
	vendor.POST("", CreateVoucherHandler(svc.Vouchers))
	vendor.PATCH("/:id/status", SetVoucherStatusHandler(svc.Vouchers))

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRoles(svc.Store, domain.RoleAdmin))
	admin.POST("/register", RegisterHandler(svc.Registration, domain.RoleAdmin))
	admin.POST("/register/vendor", RegisterHandler(svc.Registration, domain.RoleVendor))
	admin.PATCH("/affiliates/:id/status", SetAffiliateStatusHandler(svc.Registration))
	admin.PATCH("/vendors/:id/status", SetVendorStatusHandler(svc.Registration))
	admin.POST("/orders/:id/refund", RefundOrderHandler(svc.Orders))
	admin.POST("/categories", CreateCategoryHandler(svc.Vouchers))

	return r, nil
}
