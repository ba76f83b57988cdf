package api

import (
	"net/http" // HTTP status codes
	"time"     // Timestamps

	"voucher_market/internal/domain"  // Roles and profile fields
	"voucher_market/internal/service" // Registration service
	"voucher_market/internal/utils"   // JWT helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// RegisterRequest is the body of every registration route
type RegisterRequest struct {
	Role           string           `json:"role"`                     // Role label, used by the generic route
	RoleID         int              `json:"role_id"`                  // Legacy role id, used by the generic route
	Name           string           `json:"name" binding:"required"`  // Display name
	Email          string           `json:"email" binding:"required"` // Account email
	Password       string           `json:"password"`                 // Optional
	ReferralCode   string           `json:"referral_code"`            // Member only
	Commission     *decimal.Decimal `json:"commission"`               // Member only
	CommissionRate *decimal.Decimal `json:"commission_rate"`          // Affiliate only
	Code           string           `json:"code"`                     // Affiliate or vendor code
	OwnReferral    string           `json:"own_referral_code"`        // Affiliate referral code
	domain.Address                  // Address and social handles
}

// LoginRequest is the body of the login route
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Account email
	Password string `json:"password" binding:"required"` // Account password
}

// AuthResponse carries an issued token
type AuthResponse struct {
	Token     string    `json:"token"`      // JWT token
	Role      string    `json:"role"`       // Role label
	ExpiresAt time.Time `json:"expires_at"` // Token expiry
}

// RegisterHandler registers an identity of the given role. With
// domain.RoleUnknown the role comes from the body, and admin accounts
// cannot be created that way.
func RegisterHandler(svc *service.RegistrationService, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		r := role
		if r == domain.RoleUnknown {
			r = domain.ResolveRole(req.Role, req.RoleID)
			if !r.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role", "fields": []string{"role"}})
				return
			}
			if r == domain.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts are created by admins"})
				return
			}
		}
		register(c, svc, r, req)
	}
}

func register(c *gin.Context, svc *service.RegistrationService, role domain.Role, req RegisterRequest) {
	res, err := svc.Register(c.Request.Context(), service.RegisterInput{
		Role:           role,
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Address:        req.Address,
		ReferralCode:   req.ReferralCode,
		Commission:     req.Commission,
		CommissionRate: req.CommissionRate,
		Code:           req.Code,
		OwnReferral:    req.OwnReferral,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "data": res})
}

// LoginHandler authenticates an identity and returns a JWT token
func LoginHandler(svc *service.RegistrationService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		id, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		token, err := utils.GenerateJWT(id.ID, id.Role.String(), int(id.Role), jwtSecret)
		if err != nil {
			logrus.WithFields(logrus.Fields{"identity_id": id.ID, "error": err.Error()}).Error("Token signing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{"identity_id": id.ID, "role": id.Role.String()}).Info("Login")
		c.JSON(http.StatusOK, AuthResponse{Token: token, Role: id.Role.String(), ExpiresAt: time.Now().Add(utils.TokenTTL)})
	}
}
