package api

import (
	"net/http" // HTTP status codes

	"voucher_market/internal/domain"  // Status and address types
	"voucher_market/internal/service" // Registration service and guard

	"github.com/gin-gonic/gin" // Gin web framework
)

// StatusRequest changes the status of a record
type StatusRequest struct {
	Status *int `json:"status" binding:"required"` // Numeric status value
}

// MemberProfileRequest edits a member's contact details. Any affiliate
// field in the body is ignored.
type MemberProfileRequest struct {
	Name           string `json:"name" binding:"required"` // Display name
	domain.Address        // Address and social handles
}

// bindStatus reads the :id parameter and a profile status body
func bindStatus(c *gin.Context) (uint, domain.Status, bool) {
	id, ok := idParam(c)
	if !ok {
		return 0, 0, false
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Status < 0 || *req.Status > 255 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return 0, 0, false
	}
	return id, domain.Status(*req.Status), true
}

// SetAffiliateStatusHandler activates or suspends an affiliate (admin)
func SetAffiliateStatusHandler(svc *service.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, status, ok := bindStatus(c)
		if !ok {
			return
		}
		a, err := svc.SetAffiliateStatus(c.Request.Context(), id, status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Affiliate status updated", "data": a})
	}
}

// SetVendorStatusHandler activates or suspends a vendor (admin)
func SetVendorStatusHandler(svc *service.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, status, ok := bindStatus(c)
		if !ok {
			return
		}
		v, err := svc.SetVendorStatus(c.Request.Context(), id, status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Vendor status updated", "data": v})
	}
}

// UpdateMemberProfileHandler lets a member edit their own profile; admins
// may edit any member
func UpdateMemberProfileHandler(svc *service.RegistrationService, guard *service.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if !caller.IsAdmin() {
			own, err := guard.ProfileID(c.Request.Context(), caller)
			if err != nil {
				writeError(c, err)
				return
			}
			if caller.Role != domain.RoleMember || own != id {
				c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
				return
			}
		}
		var req MemberProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		m, err := svc.UpdateMemberProfile(c.Request.Context(), id, req.Name, req.Address)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "data": m})
	}
}
