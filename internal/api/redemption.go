package api

import (
	"bytes"         // Raw JSON inspection
	"encoding/json" // Raw order references
	"net/http"      // HTTP status codes
	"strconv"       // String conversion

	"voucher_market/internal/domain"     // Redemption models
	"voucher_market/internal/repository" // Effective filters
	"voucher_market/internal/service"    // Redemption service
	"voucher_market/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Numeric reference normalisation
	"github.com/sirupsen/logrus"    // Logging library
)

// redemptionGenerationKey is bumped on every redemption so cached lists
// go stale at once
const redemptionGenerationKey = "redemptions:gen"

// RedeemRequest is the body of the redemption route. Clients send the
// external order reference as order_id, sometimes with a trailing space in
// the key, as either a string or a number.
type RedeemRequest struct {
	VoucherID     uint            `json:"voucher_id"`  // Voucher being redeemed
	OrderID       json.RawMessage `json:"order_id"`    // External order reference
	OrderIDSpaced json.RawMessage `json:"order_id "`   // Same, legacy key
	Source        string          `json:"source"`      // Defaults to web
	DeviceInfo    string          `json:"device_info"` // Defaults to the user agent
	Note          string          `json:"note"`        // Free text
}

// redemptionPage is the cached shape of a redemption listing
type redemptionPage struct {
	Data       []domain.Redemption `json:"data"`       // Redemptions on this page
	Pagination pagination          `json:"pagination"` // Paging block
}

// orderRef decodes a raw order reference. Strings are kept as sent and
// numbers are normalised, so 1, 1.0 and 1e0 all become "1". Null and
// absent mean none.
func orderRef(raw json.RawMessage) (*string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return nil, false
	}
	v := d.String()
	return &v, true
}

// RedeemHandler records a voucher redemption for the caller
func RedeemHandler(svc *service.RedemptionService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		var req RedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		raw := req.OrderID
		if len(bytes.TrimSpace(raw)) == 0 {
			raw = req.OrderIDSpaced
		}
		ref, ok := orderRef(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a string or a number", "fields": []string{"order_id"}})
			return
		}
		r, err := svc.Redeem(c.Request.Context(), service.RedeemInput{
			VoucherID:        req.VoucherID,
			RedeemerID:       caller.IdentityID,
			ExternalOrderRef: ref,
			Source:           req.Source,
			DeviceInfo:       req.DeviceInfo,
			Note:             req.Note,
			UserAgent:        c.GetHeader("User-Agent"),
			ForwardedFor:     c.GetHeader("X-Forwarded-For"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		if err := utils.BumpGeneration(c.Request.Context(), rdb, redemptionGenerationKey); err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Redemption cache invalidation failed")
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Redeemed", "redeem": r})
	}
}

// ListRedemptionsHandler returns the redemptions the caller may see.
// Responses are cached under the effective filter, so vendors asking for
// another vendor share the cache entry of their own listing.
func ListRedemptionsHandler(svc *service.RedemptionService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		q := service.RedemptionQuery{
			VendorID:   uintQuery(c, "vendor_id"),
			RedeemerID: uintQuery(c, "user_id"),
			VoucherID:  uintQuery(c, "voucher_id"),
			From:       timeQuery(c, "date_from", false),
			To:         timeQuery(c, "date_to", true),
			PageQuery:  pageQuery(c),
		}
		if v, err := strconv.Atoi(c.Query("status")); err == nil && v >= 0 && v <= 255 {
			st := domain.RedemptionStatus(v)
			q.Status = &st
		}
		f, err := svc.Filter(ctx, caller, q)
		if err != nil {
			writeError(c, err)
			return
		}
		cacheKey, keyErr := redemptionCacheKey(c, rdb, f)
		var cached redemptionPage
		if keyErr == nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"data": cached.Data, "pagination": cached.Pagination, "cached": true})
				return
			}
		}
		items, total, err := svc.Fetch(ctx, f)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := redemptionPage{Data: items, Pagination: pagination{Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}}
		if keyErr == nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL) // Cache the response for 60 seconds
		}
		c.JSON(http.StatusOK, gin.H{"data": resp.Data, "pagination": resp.Pagination, "cached": false})
	}
}

// redemptionCacheKey builds the cache key for an effective filter
func redemptionCacheKey(c *gin.Context, rdb *redis.Client, f repository.RedemptionFilter) (string, error) {
	gen, err := utils.CacheGeneration(c.Request.Context(), rdb, redemptionGenerationKey)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return "redemptions:" + strconv.FormatInt(gen, 10) + ":" + string(b), nil
}
