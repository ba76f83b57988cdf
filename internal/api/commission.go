package api

import (
	"encoding/json" // Cache keys
	"net/http"      // HTTP status codes
	"strconv"       // String conversion

	"voucher_market/internal/domain"     // Commission status
	"voucher_market/internal/repository" // Summary shape
	"voucher_market/internal/service"    // Commission service
	"voucher_market/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// CommissionSummaryHandler returns commission totals for the caller's
// scope, cached for 60 seconds per effective filter
func CommissionSummaryHandler(svc *service.CommissionService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		q := service.CommissionQuery{
			AffiliateID: uintQuery(c, "affiliate_id"),
			MemberID:    uintQuery(c, "member_id"),
			From:        timeQuery(c, "date_from", false),
			To:          timeQuery(c, "date_to", true),
		}
		if v, err := strconv.Atoi(c.Query("status")); err == nil && v >= 0 && v <= 255 {
			st := domain.CommissionStatus(v)
			q.Status = &st
		}
		f, err := svc.Filter(ctx, caller, q)
		if err != nil {
			writeError(c, err)
			return
		}
		b, _ := json.Marshal(f) // Filter holds only plain values
		cacheKey := "commissions:summary:" + string(b)
		var cached repository.CommissionSummary
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"data": cached, "cached": true})
			return
		}
		sum, err := svc.Summarize(ctx, f)
		if err != nil {
			writeError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, sum, utils.CacheTTL)
		c.JSON(http.StatusOK, gin.H{"data": sum, "cached": false})
	}
}
