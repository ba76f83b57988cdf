package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Date parsing

	"voucher_market/internal/domain"     // Role enum
	"voucher_market/internal/middleware" // Context keys
	"voucher_market/internal/service"    // Caller and paging input

	"github.com/gin-gonic/gin" // Gin web framework
)

const dateLayout = "2006-01-02"

// callerFrom reads the authenticated caller set by the auth middleware.
// It writes a 401 and returns false when none is present.
func callerFrom(c *gin.Context) (service.Caller, bool) {
	userID, ok := c.Get(middleware.UserIDKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return service.Caller{}, false
	}
	role, _ := c.Get(middleware.RoleKey)
	r, _ := role.(domain.Role)
	return service.Caller{IdentityID: userID.(uint), Role: r}, true
}

// idParam parses the :id path parameter
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// uintQuery parses an optional positive integer query parameter
func uintQuery(c *gin.Context, key string) *uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	u := uint(v)
	return &u
}

// intQuery parses an optional integer query parameter
func intQuery(c *gin.Context, key string) (int, bool) {
	v, err := strconv.Atoi(c.Query(key))
	return v, err == nil
}

// timeQuery parses an optional RFC3339 or yyyy-mm-dd query parameter.
// A bare date used as an upper bound covers the whole day.
func timeQuery(c *gin.Context, key string, endOfDay bool) *time.Time {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

// pageQuery reads limit/offset and sortBy/sortDir. page and page_size are
// accepted as an alternative to limit/offset.
func pageQuery(c *gin.Context) service.PageQuery {
	q := service.PageQuery{SortBy: c.Query("sortBy"), SortDir: c.Query("sortDir")}
	if q.SortBy == "" {
		q.SortBy = c.Query("sort_by")
	}
	if q.SortDir == "" {
		q.SortDir = c.Query("sort_dir")
	}
	if v, ok := intQuery(c, "limit"); ok {
		q.Limit = v
	} else if v, ok := intQuery(c, "page_size"); ok {
		q.Limit = v
	}
	if v, ok := intQuery(c, "offset"); ok {
		q.Offset = v
	} else if p, ok := intQuery(c, "page"); ok && p > 0 {
		size := q.Limit
		if size <= 0 || size > 100 {
			size = 20
		}
		q.Offset = (p - 1) * size
	}
	return q
}

// pagination is the paging block of list responses
type pagination struct {
	Total  int64 `json:"total"`  // Total matching rows
	Limit  int   `json:"limit"`  // Page size applied
	Offset int   `json:"offset"` // Rows skipped
}
