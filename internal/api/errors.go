package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"voucher_market/internal/service" // Typed service errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

var kindStatus = map[service.Kind]int{
	service.KindValidation:              http.StatusBadRequest,
	service.KindDuplicateData:           http.StatusConflict,
	service.KindNotFound:                http.StatusNotFound,
	service.KindReferralInvalid:         http.StatusUnprocessableEntity,
	service.KindReferralSuspended:       http.StatusUnprocessableEntity,
	service.KindCodeGenerationExhausted: http.StatusInternalServerError,
	service.KindDuplicateRedemption:     http.StatusConflict,
	service.KindOrderCreationFailed:     http.StatusInternalServerError,
	service.KindConflict:                http.StatusConflict,
	service.KindForbidden:               http.StatusForbidden,
	service.KindStore:                   http.StatusInternalServerError,
	service.KindUnauthorized:            http.StatusUnauthorized,
}

// StatusFor maps a service error onto its HTTP status
func StatusFor(err error) int {
	if s, ok := kindStatus[service.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error", "kind", "fields"}. Causes of server
// side failures are logged and never sent to the client.
func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	body := gin.H{"error": "Internal server error", "kind": service.KindOf(err).String()}
	var se *service.Error
	if errors.As(err, &se) {
		body["error"] = se.Message
		if len(se.Fields) > 0 {
			body["fields"] = se.Fields
		}
	}
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("requestID"), // Correlation id
			"path":       c.FullPath(),             // Route pattern
			"error":      err.Error(),              // Full error chain
		}).Error("Request failed")
	}
	c.JSON(status, body)
}
