package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/services"
)

// statusForCode maps service error codes to the HTTP statuses of the API
// contract. The codes are the stable part; this table is the only place the
// web layer knows about them.
var statusForCode = map[string]int{
	services.CodeValidation:        http.StatusBadRequest,
	services.CodeInvalidTransition: http.StatusBadRequest,
	services.CodeAlreadyCancelled:  http.StatusBadRequest,
	services.CodeUnauthorized:      http.StatusForbidden,
	services.CodeNotFound:          http.StatusNotFound,
	services.CodeNoActiveSub:       http.StatusForbidden,
	services.CodeActiveSubExists:   http.StatusConflict,
	services.CodeConflict:          http.StatusConflict,
	services.CodePhotosUnavailable: http.StatusServiceUnavailable,
	"FILE_TOO_LARGE":               http.StatusBadRequest,
	"INVALID_FILE_FORMAT":          http.StatusBadRequest,
}

// respondServiceError writes the standard error envelope for a failed
// service call. Expected conditions arrive as *services.ServiceError;
// anything else is a store failure and reads as a 500.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status, ok := statusForCode[svcErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    svcErr.Code,
				"message": svcErr.Message,
			},
		})
		return
	}

	logger.L().Error("unexpected service failure", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "An internal error occurred",
		},
	})
}

// respondValidation writes a 400 VALIDATION_ERROR envelope for a request
// binding failure
func respondValidation(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": details,
		},
	})
}
