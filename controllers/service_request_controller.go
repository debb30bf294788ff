package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/services"
)

// CreateServiceRequestRequest represents the request body for raising a
// service request
type CreateServiceRequestRequest struct {
	ServiceID     uint    `json:"service_id" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	PreferredDate string  `json:"preferred_date" binding:"required"` // YYYY-MM-DD
	PreferredTime *string `json:"preferred_time"`
	Address       *string `json:"address"`
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// CreateServiceRequest handles POST /api/v1/service-requests
func CreateServiceRequest(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		respondValidation(c, "preferred_date must be YYYY-MM-DD")
		return
	}

	svc := services.NewServiceRequestService(config.GetDB())
	created, err := svc.Create(services.CreateServiceRequestInput{
		UserID:        principal.ID,
		ServiceID:     req.ServiceID,
		Description:   req.Description,
		PreferredDate: preferredDate,
		PreferredTime: req.PreferredTime,
		Address:       req.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// UpdateServiceRequestStatus handles PATCH /api/v1/service-requests/:id/status
// (technician/admin only)
func UpdateServiceRequestStatus(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "request id must be numeric")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	svc := services.NewServiceRequestService(config.GetDB())
	updated, err := svc.UpdateStatus(uint(id), models.ServiceRequestStatus(req.Status), req.Notes, principal.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// CancelServiceRequest handles POST /api/v1/service-requests/:id/cancel -
// the owner cancels a still-pending request
func CancelServiceRequest(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "request id must be numeric")
		return
	}

	svc := services.NewServiceRequestService(config.GetDB())
	cancelled, err := svc.Cancel(uint(id), principal.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cancelled,
	})
}

// ListServiceRequests handles GET /api/v1/service-requests - clients see
// their own requests, staff see everything
func ListServiceRequests(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	svc := services.NewServiceRequestService(config.GetDB())

	var reqs []models.ServiceRequest
	if principal.Role.IsStaff() {
		reqs, err = svc.ListAll()
	} else {
		reqs, err = svc.ListForUser(principal.ID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reqs,
	})
}

// UploadServiceRequestPhoto handles POST /api/v1/service-requests/:id/photo -
// the owner attaches a photo of the problem
func UploadServiceRequestPhoto(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "request id must be numeric")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondValidation(c, "multipart field 'photo' is required")
		return
	}

	svc := services.NewServiceRequestService(config.GetDB())
	updated, err := svc.AttachPhoto(uint(id), principal.ID, fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}
