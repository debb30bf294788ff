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

// ScheduleVisitRequest represents the request body for scheduling a visit
type ScheduleVisitRequest struct {
	UserID         uint    `json:"user_id" binding:"required"`
	SubscriptionID uint    `json:"subscription_id" binding:"required"`
	ScheduledDate  string  `json:"scheduled_date" binding:"required"` // YYYY-MM-DD
	ScheduledTime  *string `json:"scheduled_time"`
	TechnicianName *string `json:"technician_name"`
	Notes          *string `json:"notes"`
}

// ScheduleMaintenanceVisit handles POST /api/v1/maintenance-visits
// (technician/admin only)
func ScheduleMaintenanceVisit(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req ScheduleVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	scheduledDate, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		respondValidation(c, "scheduled_date must be YYYY-MM-DD")
		return
	}

	svc := services.NewMaintenanceService(config.GetDB())
	visit, err := svc.Schedule(services.ScheduleVisitInput{
		UserID:         req.UserID,
		SubscriptionID: req.SubscriptionID,
		ScheduledDate:  scheduledDate,
		ScheduledTime:  req.ScheduledTime,
		TechnicianName: req.TechnicianName,
		Notes:          req.Notes,
	}, principal.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    visit,
	})
}

// UpdateMaintenanceVisitStatus handles PATCH /api/v1/maintenance-visits/:id/status
// (technician/admin only)
func UpdateMaintenanceVisitStatus(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "visit id must be numeric")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	svc := services.NewMaintenanceService(config.GetDB())
	visit, err := svc.UpdateStatus(uint(id), models.MaintenanceVisitStatus(req.Status), req.Notes, principal.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    visit,
	})
}

// ListMaintenanceVisits handles GET /api/v1/maintenance-visits - clients see
// their own visits, staff see everything
func ListMaintenanceVisits(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	svc := services.NewMaintenanceService(config.GetDB())

	var visits []models.MaintenanceVisit
	if principal.Role.IsStaff() {
		visits, err = svc.ListAll()
	} else {
		visits, err = svc.ListForUser(principal.ID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    visits,
	})
}
