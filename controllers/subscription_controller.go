package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/services"
)

// CreateSubscriptionRequest represents the request body for creating a subscription
type CreateSubscriptionRequest struct {
	PlanID        uint   `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreateSubscription handles POST /api/v1/subscriptions - records a
// subscription once the external payment flow has confirmed payment
func CreateSubscription(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	svc := services.NewSubscriptionService(config.GetDB())
	sub, err := svc.Create(principal.ID, req.PlanID, req.PaymentMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    sub,
	})
}

// CancelSubscription handles POST /api/v1/subscriptions/:id/cancel - moves
// the caller's subscription from active to cancelled
func CancelSubscription(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondValidation(c, "subscription id must be numeric")
		return
	}

	svc := services.NewSubscriptionService(config.GetDB())
	sub, err := svc.Cancel(uint(id), principal.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sub,
	})
}

// GetMySubscriptions handles GET /api/v1/subscriptions - lists the caller's
// subscriptions, newest first
func GetMySubscriptions(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	svc := services.NewSubscriptionService(config.GetDB())
	subs, err := svc.ListForUser(principal.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subs,
	})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not resolve acting user",
		},
	})
}
