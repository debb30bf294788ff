package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/services"
)

// RegisterUserRequest represents the request body for registration
type RegisterUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// UpdateProfileRequest represents the request body for a profile update
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// RegisterUser handles POST /api/v1/users - creates a client account.
// Sessions and tokens are issued by the external identity service; this
// endpoint only stores the account row.
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	svc := services.NewUserService(config.GetDB())
	user, err := svc.Register(services.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyProfile handles GET /api/v1/users/me
func GetMyProfile(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	svc := services.NewUserService(config.GetDB())
	user, err := svc.GetByID(principal.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateMyProfile handles PATCH /api/v1/users/me
func UpdateMyProfile(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	svc := services.NewUserService(config.GetDB())
	user, err := svc.UpdateProfile(principal.ID, req.Name, req.Phone, req.Address)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
