package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/repositories"
)

// GetPlans handles GET /api/v1/plans - the public plan catalog with ordered
// feature lists
func GetPlans(c *gin.Context) {
	repo := repositories.NewCatalogRepository(config.GetDB())
	plans, err := repo.GetAllPlans()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(plans))
	for i := range plans {
		payload = append(payload, gin.H{
			"id":            plans[i].ID,
			"name":          plans[i].Name,
			"description":   plans[i].Description,
			"price":         plans[i].Price,
			"billing_cycle": plans[i].BillingCycle,
			"popular":       plans[i].Popular,
			"features":      plans[i].FeatureList(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// GetServices handles GET /api/v1/services - the public service catalog
func GetServices(c *gin.Context) {
	repo := repositories.NewCatalogRepository(config.GetDB())
	services, err := repo.GetAllServices()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services,
	})
}

// GetLocations handles GET /api/v1/locations - branch offices, head office first
func GetLocations(c *gin.Context) {
	repo := repositories.NewCatalogRepository(config.GetDB())
	locations, err := repo.GetAllLocations()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    locations,
	})
}
