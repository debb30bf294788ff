package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/models"
)

func newSubscriptionRouter(principal middleware.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, principal)
		c.Next()
	})
	router.POST("/subscriptions", CreateSubscription)
	router.POST("/subscriptions/:id/cancel", CancelSubscription)
	router.GET("/subscriptions", GetMySubscriptions)
	return router
}

func TestCreateSubscriptionEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	client := createControllerTestUser(t, db, "client@example.com", models.RoleClient)
	router := newSubscriptionRouter(middleware.Principal{ID: client.ID, Role: client.Role})

	var plan models.Plan
	require.NoError(t, db.Order("price ASC").First(&plan).Error)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successfully subscribe",
			body:           map[string]interface{}{"plan_id": plan.ID, "payment_method": "card"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "second active subscription is rejected",
			body:           map[string]interface{}{"plan_id": plan.ID, "payment_method": "card"},
			expectedStatus: http.StatusConflict,
			expectedError:  "ACTIVE_SUBSCRIPTION_EXISTS",
		},
		{
			name:           "missing payment method",
			body:           map[string]interface{}{"plan_id": plan.ID},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "unknown plan",
			body:           map[string]interface{}{"plan_id": 999, "payment_method": "card"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/subscriptions", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errObj["code"])
				return
			}

			assert.True(t, response["success"].(bool))
			data := response["data"].(map[string]interface{})
			assert.Equal(t, "active", data["status"])
			assert.Equal(t, float64(plan.ID), data["plan_id"])
		})
	}
}

func TestCancelSubscriptionEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	owner := createControllerTestUser(t, db, "owner@example.com", models.RoleClient)
	other := createControllerTestUser(t, db, "other@example.com", models.RoleClient)
	sub := activateSubscription(t, db, owner.ID)

	ownerRouter := newSubscriptionRouter(middleware.Principal{ID: owner.ID, Role: models.RoleClient})
	otherRouter := newSubscriptionRouter(middleware.Principal{ID: other.ID, Role: models.RoleClient})

	// another user's subscription reads as not found
	w := doJSON(otherRouter, "POST", "/subscriptions/1/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(ownerRouter, "POST", "/subscriptions/1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "cancelled", data["status"])
	assert.Equal(t, float64(sub.ID), data["id"])

	// cancelling again is an explicit error, not a silent no-op
	w = doJSON(ownerRouter, "POST", "/subscriptions/1/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_CANCELLED", errObj["code"])
}

func TestGetMySubscriptionsEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	owner := createControllerTestUser(t, db, "owner@example.com", models.RoleClient)
	stranger := createControllerTestUser(t, db, "stranger@example.com", models.RoleClient)
	activateSubscription(t, db, owner.ID)

	w := doJSON(newSubscriptionRouter(middleware.Principal{ID: owner.ID, Role: models.RoleClient}), "GET", "/subscriptions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"].([]interface{}), 1)

	w = doJSON(newSubscriptionRouter(middleware.Principal{ID: stranger.ID, Role: models.RoleClient}), "GET", "/subscriptions", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"].([]interface{}), 0)
}
