package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/controllers"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/services"
	"github.com/pureflow/pureflow-api/tests/testutil"
)

// LifecycleIntegrationTestSuite drives the subscription, service request and
// maintenance visit state machines through the HTTP layer
type LifecycleIntegrationTestSuite struct {
	suite.Suite
	db         *gorm.DB
	client     *models.User
	technician *models.User
}

// SetupSuite runs once before all tests
func (suite *LifecycleIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
}

// SetupTest runs before each test
func (suite *LifecycleIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.client = testutil.CreateUser(suite.T(), suite.db, "client@pureflow.test", models.RoleClient)
	suite.technician = testutil.CreateUser(suite.T(), suite.db, "tech@pureflow.test", models.RoleTechnician)

	mockPhotos := services.NewMockPhotoService()
	services.SetPhotoService(mockPhotos)
}

// routerFor builds the authed routes behind a stub principal
func (suite *LifecycleIntegrationTestSuite) routerFor(user *models.User) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	authed := v1.Group("", testutil.AsPrincipal(user))
	{
		authed.GET("/subscriptions", controllers.GetMySubscriptions)
		authed.POST("/subscriptions", controllers.CreateSubscription)
		authed.POST("/subscriptions/:id/cancel", controllers.CancelSubscription)

		authed.GET("/service-requests", controllers.ListServiceRequests)
		authed.POST("/service-requests", controllers.CreateServiceRequest)
		authed.POST("/service-requests/:id/cancel", controllers.CancelServiceRequest)
		authed.PATCH("/service-requests/:id/status", controllers.UpdateServiceRequestStatus)

		authed.GET("/maintenance-visits", controllers.ListMaintenanceVisits)
		authed.POST("/maintenance-visits", controllers.ScheduleMaintenanceVisit)
		authed.PATCH("/maintenance-visits/:id/status", controllers.UpdateMaintenanceVisitStatus)
	}
	return router
}

func (suite *LifecycleIntegrationTestSuite) request(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// TestFullServiceRequestLifecycle walks subscribe -> request -> in_progress -> completed
func (suite *LifecycleIntegrationTestSuite) TestFullServiceRequestLifecycle() {
	clientRouter := suite.routerFor(suite.client)
	techRouter := suite.routerFor(suite.technician)

	plan := testutil.CheapestPlan(suite.T(), suite.db)
	service := testutil.FirstService(suite.T(), suite.db)

	w, response := suite.request(clientRouter, "POST", "/api/v1/subscriptions",
		map[string]interface{}{"plan_id": plan.ID, "payment_method": "card"})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("active", response["data"].(map[string]interface{})["status"])

	w, response = suite.request(clientRouter, "POST", "/api/v1/service-requests",
		map[string]interface{}{
			"service_id":     service.ID,
			"description":    "filter needs replacing",
			"preferred_date": time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		})
	suite.Equal(http.StatusCreated, w.Code)
	requestID := uint(response["data"].(map[string]interface{})["id"].(float64))
	suite.Equal("pending", response["data"].(map[string]interface{})["status"])

	statusPath := fmt.Sprintf("/api/v1/service-requests/%d/status", requestID)

	w, _ = suite.request(techRouter, "PATCH", statusPath,
		map[string]interface{}{"status": "in_progress"})
	suite.Equal(http.StatusOK, w.Code)

	w, response = suite.request(techRouter, "PATCH", statusPath,
		map[string]interface{}{"status": "completed", "notes": "replaced cartridge"})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("completed", response["data"].(map[string]interface{})["status"])

	// completed is terminal
	w, response = suite.request(techRouter, "PATCH", statusPath,
		map[string]interface{}{"status": "in_progress"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_TRANSITION", response["error"].(map[string]interface{})["code"])

	// the row reflects the final state
	var stored models.ServiceRequest
	suite.NoError(suite.db.First(&stored, requestID).Error)
	suite.Equal(models.ServiceRequestCompleted, stored.Status)
	suite.NotNil(stored.TechnicianNotes)
}

// TestClientCannotDriveStaffTransitions proves role checks hold at the HTTP layer
func (suite *LifecycleIntegrationTestSuite) TestClientCannotDriveStaffTransitions() {
	clientRouter := suite.routerFor(suite.client)

	plan := testutil.CheapestPlan(suite.T(), suite.db)
	service := testutil.FirstService(suite.T(), suite.db)

	w, _ := suite.request(clientRouter, "POST", "/api/v1/subscriptions",
		map[string]interface{}{"plan_id": plan.ID, "payment_method": "card"})
	suite.Equal(http.StatusCreated, w.Code)

	w, response := suite.request(clientRouter, "POST", "/api/v1/service-requests",
		map[string]interface{}{
			"service_id":     service.ID,
			"description":    "leaking housing",
			"preferred_date": time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		})
	suite.Equal(http.StatusCreated, w.Code)
	requestID := uint(response["data"].(map[string]interface{})["id"].(float64))

	w, response = suite.request(clientRouter, "PATCH",
		fmt.Sprintf("/api/v1/service-requests/%d/status", requestID),
		map[string]interface{}{"status": "completed"})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("UNAUTHORIZED", response["error"].(map[string]interface{})["code"])

	// the row is untouched
	var stored models.ServiceRequest
	suite.NoError(suite.db.First(&stored, requestID).Error)
	suite.Equal(models.ServiceRequestPending, stored.Status)
}

// TestMaintenanceVisitLifecycle walks schedule -> completed through staff routes
func (suite *LifecycleIntegrationTestSuite) TestMaintenanceVisitLifecycle() {
	clientRouter := suite.routerFor(suite.client)
	techRouter := suite.routerFor(suite.technician)

	plan := testutil.CheapestPlan(suite.T(), suite.db)
	w, response := suite.request(clientRouter, "POST", "/api/v1/subscriptions",
		map[string]interface{}{"plan_id": plan.ID, "payment_method": "card"})
	suite.Equal(http.StatusCreated, w.Code)
	subscriptionID := uint(response["data"].(map[string]interface{})["id"].(float64))

	// a client may not schedule visits
	visitBody := map[string]interface{}{
		"user_id":         suite.client.ID,
		"subscription_id": subscriptionID,
		"scheduled_date":  time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	}
	w, _ = suite.request(clientRouter, "POST", "/api/v1/maintenance-visits", visitBody)
	suite.Equal(http.StatusForbidden, w.Code)

	w, response = suite.request(techRouter, "POST", "/api/v1/maintenance-visits", visitBody)
	suite.Equal(http.StatusCreated, w.Code)
	visitID := uint(response["data"].(map[string]interface{})["id"].(float64))
	suite.Equal("scheduled", response["data"].(map[string]interface{})["status"])

	w, response = suite.request(techRouter, "PATCH",
		fmt.Sprintf("/api/v1/maintenance-visits/%d/status", visitID),
		map[string]interface{}{"status": "completed", "notes": "annual flush done"})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("completed", response["data"].(map[string]interface{})["status"])

	// the client sees their own visit
	w, response = suite.request(clientRouter, "GET", "/api/v1/maintenance-visits", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(response["data"].([]interface{}), 1)
}

// TestCancelledSubscriptionBlocksNewRequests ties the two state machines together
func (suite *LifecycleIntegrationTestSuite) TestCancelledSubscriptionBlocksNewRequests() {
	clientRouter := suite.routerFor(suite.client)

	plan := testutil.CheapestPlan(suite.T(), suite.db)
	service := testutil.FirstService(suite.T(), suite.db)

	w, response := suite.request(clientRouter, "POST", "/api/v1/subscriptions",
		map[string]interface{}{"plan_id": plan.ID, "payment_method": "card"})
	suite.Equal(http.StatusCreated, w.Code)
	subscriptionID := uint(response["data"].(map[string]interface{})["id"].(float64))

	w, _ = suite.request(clientRouter, "POST",
		fmt.Sprintf("/api/v1/subscriptions/%d/cancel", subscriptionID), nil)
	suite.Equal(http.StatusOK, w.Code)

	w, response = suite.request(clientRouter, "POST", "/api/v1/service-requests",
		map[string]interface{}{
			"service_id":     service.ID,
			"description":    "water tastes off",
			"preferred_date": time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("NO_ACTIVE_SUBSCRIPTION", response["error"].(map[string]interface{})["code"])
}

// TestLifecycleIntegrationTestSuite runs the suite
func TestLifecycleIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleIntegrationTestSuite))
}
