package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/controllers"
	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/repositories"
	"github.com/pureflow/pureflow-api/tests/testutil"
)

// SubscriptionAcceptanceTestSuite exercises the customer journey end to end
// against a real HTTP server: register, subscribe, raise a request, have a
// technician work it, and cancel.
type SubscriptionAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
}

// SetupSuite runs once before all tests
func (suite *SubscriptionAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
}

// SetupTest rebuilds the store and server before each test
func (suite *SubscriptionAcceptanceTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/plans", controllers.GetPlans)
		v1.GET("/services", controllers.GetServices)
		v1.GET("/locations", controllers.GetLocations)
		v1.POST("/users", controllers.RegisterUser)

		authed := v1.Group("", suite.headerAuthMiddleware())
		{
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.GET("/subscriptions", controllers.GetMySubscriptions)
			authed.POST("/subscriptions", controllers.CreateSubscription)
			authed.POST("/subscriptions/:id/cancel", controllers.CancelSubscription)
			authed.GET("/service-requests", controllers.ListServiceRequests)
			authed.POST("/service-requests", controllers.CreateServiceRequest)
			authed.PATCH("/service-requests/:id/status", controllers.UpdateServiceRequestStatus)
		}
	}

	suite.server = httptest.NewServer(router)
	suite.T().Cleanup(suite.server.Close)
}

// headerAuthMiddleware resolves the acting user from the X-Acting-User
// header the way ResolvePrincipal resolves the token subject in production
func (suite *SubscriptionAcceptanceTestSuite) headerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.GetHeader("X-Acting-User"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false})
			return
		}
		user, err := repositories.NewUserRepository(suite.db).GetByID(uint(id))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false})
			return
		}
		middleware.SetPrincipal(c, middleware.Principal{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

func (suite *SubscriptionAcceptanceTestSuite) do(method, path string, actingUser uint, body interface{}) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, suite.server.URL+path, &buf)
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if actingUser != 0 {
		req.Header.Set("X-Acting-User", strconv.FormatUint(uint64(actingUser), 10))
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&response))
	return resp, response
}

// TestCustomerJourney covers the happy path from registration to a completed request
func (suite *SubscriptionAcceptanceTestSuite) TestCustomerJourney() {
	// browse plans anonymously
	resp, response := suite.do("GET", "/api/v1/plans", 0, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	plans := response["data"].([]interface{})
	suite.Len(plans, 3)
	planID := uint(plans[0].(map[string]interface{})["id"].(float64))

	// register
	resp, response = suite.do("POST", "/api/v1/users", 0, map[string]interface{}{
		"name":     "Dana Rivera",
		"email":    "Dana.Rivera@Example.com",
		"password": "correct horse battery",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	userData := response["data"].(map[string]interface{})
	userID := uint(userData["id"].(float64))
	suite.Equal("dana.rivera@example.com", userData["email"], "emails are stored lowercased")
	suite.NotContains(userData, "password_hash", "hash never leaves the API")

	// subscribe
	resp, response = suite.do("POST", "/api/v1/subscriptions", userID, map[string]interface{}{
		"plan_id":        planID,
		"payment_method": "card",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	// raise a request
	resp, response = suite.do("GET", "/api/v1/services", 0, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	serviceID := uint(response["data"].([]interface{})[0].(map[string]interface{})["id"].(float64))

	resp, response = suite.do("POST", "/api/v1/service-requests", userID, map[string]interface{}{
		"service_id":     serviceID,
		"description":    "low pressure at the tap",
		"preferred_date": time.Now().AddDate(0, 0, 4).Format("2006-01-02"),
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	requestID := uint(response["data"].(map[string]interface{})["id"].(float64))

	// a technician picks it up and completes it
	tech := testutil.CreateUser(suite.T(), suite.db, "tech@pureflow.test", models.RoleTechnician)
	statusPath := fmt.Sprintf("/api/v1/service-requests/%d/status", requestID)

	resp, _ = suite.do("PATCH", statusPath, tech.ID, map[string]interface{}{"status": "in_progress"})
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, response = suite.do("PATCH", statusPath, tech.ID, map[string]interface{}{
		"status": "completed",
		"notes":  "pressure restored",
	})
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("completed", response["data"].(map[string]interface{})["status"])

	// the customer sees the finished request
	resp, response = suite.do("GET", "/api/v1/service-requests", userID, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	listed := response["data"].([]interface{})
	suite.Len(listed, 1)
	suite.Equal("completed", listed[0].(map[string]interface{})["status"])
}

// TestCancellationJourney covers cancel plus the repeated-cancel error
func (suite *SubscriptionAcceptanceTestSuite) TestCancellationJourney() {
	user := testutil.CreateUser(suite.T(), suite.db, "leaver@pureflow.test", models.RoleClient)
	plan := testutil.CheapestPlan(suite.T(), suite.db)

	resp, response := suite.do("POST", "/api/v1/subscriptions", user.ID, map[string]interface{}{
		"plan_id":        plan.ID,
		"payment_method": "bank_transfer",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	subID := uint(response["data"].(map[string]interface{})["id"].(float64))

	cancelPath := fmt.Sprintf("/api/v1/subscriptions/%d/cancel", subID)
	resp, response = suite.do("POST", cancelPath, user.ID, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("cancelled", response["data"].(map[string]interface{})["status"])

	resp, response = suite.do("POST", cancelPath, user.ID, nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("ALREADY_CANCELLED", response["error"].(map[string]interface{})["code"])

	// and the slate is clean for a new subscription
	resp, _ = suite.do("POST", "/api/v1/subscriptions", user.ID, map[string]interface{}{
		"plan_id":        plan.ID,
		"payment_method": "card",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)
}

// TestDuplicateRegistrationRejected covers the unique email constraint
func (suite *SubscriptionAcceptanceTestSuite) TestDuplicateRegistrationRejected() {
	body := map[string]interface{}{
		"name":     "Sam Ortiz",
		"email":    "sam@pureflow.test",
		"password": "hunter22hunter22",
	}

	resp, _ := suite.do("POST", "/api/v1/users", 0, body)
	suite.Equal(http.StatusCreated, resp.StatusCode)

	resp, response := suite.do("POST", "/api/v1/users", 0, body)
	suite.Equal(http.StatusConflict, resp.StatusCode)
	suite.Equal("CONFLICT", response["error"].(map[string]interface{})["code"])
}

// TestSubscriptionAcceptanceTestSuite runs the suite
func TestSubscriptionAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionAcceptanceTestSuite))
}
