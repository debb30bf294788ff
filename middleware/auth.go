package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/repositories"
)

const principalKey = "principal"

// Principal is the resolved acting user handed to the lifecycle services.
// The services consume nothing else from the auth layer.
type Principal struct {
	ID   uint
	Role models.Role
}

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope string `json:"scope"`
}

// Validate does nothing here, but is required by the
// validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// The token subject is the numeric user id issued by the identity service.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		logger.L().Fatal("failed to parse the issuer url", zap.Error(err))
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		logger.L().Fatal("failed to set up the jwt validator", zap.Error(err))
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.L().Warn("failed to validate JWT", zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			logger.L().Warn("failed to write error response", zap.Error(writeErr))
		}
	}

	jwtMiddleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var validated bool
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			validated = true
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set("token_subject", token.RegisteredClaims.Subject)
			c.Next()
		}

		jwtMiddleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// on a rejected token the error handler has already written the
		// response; stop gin from running the rest of the chain on top of it
		if !validated {
			c.Abort()
		}
	}
}

// ResolvePrincipal turns the validated token subject into a Principal by
// loading the users row. Runs after EnsureValidToken.
func ResolvePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, exists := c.Get("token_subject")
		if !exists {
			unauthenticated(c, "Missing credentials")
			return
		}

		id, err := strconv.ParseUint(subject.(string), 10, 64)
		if err != nil {
			unauthenticated(c, "Malformed token subject")
			return
		}

		users := repositories.NewUserRepository(config.GetDB())
		user, err := users.GetByID(uint(id))
		if err != nil {
			unauthenticated(c, "Unknown principal")
			return
		}

		c.Set(principalKey, Principal{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

func unauthenticated(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
	c.Abort()
}

// GetPrincipal extracts the resolved principal from the Gin context
func GetPrincipal(c *gin.Context) (Principal, error) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, &AuthError{Code: "MISSING_PRINCIPAL", Message: "Principal not found in context"}
	}

	principal, ok := value.(Principal)
	if !ok {
		return Principal{}, &AuthError{Code: "INVALID_PRINCIPAL", Message: "Principal is not in the expected format"}
	}

	return principal, nil
}

// SetPrincipal stores a principal on the context (primarily for testing)
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
