package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/models"
)

// ErrorResponse is a local definition for sending standardized error
// messages. It mirrors the one in internal/api to avoid import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Context keys set by the middleware for downstream handlers.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUser      = "currentUser"
)

// AuthMiddleware provides Gin middleware for Firebase token authentication
// and role-based authorization.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	userService        core.UserService
	logger             *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It panics on a nil
// auth client, since no authenticated route can work without one.
func NewAuthMiddleware(fbAuthClient *auth.Client, userService core.UserService, logger *zap.Logger) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{
		firebaseAuthClient: fbAuthClient,
		userService:        userService,
		logger:             logger,
	}
}

// VerifyToken verifies the Firebase ID token from the Authorization header
// and sets the caller's UID and email in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}
		idToken := parts[1]

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			m.logger.Warn("Failed to verify Firebase ID token", zap.Error(err))
			// Generic message to the client; details stay server-side.
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextUserEmail, email)
		}

		c.Next()
	}
}

// RequireRoles is the single authorization guard every protected page-level
// route goes through, parameterized by the set of permitted roles. It loads
// the caller's profile, stashes it in the context, and rejects callers whose
// role is not in the set. Must run after VerifyToken.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
			return
		}

		user, err := m.userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			m.logger.Warn("Failed to load profile for role check",
				zap.String("userId", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "User profile not found; initialize your profile first"})
			return
		}

		if len(allowed) > 0 && !allowed[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Insufficient role for this resource"})
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser pulls the profile stashed by RequireRoles out of the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
