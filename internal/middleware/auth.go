// File: internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/firebase"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// AuthMiddleware verifies the bearer ID token, loads the caller's profile
// and stores the caller's identity in the Gin context.
func AuthMiddleware(verifier *firebase.Service, profiles shared.ProfileService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		c.Set(common.UserIDKey, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(common.UserEmailKey, email)
		}
		if verified, ok := token.Claims["email_verified"].(bool); ok {
			c.Set(common.EmailVerifiedKey, verified)
		}

		// The role lives on the profile record, not in the token claims.
		profile, err := profiles.GetProfile(c.Request.Context(), token.UID)
		if err == nil && profile != nil {
			c.Set(common.UserRoleKey, profile.Role)
			c.Set(common.ProfileCompleteKey, profile.IsProfileComplete)
		} else if err != nil {
			logger.Debug("Profile lookup during auth failed",
				zap.Error(err), zap.String("userID", token.UID))
		}

		logger.Debug("User authenticated successfully", zap.String("userID", token.UID))
		c.Next()
	}
}

// RequireVerifiedEmail rejects callers whose email address has not been
// confirmed yet.
func RequireVerifiedEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(common.EmailVerifiedKey)
		verified, ok := val.(bool)
		if !exists || !ok || !verified {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("Email address must be verified first."))
			return
		}
		c.Next()
	}
}

// RequireCompleteProfile rejects callers who have not finished their profile
// yet. Posting and applying both sit behind it.
func RequireCompleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(common.ProfileCompleteKey)
		complete, ok := val.(bool)
		if !exists || !ok || !complete {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("Complete your profile first."))
			return
		}
		c.Next()
	}
}

// RequireRole allows the request through only when the caller holds one of
// the given roles.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
