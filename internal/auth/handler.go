// File: internal/auth/handler.go
package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/flow"
)

// SessionGateway is the session holder surface the handler drives. Declared
// here so the handler does not import the session package.
type SessionGateway interface {
	SignUp(ctx context.Context, email, password, role string) error
	LogIn(ctx context.Context, email, password string) (*Session, error)
	LogOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	State() flow.State
}

// Handler exposes the authentication endpoints.
type Handler struct {
	sessions SessionGateway
	logger   *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(sessions SessionGateway, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signUp)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.logout)
		authGroup.POST("/password-reset", h.passwordReset)
		authGroup.GET("/session", h.session)
		authGroup.GET("/flow", h.flow)
	}
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Auth: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.sessions.SignUp(c.Request.Context(), req.Email, req.Password, req.Role); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Registration successful. Check your inbox for a verification link before logging in.", nil)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}

	sess, err := h.sessions.LogIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Login successful.", SessionResponse{
		UserID:        sess.Identity.ID,
		Email:         sess.Identity.Email,
		EmailVerified: sess.Identity.EmailVerified,
		IDToken:       sess.IDToken,
		RefreshToken:  sess.RefreshToken,
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.LogOut(c.Request.Context()); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Logged out.", nil)
}

func (h *Handler) passwordReset(c *gin.Context) {
	var req PasswordResetRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.sessions.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}
	// Same response whether or not the address is registered.
	common.RespondOK(c, "If an account exists for this address, a reset link has been sent.", nil)
}

func (h *Handler) session(c *gin.Context) {
	common.RespondOK(c, "Current session state.", h.sessions.State())
}

func (h *Handler) flow(c *gin.Context) {
	state := h.sessions.State()
	common.RespondOK(c, "Selected flow.", gin.H{"flow": flow.Select(state)})
}
