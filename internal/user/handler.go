// File: internal/user/handler.go
package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Handler exposes the profile endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the profile routes. All of them require an
// authenticated caller; the middleware is attached by the server.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PATCH("/me", h.updateMe)
		users.POST("/me/complete-student", h.completeStudent)
		users.POST("/me/complete-employer", h.completeEmployer)
		users.GET("/:id", h.getByID)
	}
}

func (h *Handler) respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}

func (h *Handler) getMe(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved.", profile)
}

func (h *Handler) getByID(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved.", profile)
}

func (h *Handler) updateMe(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update profile: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated.", profile)
}

func (h *Handler) completeStudent(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req CompleteStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Complete student profile: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	profile, err := h.service.CompleteStudentProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile completed.", profile)
}

func (h *Handler) completeEmployer(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req CompleteEmployerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Complete employer profile: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	profile, err := h.service.CompleteEmployerProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile completed.", profile)
}
