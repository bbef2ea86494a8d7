// File: internal/application/handler.go
package application

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/middleware"
)

// Handler exposes the application endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new application handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the application routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/applications")
	{
		apps.POST("", middleware.RequireRole(common.RoleStudent), middleware.RequireCompleteProfile(), h.submit)
		apps.GET("/mine", middleware.RequireRole(common.RoleStudent), h.mine)
		apps.GET("/check/:jobId", middleware.RequireRole(common.RoleStudent), h.check)
		apps.DELETE("/:id", middleware.RequireRole(common.RoleStudent), h.withdraw)

		apps.GET("/job/:jobId", middleware.RequireRole(common.RoleEmployer), h.applicants)
		apps.PATCH("/:id/status", middleware.RequireRole(common.RoleEmployer), h.updateStatus)
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

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid "+name+" parameter."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) submit(c *gin.Context) {
	studentID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Submit application: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	application, err := h.service.Submit(c.Request.Context(), studentID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Application submitted.", ToResponse(application))
}

func (h *Handler) mine(c *gin.Context) {
	studentID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	responses, pagination, err := h.service.ListStudentApplications(c.Request.Context(), studentID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Your applications retrieved.", responses, pagination)
}

func (h *Handler) check(c *gin.Context) {
	studentID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}

	applied, err := h.service.HasApplied(c.Request.Context(), jobID, studentID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Application check complete.", gin.H{"has_applied": applied})
}

func (h *Handler) withdraw(c *gin.Context) {
	studentID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), id, studentID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Application withdrawn.", nil)
}

func (h *Handler) applicants(c *gin.Context) {
	employerID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	responses, pagination, err := h.service.ListJobApplicants(c.Request.Context(), jobID, employerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Applicants retrieved.", responses, pagination)
}

func (h *Handler) updateStatus(c *gin.Context) {
	employerID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update application status: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	application, err := h.service.UpdateStatus(c.Request.Context(), id, employerID, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Application status updated.", ToResponse(application))
}
