// File: internal/job/handler.go
package job

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/middleware"
)

// Handler exposes the job posting endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new job handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the job routes. The group is already behind the auth
// middleware; employer-only operations add the role check on top.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.search)
		jobs.GET("/mine", middleware.RequireRole(common.RoleEmployer), h.mine)
		jobs.GET("/slug/:slug", h.getBySlug)
		jobs.GET("/:id", h.getByID)

		jobs.POST("", middleware.RequireRole(common.RoleEmployer), middleware.RequireCompleteProfile(), h.create)
		jobs.PATCH("/:id", middleware.RequireRole(common.RoleEmployer), h.update)
		jobs.POST("/:id/activate", middleware.RequireRole(common.RoleEmployer), h.setActive(true))
		jobs.POST("/:id/deactivate", middleware.RequireRole(common.RoleEmployer), h.setActive(false))
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

func (h *Handler) parseJobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid job ID."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondBindError(c, err)
		return
	}
	// Browsing never exposes other employers' inactive postings.
	query.IncludeInactive = false

	jobs, pagination, err := h.service.SearchJobs(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, ToJobResponse(&jobs[i]))
	}
	common.RespondPaginated(c, "Job postings retrieved.", responses, pagination)
}

func (h *Handler) mine(c *gin.Context) {
	employerID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondBindError(c, err)
		return
	}

	responses, pagination, err := h.service.GetEmployerJobs(c.Request.Context(), employerID, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Your job postings retrieved.", responses, pagination)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}

	job, err := h.service.GetJobByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Job posting retrieved.", ToJobResponse(job))
}

func (h *Handler) getBySlug(c *gin.Context) {
	job, err := h.service.GetJobBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Job posting retrieved.", ToJobResponse(job))
}

func (h *Handler) create(c *gin.Context) {
	employerID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create job: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), employerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Job posting created.", ToJobResponse(job))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.parseJobID(c)
	if !ok {
		return
	}
	employerID, err := common.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update job: invalid request body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	job, err := h.service.UpdateJob(c.Request.Context(), id, employerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Job posting updated.", ToJobResponse(job))
}

func (h *Handler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseJobID(c)
		if !ok {
			return
		}
		employerID, err := common.GetUserIDFromContext(c)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}

		job, err := h.service.SetJobActive(c.Request.Context(), id, employerID, active)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}

		message := "Job posting deactivated."
		if active {
			message = "Job posting activated."
		}
		common.RespondOK(c, message, ToJobResponse(job))
	}
}
