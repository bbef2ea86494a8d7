// File: internal/job/service.go
package job

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/platform/elasticsearch"
)

// ApplicationCounter reports how many applications a posting has received.
// Implemented by the application repository.
type ApplicationCounter interface {
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}

// Service defines the interface for job-related business logic.
type Service interface {
	CreateJob(ctx context.Context, employerID string, req CreateJobRequest) (*Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error)
	GetJobBySlug(ctx context.Context, slugStr string) (*Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, employerID string, req UpdateJobRequest) (*Job, error)
	SetJobActive(ctx context.Context, id uuid.UUID, employerID string, active bool) (*Job, error)
	SearchJobs(ctx context.Context, query SearchQuery) ([]Job, *common.Pagination, error)
	GetEmployerJobs(ctx context.Context, employerID string, query SearchQuery) ([]JobResponse, *common.Pagination, error)

	// ExpirePostings deactivates postings past their lifespan. Called by the
	// scheduler.
	ExpirePostings(ctx context.Context) (int64, error)

	// IndexJob pushes one posting into the search index. Best effort.
	IndexJob(ctx context.Context, job *Job)
}

// ServiceImplementation implements the job Service interface.
type ServiceImplementation struct {
	repo     Repository
	counter  ApplicationCounter
	esClient *elasticsearch.ESClientWrapper
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new job service. esClient may be nil, in which case
// search always uses the SQL fallback.
func NewService(
	repo Repository,
	counter ApplicationCounter,
	esClient *elasticsearch.ESClientWrapper,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:     repo,
		counter:  counter,
		esClient: esClient,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateJob handles the business logic for posting a new job.
func (s *ServiceImplementation) CreateJob(ctx context.Context, employerID string, req CreateJobRequest) (*Job, error) {
	job := &Job{
		EmployerID:  employerID,
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Description: strings.TrimSpace(req.Description),
		Salary:      strings.TrimSpace(req.Salary),
		Skills:      normalizeSkills(req.Skills),
		IsActive:    true,
		ExpiresAt:   time.Now().AddDate(0, 0, s.cfg.PostingLifespanDays),
	}
	job.Slug = slug.Make(job.Title) + "-" + uuid.NewString()[:8]

	if err := s.repo.Create(ctx, job); err != nil {
		s.logger.Error("Failed to create job posting", zap.Error(err), zap.String("employerID", employerID))
		return nil, err
	}

	s.logger.Info("Job posting created",
		zap.String("jobID", job.ID.String()),
		zap.String("employerID", employerID),
		zap.String("slug", job.Slug))
	s.IndexJob(ctx, job)
	return job, nil
}

// GetJobByID retrieves a posting by ID.
func (s *ServiceImplementation) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// GetJobBySlug retrieves a posting by slug.
func (s *ServiceImplementation) GetJobBySlug(ctx context.Context, slugStr string) (*Job, error) {
	return s.repo.FindBySlug(ctx, slugStr)
}

// UpdateJob edits a posting after checking ownership.
func (s *ServiceImplementation) UpdateJob(ctx context.Context, id uuid.UUID, employerID string, req UpdateJobRequest) (*Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, common.ErrForbidden.WithDetails("You do not own this posting.")
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.Description != nil {
		job.Description = strings.TrimSpace(*req.Description)
	}
	if req.Salary != nil {
		job.Salary = strings.TrimSpace(*req.Salary)
	}
	if req.Skills != nil {
		job.Skills = normalizeSkills(*req.Skills)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	s.IndexJob(ctx, job)
	return job, nil
}

// SetJobActive flips a posting's active flag after checking ownership.
func (s *ServiceImplementation) SetJobActive(ctx context.Context, id uuid.UUID, employerID string, active bool) (*Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, common.ErrForbidden.WithDetails("You do not own this posting.")
	}

	job.IsActive = active
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job posting status changed",
		zap.String("jobID", id.String()), zap.Bool("isActive", active))
	s.IndexJob(ctx, job)
	return job, nil
}

// SearchJobs goes through Elasticsearch when a client is configured and a
// free-text term is present, and falls back to SQL otherwise or on any
// search-side failure.
func (s *ServiceImplementation) SearchJobs(ctx context.Context, query SearchQuery) ([]Job, *common.Pagination, error) {
	if s.esClient != nil && query.SearchTerm != "" {
		jobs, pagination, err := s.searchWithES(ctx, query)
		if err == nil {
			return jobs, pagination, nil
		}
		s.logger.Warn("Elasticsearch search failed, falling back to SQL", zap.Error(err))
	}

	jobs, pagination, err := s.repo.Search(ctx, query)
	if err != nil {
		s.logger.Error("Failed to search job postings", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve job postings.")
	}
	return jobs, pagination, nil
}

// GetEmployerJobs lists an employer's own postings, inactive included, with
// applicant counts attached.
func (s *ServiceImplementation) GetEmployerJobs(ctx context.Context, employerID string, query SearchQuery) ([]JobResponse, *common.Pagination, error) {
	query.EmployerID = employerID
	query.IncludeInactive = true

	jobs, pagination, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		resp := ToJobResponse(&jobs[i])
		count, err := s.counter.CountByJob(ctx, jobs[i].ID)
		if err != nil {
			// The list is still useful without the counts.
			s.logger.Warn("Failed to count applicants", zap.Error(err), zap.String("jobID", jobs[i].ID.String()))
		} else {
			resp.ApplicantCount = &count
		}
		responses = append(responses, resp)
	}
	return responses, pagination, nil
}

// ExpirePostings deactivates every posting past its lifespan.
func (s *ServiceImplementation) ExpirePostings(ctx context.Context) (int64, error) {
	count, err := s.repo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to deactivate expired postings", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("Deactivated expired job postings", zap.Int64("count", count))
	}
	return count, nil
}

// IndexJob pushes one posting into the search index. Failures are logged and
// swallowed: the database remains the source of truth and the index can be
// rebuilt with the sync-jobs command.
func (s *ServiceImplementation) IndexJob(ctx context.Context, job *Job) {
	if s.esClient == nil {
		return
	}

	doc, err := jobToSearchDoc(job)
	if err != nil {
		s.logger.Error("Failed to build search document", zap.Error(err), zap.String("jobID", job.ID.String()))
		return
	}

	req := esapi.IndexRequest{
		Index:      elasticsearch.JobsIndexName,
		DocumentID: job.ID.String(),
		Body:       strings.NewReader(doc),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Warn("Failed to index job posting", zap.Error(err), zap.String("jobID", job.ID.String()))
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		s.logger.Warn("Search index rejected job posting",
			zap.String("status", res.Status()), zap.String("jobID", job.ID.String()))
	}
}

// searchWithES resolves matching IDs from the index, then loads the rows from
// the database so responses always reflect stored state.
func (s *ServiceImplementation) searchWithES(ctx context.Context, query SearchQuery) ([]Job, *common.Pagination, error) {
	must := []map[string]any{
		{
			"multi_match": map[string]any{
				"query":  query.SearchTerm,
				"fields": []string{"title^3", "company^2", "skills^2", "description"},
			},
		},
	}
	filter := make([]map[string]any, 0, 2)
	if !query.IncludeInactive {
		filter = append(filter, map[string]any{"term": map[string]any{"is_active": true}})
	}
	if query.Skill != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"skills": query.Skill}})
	}
	if query.EmployerID != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"employer_id": query.EmployerID}})
	}

	page := query.Page
	if page < 1 {
		page = common.DefaultPage
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = common.DefaultPageSize
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
		"from":    (page - 1) * pageSize,
		"size":    pageSize,
		"_source": false,
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(elasticsearch.JobsIndexName),
		s.esClient.Search.WithBody(bytes.NewReader(bodyJSON)),
	)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, nil, common.ErrServiceUnavailable.WithDetails("search index error: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	jobs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	pagination := common.NewPagination(parsed.Hits.Total.Value, page, pageSize)
	return jobs, pagination, nil
}

// jobToSearchDoc converts a posting to its search index representation.
func jobToSearchDoc(j *Job) (string, error) {
	doc := map[string]any{
		"title":       j.Title,
		"company":     j.Company,
		"description": j.Description,
		"salary":      j.Salary,
		"skills":      []string(j.Skills),
		"employer_id": j.EmployerID,
		"slug":        j.Slug,
		"is_active":   j.IsActive,
		"created_at":  j.CreatedAt,
		"expires_at":  j.ExpiresAt,
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(docBytes), nil
}

func normalizeSkills(skills []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		if sk != "" {
			out = append(out, sk)
		}
	}
	return out
}
