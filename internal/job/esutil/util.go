// Package esutil converts job postings to their Elasticsearch document form.
package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Agnesa14/SkillCast/internal/job"
)

// JobToElasticsearchDoc converts a job.Job to its Elasticsearch document
// representation.
func JobToElasticsearchDoc(j *job.Job) (string, error) {
	if j == nil {
		return "", errors.New("job cannot be nil")
	}

	doc := map[string]interface{}{
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
		return "", fmt.Errorf("error marshalling job to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
