package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

func NewProjectService(projects repository.ProjectRepo, tasks repository.TaskRepo) ProjectService {
	return &projectService{projects: projects, tasks: tasks}
}

func (s *projectService) GetByID(ctx context.Context, orgID, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, orgID, id)
}

func (s *projectService) List(ctx context.Context, orgID string) ([]*domain.Project, error) {
	return s.projects.List(ctx, orgID)
}

func (s *projectService) ListTasks(ctx context.Context, orgID, projectID string) ([]*domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, orgID, projectID); err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return s.tasks.ListByProject(ctx, orgID, projectID)
}

// Resolve maps user input to a project id: an exact id, a case-insensitive
// name, or a unique id prefix, in that order.
func (s *projectService) Resolve(ctx context.Context, orgID, input string) (string, error) {
	if input == "" {
		return "", domain.NewValidationError("project", "project is required")
	}

	projects, err := s.projects.List(ctx, orgID)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project id prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
