package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/db"
	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/importer"
	"github.com/alexanderramin/plancore/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
	audit    auditor
}

// ImportOption adjusts how an import is validated.
type ImportOption func(*importOptions)

type importOptions struct {
	allowCycles bool
}

// AllowCycles stores cyclic dependency sets instead of rejecting them, so the
// graph can be inspected with the critical path integrity check.
func AllowCycles() ImportOption {
	return func(o *importOptions) { o.allowCycles = true }
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	obs := useCaseObserverOrNoop(observers)
	return &importService{uow: uow, observer: obs, audit: auditor{observer: obs}}
}

func (s *importService) ImportProject(ctx context.Context, filePath, orgID, actorID string, opts ...ImportOption) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportProjectFromSchema(ctx, schema, orgID, actorID, opts...)
}

// ImportProjectFromSchema writes the project, its tasks and dependencies in
// one transaction. Validation errors are reported together before any write.
// A dependency cycle is a validation error unless AllowCycles is given.
func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema, orgID, actorID string, opts ...ImportOption) (result *app.ImportResult, err error) {
	var o importOptions
	for _, opt := range opts {
		opt(&o)
	}

	startedAt := time.Now()
	fields := map[string]any{"tasks": len(schema.Tasks), "dependencies": len(schema.Dependencies)}
	defer observe(ctx, s.observer, "import-project", startedAt, fields, &err)

	if orgID == "" {
		return nil, domain.NewValidationError("organization", "organization is required")
	}
	errs := importer.ValidateImportSchema(schema)
	if len(errs) == 0 && !o.allowCycles {
		if cerr := importer.ValidateAcyclic(schema); cerr != nil {
			errs = append(errs, cerr)
		}
	}
	if len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	graph, err := importer.Convert(schema, orgID)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	fields["project"] = graph.Project.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		if err := txProjects.Create(ctx, graph.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, t := range graph.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		for i := range graph.Dependencies {
			if err := txDeps.Create(ctx, &graph.Dependencies[i]); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}

		s.audit.record(ctx, repository.NewSQLiteAuditRepo(tx), &domain.AuditRecord{
			EntityType:     domain.AuditEntityProject,
			EntityID:       graph.Project.ID,
			Action:         domain.AuditActionImport,
			OrganizationID: orgID,
			ActorID:        actorID,
			Metadata: map[string]any{
				"tasks":        len(graph.Tasks),
				"dependencies": len(graph.Dependencies),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app.ImportResult{
		Project:         graph.Project,
		TaskCount:       len(graph.Tasks),
		DependencyCount: len(graph.Dependencies),
		RefIDs:          graph.RefIDs,
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return domain.NewValidationError("", msg)
}
