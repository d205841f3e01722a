package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found. Cycles are checked
// separately by ValidateAcyclic.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	refs := make(map[string]bool)
	errs = append(errs, validateTasks(schema.Tasks, refs)...)

	errs = append(errs, validateDependencies(schema.Dependencies, refs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.BudgetAmount < 0 {
		errs = append(errs, fmt.Errorf("project.budget_amount must not be negative"))
	}
	if p.LaborRatePerHour < 0 {
		errs = append(errs, fmt.Errorf("project.labor_rate_per_hour must not be negative"))
	}

	return errs
}

func validateTasks(tasks []TaskImport, refs map[string]bool) []error {
	var errs []error
	ids := make(map[string]bool)

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		} else {
			refs[t.Ref] = true
		}
		if t.ID != "" {
			if ids[t.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, t.ID))
			}
			ids[t.ID] = true
		}

		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}

		if t.PercentComplete != nil && (*t.PercentComplete < 0 || *t.PercentComplete > 100) {
			errs = append(errs, fmt.Errorf("%s.percent_complete: %d out of range 0..100", prefix, *t.PercentComplete))
		}
		if t.ActualHours < 0 {
			errs = append(errs, fmt.Errorf("%s.actual_hours must not be negative", prefix))
		}
		if t.ConstraintType != "" && !domain.ValidConstraintTypes[domain.ConstraintType(t.ConstraintType)] {
			errs = append(errs, fmt.Errorf("%s.constraint_type: invalid value %q", prefix, t.ConstraintType))
		}
		if t.Priority != "" && !domain.ValidPriorities[domain.Priority(strings.ToUpper(t.Priority))] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}

		errs = append(errs, validateOptionalDate(prefix+".planned_start", t.PlannedStart)...)
		errs = append(errs, validateOptionalDate(prefix+".planned_end", t.PlannedEnd)...)
		errs = append(errs, validateOptionalDate(prefix+".actual_start", t.ActualStart)...)
		errs = append(errs, validateOptionalDate(prefix+".actual_end", t.ActualEnd)...)
		errs = append(errs, validateOptionalDate(prefix+".constraint_date", t.ConstraintDate)...)

		errs = append(errs, validateOrder(prefix+".planned_end", t.PlannedStart, t.PlannedEnd)...)
		errs = append(errs, validateOrder(prefix+".actual_end", t.ActualStart, t.ActualEnd)...)
	}

	return errs
}

func validateDependencies(deps []DependencyImport, refs map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.Predecessor == "" {
			errs = append(errs, fmt.Errorf("%s.predecessor is required", prefix))
		} else if !refs[d.Predecessor] {
			errs = append(errs, fmt.Errorf("%s.predecessor: ref %q not found in tasks", prefix, d.Predecessor))
		}

		if d.Successor == "" {
			errs = append(errs, fmt.Errorf("%s.successor is required", prefix))
		} else if !refs[d.Successor] {
			errs = append(errs, fmt.Errorf("%s.successor: ref %q not found in tasks", prefix, d.Successor))
		}

		if d.Predecessor != "" && d.Predecessor == d.Successor {
			errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor == successor == %q)", prefix, d.Predecessor))
		}

		typ, err := domain.ParseDependencyType(d.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
			continue
		}
		key := d.Predecessor + "\x00" + d.Successor + "\x00" + string(typ)
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate %s link %q -> %q", prefix, typ, d.Predecessor, d.Successor))
		}
		seen[key] = true
	}

	return errs
}

func validateOptionalDate(field string, s *string) []error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := parseDate(*s); err != nil {
		return []error{fmt.Errorf("%s: invalid date %q (expected YYYY-MM-DD or RFC 3339)", field, *s)}
	}
	return nil
}

func validateOrder(field string, start, end *string) []error {
	s, errS := parseOptionalDate(start)
	e, errE := parseOptionalDate(end)
	if errS != nil || errE != nil || s == nil || e == nil {
		return nil
	}
	if e.Before(*s) {
		return []error{fmt.Errorf("%s: %s is before its start %s", field, e.Format(time.RFC3339), s.Format(time.RFC3339))}
	}
	return nil
}
