package importer

import (
	"fmt"
	"os"

	"github.com/alexanderramin/plancore/internal/domain"
	"gopkg.in/yaml.v3"
)

// OverallocationFile is the YAML document produced by a capacity model.
type OverallocationFile struct {
	Overallocations []OverallocationImport `yaml:"overallocations"`
}

type OverallocationImport struct {
	User          string   `yaml:"user"`
	Date          string   `yaml:"date"`
	CapacityHours float64  `yaml:"capacity_hours"`
	DemandHours   float64  `yaml:"demand_hours"`
	Tasks         []string `yaml:"tasks"`
}

// LoadOverallocations reads an overallocation file. Task entries are task ids.
func LoadOverallocations(path string) ([]domain.OverallocationEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOverallocations(data)
}

func ParseOverallocations(data []byte) ([]domain.OverallocationEntry, error) {
	var file OverallocationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing overallocation file: %w", err)
	}

	entries := make([]domain.OverallocationEntry, 0, len(file.Overallocations))
	for i, o := range file.Overallocations {
		prefix := fmt.Sprintf("overallocations[%d]", i)
		if o.User == "" {
			return nil, fmt.Errorf("%s.user is required", prefix)
		}
		date, err := parseDate(o.Date)
		if err != nil {
			return nil, fmt.Errorf("%s.date: invalid date %q", prefix, o.Date)
		}
		if o.CapacityHours < 0 || o.DemandHours < 0 {
			return nil, fmt.Errorf("%s: hours must not be negative", prefix)
		}
		entries = append(entries, domain.OverallocationEntry{
			UserID:        o.User,
			Date:          date,
			CapacityHours: o.CapacityHours,
			DemandHours:   o.DemandHours,
			TaskIDs:       o.Tasks,
		})
	}
	return entries, nil
}
