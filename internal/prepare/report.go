//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package prepare

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TableReport counts what cleaning did to one dataset.
type TableReport struct {
	Table                string `yaml:"table"`
	Source               string `yaml:"source,omitempty"`
	Output               string `yaml:"output,omitempty"`
	RowsRead             int    `yaml:"rows_read"`
	DuplicatesDropped    int    `yaml:"duplicates_dropped"`
	MissingDropped       int    `yaml:"missing_dropped"`
	DuplicateKeysDropped int    `yaml:"duplicate_keys_dropped"`
	DatesCoerced         int    `yaml:"dates_coerced"`
	RowsWritten          int    `yaml:"rows_written"`
}

// Report summarizes a prepare run.
type Report struct {
	GeneratedAt   time.Time     `yaml:"generated_at"`
	ReferenceDate string        `yaml:"reference_date"`
	Tables        []TableReport `yaml:"tables"`
}

// Table returns the entry for a dataset name.
func (r *Report) Table(name string) (TableReport, bool) {
	for _, t := range r.Tables {
		if t.Table == name {
			return t, true
		}
	}
	return TableReport{}, false
}

// WriteFile stores the report as YAML.
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteFile.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}
