//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse_test

import (
	"testing"

	"github.com/LFoster03/smart-store-07/internal/warehouse"
	// Import target packages to trigger their init() functions which register the targets
	_ "github.com/LFoster03/smart-store-07/internal/warehouse/mysql"
	_ "github.com/LFoster03/smart-store-07/internal/warehouse/postgres"
	_ "github.com/LFoster03/smart-store-07/internal/warehouse/sqlite"
)

var knownTargets = []string{"mysql", "postgres", "sqlite"}

func TestGet(t *testing.T) {
	for _, name := range knownTargets {
		t.Run(name, func(t *testing.T) {
			target, err := warehouse.Get(name)
			if err != nil {
				t.Fatalf("Failed to get target '%s': %v", name, err)
			}
			if target.Name() != name {
				t.Errorf("Target name mismatch: expected '%s', got '%s'", name, target.Name())
			}
			if target.Description() == "" {
				t.Error("Target description should not be empty")
			}
		})
	}
}

func TestGetInvalidTarget(t *testing.T) {
	if _, err := warehouse.Get("oracle"); err == nil {
		t.Error("Expected error for unknown target, got nil")
	}
	if _, err := warehouse.Get(""); err == nil {
		t.Error("Expected error for empty target name, got nil")
	}
}

func TestListSorted(t *testing.T) {
	names := warehouse.List()
	if len(names) != len(knownTargets) {
		t.Fatalf("Expected %d targets, got %v", len(knownTargets), names)
	}
	for i, name := range knownTargets {
		if names[i] != name {
			t.Errorf("Expected %s at position %d, got %s", name, i, names[i])
		}
	}

	all := warehouse.All()
	for i, target := range all {
		if target.Name() != names[i] {
			t.Errorf("All() order mismatch at %d: %s vs %s", i, target.Name(), names[i])
		}
	}
}

func BenchmarkGet(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = warehouse.Get("sqlite")
	}
}
