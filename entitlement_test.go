package main

import (
	"os"
	"path/filepath"
	"testing"

	"slideforge/export"
)

func TestEntitlementEmptyStoreAllowsAll(t *testing.T) {
	s := NewEntitlementStore("")
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	for _, f := range []export.Format{export.FormatSnapshot, export.FormatMarkup, export.FormatPackage} {
		if allowed, _ := s.CheckPermission("anything", f); !allowed {
			t.Errorf("empty store should allow %s", f)
		}
	}
}

func TestEntitlementRestrictsByPlan(t *testing.T) {
	s := NewEntitlementStore("")
	s.SetPlan(&PlanEntitlement{Plan: "free", Formats: []string{"snapshot", "markup"}})
	s.SetPlan(&PlanEntitlement{Plan: "pro", Formats: []string{"snapshot", "markup", "package"}})

	if allowed, _ := s.CheckPermission("free", export.FormatPackage); allowed {
		t.Errorf("free plan should not get package export")
	}
	if allowed, _ := s.CheckPermission("free", export.FormatMarkup); !allowed {
		t.Errorf("free plan should get markup export")
	}
	if allowed, _ := s.CheckPermission("pro", export.FormatPackage); !allowed {
		t.Errorf("pro plan should get package export")
	}
	if allowed, reason := s.CheckPermission("ghost", export.FormatSnapshot); allowed || reason == "" {
		t.Errorf("unknown plan should be denied with a reason")
	}
}

func TestEntitlementLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entitlements.json")
	content := `{"plans": {"free": {"plan": "free", "formats": ["snapshot"]}}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewEntitlementStore(path)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if allowed, _ := s.CheckPermission("free", export.FormatSnapshot); !allowed {
		t.Errorf("loaded plan should allow snapshot")
	}
	if allowed, _ := s.CheckPermission("free", export.FormatPackage); allowed {
		t.Errorf("loaded plan should deny package")
	}
}

func TestEntitlementCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entitlements.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewEntitlementStore(path)
	if err := s.Load(); err == nil {
		t.Errorf("corrupt file should report an error")
	}
}
