package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slideforge/database"
	"slideforge/dbpool"
	"slideforge/export"
)

func testFacade(t *testing.T, plan string, entitlements *EntitlementStore) (*ExportFacadeService, *database.DocumentStore) {
	t.Helper()
	manager := dbpool.New(dbpool.EngineSQLite, nil)
	store, err := database.Open(manager, dbpool.OpenOptions{
		Engine: dbpool.EngineSQLite,
		Path:   filepath.Join(t.TempDir(), "facade.db"),
	}, database.Limits{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	if entitlements == nil {
		entitlements = NewEntitlementStore("")
	}
	return NewExportFacadeService(store, entitlements, plan, nil), store
}

func seedScenario(t *testing.T, store *database.DocumentStore) {
	t.Helper()
	doc := &export.Document{
		Title: "Q1 Review!!",
		Slides: []export.Slide{{Order: 1, Blocks: []export.Block{
			{Type: export.BlockHeading, Order: 1, Content: map[string]interface{}{"text": "Welcome"}},
			{Type: export.BlockBulletList, Order: 2, Content: map[string]interface{}{
				"items": []interface{}{"Revenue up", "Costs down"},
			}},
		}}},
	}
	if err := store.SaveDocument(context.Background(), "doc-1", doc); err != nil {
		t.Fatal(err)
	}
}

func TestFacadeExportAllFormats(t *testing.T) {
	facade, store := testFacade(t, "free", nil)
	seedScenario(t, store)

	outDir := t.TempDir()
	paths, err := facade.ExportAllFormats(context.Background(), "doc-1", outDir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"q1-review.json", "q1-review.html", "q1-review.pptx"}
	if len(paths) != len(want) {
		t.Fatalf("path count = %d, want %d", len(paths), len(want))
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("path %d = %s, want basename %s", i, p, want[i])
		}
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("export file missing: %v", err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("export file %s is empty", p)
		}
	}
}

func TestFacadeDocumentNotFound(t *testing.T) {
	facade, _ := testFacade(t, "free", nil)
	_, err := facade.ExportDocument(context.Background(), "ghost", "markup")
	if !errors.Is(err, database.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.Operation != "lookup" {
		t.Errorf("not-found should surface at the lookup stage, got %v", err)
	}
}

func TestFacadeEntitlementDenied(t *testing.T) {
	entitlements := NewEntitlementStore("")
	entitlements.SetPlan(&PlanEntitlement{Plan: "free", Formats: []string{"snapshot"}})
	facade, store := testFacade(t, "free", entitlements)
	seedScenario(t, store)

	_, err := facade.ExportDocument(context.Background(), "doc-1", "package")
	if !errors.Is(err, ErrExportNotAllowed) {
		t.Errorf("expected ErrExportNotAllowed, got %v", err)
	}
}

func TestFacadeUnsupportedFormat(t *testing.T) {
	facade, store := testFacade(t, "free", nil)
	seedScenario(t, store)

	_, err := facade.ExportDocument(context.Background(), "doc-1", "docx")
	if !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFacadePDFExport(t *testing.T) {
	facade, store := testFacade(t, "free", nil)
	seedScenario(t, store)

	result, err := facade.ExportDocument(context.Background(), "doc-1", "pdf")
	if err != nil {
		t.Fatal(err)
	}
	if result.Filename != "q1-review.pdf" || result.ContentType != "application/pdf" {
		t.Errorf("unexpected pdf result metadata: %s, %s", result.Filename, result.ContentType)
	}
	if !strings.HasPrefix(string(result.Data), "%PDF-") {
		t.Errorf("pdf payload lacks header")
	}
}
