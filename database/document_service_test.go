package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"slideforge/dbpool"
	"slideforge/export"
)

func testStore(t *testing.T, limits Limits) *DocumentStore {
	t.Helper()
	manager := dbpool.New(dbpool.EngineSQLite, nil)
	store, err := Open(manager, dbpool.OpenOptions{
		Engine: dbpool.EngineSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, limits)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDocument() *export.Document {
	size := 18.0
	return &export.Document{
		Title:       "Quarterly Deck",
		Description: "numbers and narrative",
		Theme:       &export.Theme{Primary: "#123456"},
		Slides: []export.Slide{
			{Order: 2, Layout: "title", Blocks: []export.Block{
				{Type: export.BlockHeading, Order: 1, Content: map[string]interface{}{"text": "Hi"}},
			}},
			{Order: 1, Blocks: []export.Block{
				{Type: export.BlockParagraph, Order: 1,
					Content: map[string]interface{}{"text": "body"},
					Style:   &export.BlockStyle{FontSize: &size, Color: "#FF0000"}},
				{Type: export.BlockBulletList, Order: 2,
					Content: map[string]interface{}{"items": []interface{}{"a", "b"}}},
			}},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	store := testStore(t, Limits{})
	ctx := context.Background()

	if err := store.SaveDocument(ctx, "doc-1", sampleDocument()); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}

	if got.Title != "Quarterly Deck" || got.Description != "numbers and narrative" {
		t.Errorf("document fields lost: %+v", got)
	}
	if got.Theme == nil || got.Theme.Primary != "#123456" {
		t.Errorf("theme lost: %+v", got.Theme)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("slide count = %d, want 2", len(got.Slides))
	}

	// Insertion order is preserved; sorting is the renderers' job.
	if got.Slides[0].Order != 2 || got.Slides[1].Order != 1 {
		t.Errorf("slide orders = %d, %d", got.Slides[0].Order, got.Slides[1].Order)
	}
	blocks := got.Slides[1].Blocks
	if len(blocks) != 2 {
		t.Fatalf("block count = %d, want 2", len(blocks))
	}
	if blocks[0].Style == nil || blocks[0].Style.FontSize == nil || *blocks[0].Style.FontSize != 18.0 {
		t.Errorf("block style lost: %+v", blocks[0].Style)
	}
	if got := blocks[1].Items(); len(got) != 2 || got[0] != "a" {
		t.Errorf("list items lost: %v", got)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	store := testStore(t, Limits{})
	_, err := store.GetDocument(context.Background(), "missing")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestSaveDocumentReplaces(t *testing.T) {
	store := testStore(t, Limits{})
	ctx := context.Background()

	if err := store.SaveDocument(ctx, "doc-1", sampleDocument()); err != nil {
		t.Fatal(err)
	}
	replacement := &export.Document{Title: "v2", Slides: []export.Slide{{Order: 1}}}
	if err := store.SaveDocument(ctx, "doc-1", replacement); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "v2" || len(got.Slides) != 1 {
		t.Errorf("replacement incomplete: %+v", got)
	}
}

func TestSlideLimitEnforced(t *testing.T) {
	store := testStore(t, Limits{MaxSlides: 1})
	ctx := context.Background()

	if err := store.SaveDocument(ctx, "doc-1", sampleDocument()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetDocument(ctx, "doc-1"); err == nil {
		t.Errorf("expected slide limit error")
	}
}

func TestBlockLimitEnforced(t *testing.T) {
	store := testStore(t, Limits{MaxBlocksPerSlide: 1})
	ctx := context.Background()

	if err := store.SaveDocument(ctx, "doc-1", sampleDocument()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetDocument(ctx, "doc-1"); err == nil {
		t.Errorf("expected block limit error")
	}
}
