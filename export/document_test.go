package export

import (
	"reflect"
	"testing"
)

func TestSortedSlidesNonContiguousOrder(t *testing.T) {
	doc := &Document{
		Slides: []Slide{
			{Order: 30},
			{Order: 5},
			{Order: 100},
		},
	}
	sorted := doc.SortedSlides()
	got := []int{sorted[0].Order, sorted[1].Order, sorted[2].Order}
	want := []int{5, 30, 100}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted orders = %v, want %v", got, want)
	}
	// The document itself must stay untouched.
	if doc.Slides[0].Order != 30 {
		t.Errorf("SortedSlides mutated the document: %v", doc.Slides)
	}
}

func TestSortedBlocksStable(t *testing.T) {
	s := Slide{Blocks: []Block{
		{Order: 2, Type: BlockParagraph, Content: map[string]interface{}{"text": "first-two"}},
		{Order: 1, Type: BlockHeading},
		{Order: 2, Type: BlockParagraph, Content: map[string]interface{}{"text": "second-two"}},
	}}
	sorted := s.SortedBlocks()
	if sorted[0].Type != BlockHeading {
		t.Fatalf("expected heading first, got %s", sorted[0].Type)
	}
	// Equal orders keep insertion sequence.
	if sorted[1].Text() != "first-two" || sorted[2].Text() != "second-two" {
		t.Errorf("sort not stable: %q then %q", sorted[1].Text(), sorted[2].Text())
	}
}

func TestEffectiveThemeDefaults(t *testing.T) {
	doc := &Document{}
	theme := doc.EffectiveTheme()
	if theme != DefaultTheme() {
		t.Errorf("nil theme should yield the default, got %+v", theme)
	}

	doc.Theme = &Theme{Primary: "#112233"}
	theme = doc.EffectiveTheme()
	if theme.Primary != "#112233" {
		t.Errorf("explicit primary lost: %s", theme.Primary)
	}
	if theme.Text != DefaultTheme().Text {
		t.Errorf("empty roles should be backfilled, text = %s", theme.Text)
	}
}

func TestBlockTextExtraction(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{"paragraph", Block{Type: BlockParagraph, Content: map[string]interface{}{"text": "hello"}}, "hello"},
		{"unknown with text", Block{Type: BlockType("WIDGET_X"), Content: map[string]interface{}{"text": "hello"}}, "hello"},
		{"bullet list", Block{Type: BlockBulletList, Content: map[string]interface{}{"items": []interface{}{"a", "b"}}}, "a\nb"},
		{"image alt", Block{Type: BlockImage, Content: map[string]interface{}{"url": "x.png", "alt": "a chart"}}, "a chart"},
		{"code", Block{Type: BlockCode, Content: map[string]interface{}{"code": "x := 1"}}, "x := 1"},
		{"divider", Block{Type: BlockDivider}, ""},
		{"nil content", Block{Type: BlockParagraph}, ""},
		{"malformed items", Block{Type: BlockBulletList, Content: map[string]interface{}{"items": "oops"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItemsSkipsNonStrings(t *testing.T) {
	b := Block{Type: BlockBulletList, Content: map[string]interface{}{
		"items": []interface{}{"one", 2.0, "three", nil},
	}}
	got := b.Items()
	want := []string{"one", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
}
