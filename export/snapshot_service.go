package export

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotExportService produces the lossless structured snapshot of a
// document: title, description, theme and order-sorted slides/blocks plus
// an export timestamp. The timestamp is the only nondeterministic field in
// any export output.
type SnapshotExportService struct {
	// now is swappable so tests can pin the exportedAt field.
	now func() time.Time
}

// NewSnapshotExportService creates a new snapshot service.
func NewSnapshotExportService() *SnapshotExportService {
	return &SnapshotExportService{now: time.Now}
}

type snapshotSlide struct {
	Order  int     `json:"order"`
	Layout string  `json:"layout,omitempty"`
	Blocks []Block `json:"blocks"`
}

type snapshot struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Theme       Theme           `json:"theme"`
	Slides      []snapshotSlide `json:"slides"`
	ExportedAt  string          `json:"exportedAt"`
}

// Export marshals the document into indented JSON. Slides and blocks are
// emitted in order-sorted sequence, not insertion sequence.
func (s *SnapshotExportService) Export(doc *Document) ([]byte, error) {
	snap := snapshot{
		Title:       doc.Title,
		Description: doc.Description,
		Theme:       doc.EffectiveTheme(),
		Slides:      make([]snapshotSlide, 0, len(doc.Slides)),
		ExportedAt:  s.now().UTC().Format(time.RFC3339),
	}
	for _, slide := range doc.SortedSlides() {
		snap.Slides = append(snap.Slides, snapshotSlide{
			Order:  slide.Order,
			Layout: slide.Layout,
			Blocks: slide.SortedBlocks(),
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}
