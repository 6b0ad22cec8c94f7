package export

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Format identifies one of the closed set of export targets.
type Format string

const (
	FormatSnapshot Format = "snapshot"
	FormatMarkup   Format = "markup"
	FormatPackage  Format = "package"
)

// ErrUnsupportedFormat is returned when a caller requests a format outside
// the closed set. No partial work is performed.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat resolves a format name or its file-extension alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "snapshot", "json":
		return FormatSnapshot, nil
	case "markup", "html":
		return FormatMarkup, nil
	case "package", "pptx":
		return FormatPackage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Export stages, used to identify where a fatal error occurred.
const (
	StageRender  = "render"
	StageArchive = "archive"
)

// ExportError is the typed failure produced by the engine. Stage tells the
// caller whether rendering or archive assembly failed.
type ExportError struct {
	Format Format
	Stage  string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s failed at %s: %v", e.Format, e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ExportResult is the engine's outward boundary: a deterministic filename,
// a content type and the payload.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter dispatches a document to exactly one format renderer.
type Exporter struct {
	snapshot *SnapshotExportService
	html     *HTMLExportService
	pdf      *PDFExportService
	pptx     *PPTXExportService
}

// NewExporter creates an exporter with all renderers wired.
func NewExporter() *Exporter {
	return &Exporter{
		snapshot: NewSnapshotExportService(),
		html:     NewHTMLExportService(),
		pdf:      NewPDFExportService(),
		pptx:     NewPPTXExportService(),
	}
}

// Export renders doc in the requested format. The document is treated as
// read-only; concurrent calls are independent.
func (e *Exporter) Export(doc *Document, format Format) (*ExportResult, error) {
	switch format {
	case FormatSnapshot:
		data, err := e.snapshot.Export(doc)
		if err != nil {
			return nil, &ExportError{Format: format, Stage: StageRender, Err: err}
		}
		return &ExportResult{
			Filename:    ExportFilename(doc.Title) + ".json",
			ContentType: "application/json",
			Data:        data,
		}, nil
	case FormatMarkup:
		data, err := e.html.Export(doc)
		if err != nil {
			return nil, &ExportError{Format: format, Stage: StageRender, Err: err}
		}
		return &ExportResult{
			Filename:    ExportFilename(doc.Title) + ".html",
			ContentType: "text/html; charset=utf-8",
			Data:        data,
		}, nil
	case FormatPackage:
		data, err := e.pptx.Export(doc)
		if err != nil {
			var xerr *ExportError
			if errors.As(err, &xerr) {
				return nil, err
			}
			return nil, &ExportError{Format: format, Stage: StageRender, Err: err}
		}
		return &ExportResult{
			Filename:    ExportFilename(doc.Title) + ".pptx",
			ContentType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
			Data:        data,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// PDF export is the paginated rendering of the same document; it sits
// outside the closed three-format set but shares the dispatch boundary.
func (e *Exporter) ExportPDF(doc *Document) (*ExportResult, error) {
	data, err := e.pdf.Export(doc)
	if err != nil {
		return nil, &ExportError{Format: "pdf", Stage: StageRender, Err: err}
	}
	return &ExportResult{
		Filename:    ExportFilename(doc.Title) + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

const maxFilenameLen = 64

// ExportFilename derives a slug from a document title: lower-cased,
// non-alphanumeric characters stripped, internal whitespace collapsed to
// single hyphens, truncated, with a fixed fallback for empty results.
func ExportFilename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			b.WriteByte(' ')
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > maxFilenameLen {
		slug = strings.Trim(slug[:maxFilenameLen], "-")
	}
	if slug == "" {
		return "presentation"
	}
	return slug
}
