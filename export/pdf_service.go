package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExportService renders a document as a fixed-canvas PDF: one 16:9 page
// per slide, blocks flowed down a vertical cursor, content clipped at the
// bottom margin instead of overflowing onto extra pages. An oversized slide
// still produces a valid, boundable page.
type PDFExportService struct{}

// NewPDFExportService creates a new PDF export service.
func NewPDFExportService() *PDFExportService {
	return &PDFExportService{}
}

// Page layout constants - 16:9 canvas in points. These are fixed properties
// of the renderer, not theme-derived: target viewers assume a fixed page size.
const (
	pdfPageWidth  = 960.0
	pdfPageHeight = 540.0

	pdfMarginLeft   = 48.0
	pdfMarginRight  = 48.0
	pdfMarginTop    = 52.0
	pdfMarginBottom = 44.0

	pdfContentWidth = pdfPageWidth - pdfMarginLeft - pdfMarginRight

	// Font sizes (points)
	pdfFontHeading    = 32.0
	pdfFontSubheading = 22.0
	pdfFontBody       = 14.0
	pdfFontCode       = 12.0
	pdfFontPageNum    = 10.0

	// Line heights (points)
	pdfLineHeightHeading    = 42.0
	pdfLineHeightSubheading = 30.0
	pdfLineHeightBody       = 20.0
	pdfLineHeightCode       = 16.0

	// Vertical gap after each block (points)
	pdfBlockGap = 10.0

	// Greedy word-wrap budget: characters per body line.
	pdfWrapBudget = 88
)

// Pinned so repeated exports of the same document are byte-identical.
var pdfFixedDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Export renders every slide. Output is deterministic for a given document
// and theme.
func (s *PDFExportService) Export(doc *Document) ([]byte, error) {
	theme := doc.EffectiveTheme()

	// Orientation "P" takes the custom size as given; "L" would swap it.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pdfPageWidth, Ht: pdfPageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(pdfFixedDate)

	slides := doc.SortedSlides()
	if len(slides) == 0 {
		// A zero-slide document still yields a structurally valid file.
		s.renderCoverPage(pdf, doc, theme)
	}
	for i, slide := range slides {
		s.renderSlidePage(pdf, slide, i+1, theme)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("PDF generation error: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to output PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PDFExportService) renderCoverPage(pdf *gofpdf.Fpdf, doc *Document, theme Theme) {
	pdf.AddPage()
	r, g, b := hexToRGB(theme.Primary)
	pdf.SetTextColor(r, g, b)
	pdf.SetFont("Arial", "B", pdfFontHeading)
	pdf.Text(pdfMarginLeft, pdfPageHeight/2, doc.Title)
}

func (s *PDFExportService) renderSlidePage(pdf *gofpdf.Fpdf, slide Slide, ordinal int, theme Theme) {
	pdf.AddPage()
	cursor := pdfMarginTop

	for _, block := range slide.SortedBlocks() {
		if cursor > pdfPageHeight-pdfMarginBottom {
			break
		}
		cursor = s.renderBlock(pdf, block, cursor, theme)
		cursor += pdfBlockGap
	}

	// 1-based slide ordinal, fixed corner.
	r, g, b := hexToRGB(theme.TextMuted)
	pdf.SetTextColor(r, g, b)
	pdf.SetFont("Arial", "", pdfFontPageNum)
	label := fmt.Sprintf("%d", ordinal)
	pdf.Text(pdfPageWidth-pdfMarginRight+24-pdf.GetStringWidth(label), pdfPageHeight-18, label)
}

// renderBlock draws one block starting at cursor and returns the new cursor.
// Lines past the bottom margin are dropped, never reflowed.
func (s *PDFExportService) renderBlock(pdf *gofpdf.Fpdf, block Block, cursor float64, theme Theme) float64 {
	switch block.Type {
	case BlockHeading:
		return s.drawLines(pdf, []string{block.Text()}, cursor, pdfFontHeading, pdfLineHeightHeading, "B", s.blockColor(block, theme.Primary))
	case BlockSubheading:
		return s.drawLines(pdf, []string{block.Text()}, cursor, pdfFontSubheading, pdfLineHeightSubheading, "B", s.blockColor(block, theme.Secondary))
	case BlockBulletList:
		return s.drawList(pdf, block, cursor, theme, false)
	case BlockNumberedList:
		return s.drawList(pdf, block, cursor, theme, true)
	case BlockQuote:
		lines := wrapText(block.Text(), pdfWrapBudget)
		return s.drawLines(pdf, lines, cursor, pdfFontBody, pdfLineHeightBody, "I", s.blockColor(block, theme.TextMuted))
	case BlockCode:
		lines := splitAndWrap(block.Text(), pdfWrapBudget)
		return s.drawLines(pdf, lines, cursor, pdfFontCode, pdfLineHeightCode, "", s.blockColor(block, theme.Text))
	case BlockDivider:
		r, g, b := hexToRGB(theme.TextMuted)
		pdf.SetDrawColor(r, g, b)
		pdf.Line(pdfMarginLeft, cursor, pdfPageWidth-pdfMarginRight, cursor)
		return cursor + pdfLineHeightBody/2
	case BlockImage, BlockChart:
		return s.drawPlaceholder(pdf, block, cursor, theme)
	}
	// Unknown types degrade to the paragraph rule on best-effort text.
	lines := splitAndWrap(block.Text(), pdfWrapBudget)
	return s.drawLines(pdf, lines, cursor, pdfFontBody, pdfLineHeightBody, "", s.blockColor(block, theme.Text))
}

func (s *PDFExportService) blockColor(block Block, fallback string) string {
	if block.Style != nil && block.Style.Color != "" {
		return block.Style.Color
	}
	return fallback
}

func (s *PDFExportService) drawLines(pdf *gofpdf.Fpdf, lines []string, cursor, size, lineHeight float64, style, color string) float64 {
	r, g, b := hexToRGB(color)
	pdf.SetTextColor(r, g, b)
	pdf.SetFont("Arial", style, size)
	for _, line := range lines {
		cursor += lineHeight
		if cursor > pdfPageHeight-pdfMarginBottom {
			return cursor
		}
		pdf.Text(pdfMarginLeft, cursor, line)
	}
	return cursor
}

// drawList renders one bullet or number prefixed line per item.
func (s *PDFExportService) drawList(pdf *gofpdf.Fpdf, block Block, cursor float64, theme Theme, numbered bool) float64 {
	items := block.Items()
	lines := make([]string, 0, len(items))
	for i, item := range items {
		if numbered {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
		} else {
			lines = append(lines, "• "+item)
		}
	}
	return s.drawLines(pdf, lines, cursor, pdfFontBody, pdfLineHeightBody, "", s.blockColor(block, theme.Text))
}

func (s *PDFExportService) drawPlaceholder(pdf *gofpdf.Fpdf, block Block, cursor float64, theme Theme) float64 {
	const boxHeight = 120.0
	if cursor+boxHeight > pdfPageHeight-pdfMarginBottom {
		return cursor + boxHeight
	}
	r, g, b := hexToRGB(theme.TextMuted)
	pdf.SetDrawColor(r, g, b)
	pdf.Rect(pdfMarginLeft, cursor, pdfContentWidth, boxHeight, "D")
	if alt := block.Text(); alt != "" {
		pdf.SetTextColor(r, g, b)
		pdf.SetFont("Arial", "I", pdfFontCode)
		pdf.Text(pdfMarginLeft+12, cursor+boxHeight/2, alt)
	}
	return cursor + boxHeight
}

// wrapText greedily wraps words into lines no longer than budget. Words are
// never split; a single word longer than the budget gets its own line.
func wrapText(text string, budget int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > budget {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}

// splitAndWrap wraps each newline-separated segment independently.
func splitAndWrap(text string, budget int) []string {
	var lines []string
	for _, segment := range strings.Split(text, "\n") {
		if segment == "" {
			continue
		}
		lines = append(lines, wrapText(segment, budget)...)
	}
	return lines
}
