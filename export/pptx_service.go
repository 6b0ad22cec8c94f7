package export

import (
	"fmt"
	"strings"
)

// PPTXExportService hand-assembles an Office Open XML presentation package:
// content-type manifest, relationship graphs, one slide master, one layout,
// one theme part and one part per slide. The pipeline has two stages: the
// document is first converted into per-slide shape lists with absolute EMU
// geometry, then the shape lists are serialized into XML parts and packed by
// a single ArchiveWriter invocation.
type PPTXExportService struct{}

// NewPPTXExportService creates a new package builder.
func NewPPTXExportService() *PPTXExportService {
	return &PPTXExportService{}
}

// emuPerInch is the only place the EMU conversion constant may appear.
const emuPerInch = 914400

// Slide canvas and block layout, all in EMU. 10in x 5.625in, 16:9.
const (
	slideWidthEMU  = int64(10.0 * emuPerInch)
	slideHeightEMU = int64(5.625 * emuPerInch)

	shapeMarginXEMU   = int64(0.5 * emuPerInch)
	shapeMarginTopEMU = int64(0.4 * emuPerInch)
	shapeWidthEMU     = slideWidthEMU - 2*shapeMarginXEMU
	shapeGapEMU       = int64(0.12 * emuPerInch)

	headingHeightEMU    = int64(0.9 * emuPerInch)
	subheadingHeightEMU = int64(0.65 * emuPerInch)
	lineHeightEMU       = int64(0.3 * emuPerInch)
	dividerHeightEMU    = int64(0.05 * emuPerInch)
	mediaHeightEMU      = int64(2.2 * emuPerInch)
)

// Default run sizes per block type, points.
const (
	pptxSizeHeading    = 32.0
	pptxSizeSubheading = 22.0
	pptxSizeBody       = 14.0
	pptxSizeCode       = 12.0
)

type bulletKind int

const (
	bulletNone bulletKind = iota
	bulletChar
	bulletAutoNum
)

// shapeRun is one formatted text run inside a paragraph.
type shapeRun struct {
	text   string
	sizePt float64
	bold   bool
	italic bool
	color  string // bare RRGGBB
	font   string
}

type shapeParagraph struct {
	runs   []shapeRun
	bullet bulletKind
}

// slideShape is the intermediate element between the document model and the
// slide part XML: absolute position and size plus formatted paragraphs. A
// shape with no paragraphs is a positioned placeholder (image/chart blocks;
// real asset embedding is a scoped extension, not done here).
type slideShape struct {
	name       string
	x, y, w, h int64
	paragraphs []shapeParagraph
	outlined   bool
}

// Export builds the package. The slide references in the main presentation
// part follow order-sorted sequence, which is what determines on-open slide
// order in a reader.
func (s *PPTXExportService) Export(doc *Document) ([]byte, error) {
	theme := doc.EffectiveTheme()
	slides := doc.SortedSlides()

	shapeLists := make([][]slideShape, len(slides))
	for i, slide := range slides {
		shapeLists[i] = s.buildSlideShapes(slide, theme)
	}

	w := NewArchiveWriter(true)
	parts := []struct {
		path string
		data []byte
	}{
		{"[Content_Types].xml", buildContentTypes(len(slides))},
		{"_rels/.rels", buildRootRels()},
		{"docProps/core.xml", buildCoreProps(doc)},
		{"docProps/app.xml", buildAppProps(len(slides))},
		{"ppt/presentation.xml", buildPresentation(len(slides))},
		{"ppt/_rels/presentation.xml.rels", buildPresentationRels(len(slides))},
		{"ppt/slideMasters/slideMaster1.xml", buildSlideMaster()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", buildSlideMasterRels()},
		{"ppt/slideLayouts/slideLayout1.xml", buildSlideLayout()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", buildSlideLayoutRels()},
		{"ppt/theme/theme1.xml", buildThemePart(theme)},
	}
	for _, p := range parts {
		if err := w.Add(p.path, p.data); err != nil {
			return nil, &ExportError{Format: FormatPackage, Stage: StageArchive, Err: err}
		}
	}
	for i, shapes := range shapeLists {
		n := i + 1
		if err := w.Add(fmt.Sprintf("ppt/slides/slide%d.xml", n), buildSlidePart(shapes)); err != nil {
			return nil, &ExportError{Format: FormatPackage, Stage: StageArchive, Err: err}
		}
		if err := w.Add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), buildSlideRels()); err != nil {
			return nil, &ExportError{Format: FormatPackage, Stage: StageArchive, Err: err}
		}
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, &ExportError{Format: FormatPackage, Stage: StageArchive, Err: err}
	}
	return data, nil
}

// buildSlideShapes runs the block-to-shape conversion: blocks flow down a
// vertical EMU cursor, each becoming one positioned shape. Run formatting
// resolves block style overrides first, then block-type defaults, then
// theme roles.
func (s *PPTXExportService) buildSlideShapes(slide Slide, theme Theme) []slideShape {
	shapes := make([]slideShape, 0, len(slide.Blocks))
	y := shapeMarginTopEMU

	for _, block := range slide.SortedBlocks() {
		if y >= slideHeightEMU {
			break
		}
		shape := s.blockToShape(block, y, theme)
		shapes = append(shapes, shape)
		y += shape.h + shapeGapEMU
	}
	return shapes
}

func (s *PPTXExportService) blockToShape(block Block, y int64, theme Theme) slideShape {
	shape := slideShape{
		x: shapeMarginXEMU,
		y: y,
		w: shapeWidthEMU,
	}

	switch block.Type {
	case BlockHeading:
		shape.name = "Heading"
		shape.h = headingHeightEMU
		shape.paragraphs = []shapeParagraph{{
			runs: []shapeRun{s.styledRun(block, block.Text(), pptxSizeHeading, true, false, theme.Primary, theme.HeadingFont)},
		}}
	case BlockSubheading:
		shape.name = "Subheading"
		shape.h = subheadingHeightEMU
		shape.paragraphs = []shapeParagraph{{
			runs: []shapeRun{s.styledRun(block, block.Text(), pptxSizeSubheading, true, false, theme.Secondary, theme.HeadingFont)},
		}}
	case BlockBulletList:
		shape.name = "Bullet List"
		shape.paragraphs = s.listParagraphs(block, theme, bulletChar)
		shape.h = int64(len(shape.paragraphs)+1) * lineHeightEMU
	case BlockNumberedList:
		shape.name = "Numbered List"
		shape.paragraphs = s.listParagraphs(block, theme, bulletAutoNum)
		shape.h = int64(len(shape.paragraphs)+1) * lineHeightEMU
	case BlockQuote:
		shape.name = "Quote"
		shape.h = 2 * lineHeightEMU
		shape.paragraphs = []shapeParagraph{{
			runs: []shapeRun{s.styledRun(block, block.Text(), pptxSizeBody, false, true, theme.TextMuted, theme.BodyFont)},
		}}
	case BlockCode:
		shape.name = "Code"
		shape.paragraphs = s.lineParagraphs(block, pptxSizeCode, theme)
		shape.h = int64(len(shape.paragraphs)+1) * lineHeightEMU
	case BlockDivider:
		shape.name = "Divider"
		shape.h = dividerHeightEMU
		shape.outlined = true
	case BlockImage:
		shape.name = "Image Placeholder"
		shape.h = mediaHeightEMU
		shape.outlined = true
	case BlockChart:
		shape.name = "Chart Placeholder"
		shape.h = mediaHeightEMU
		shape.outlined = true
	case BlockParagraph:
		shape.name = "Paragraph"
		shape.paragraphs = s.lineParagraphs(block, pptxSizeBody, theme)
		shape.h = int64(len(shape.paragraphs)+1) * lineHeightEMU
	default:
		// Unknown types become a plain text shape of their best-effort text.
		shape.name = "Text"
		shape.paragraphs = s.lineParagraphs(block, pptxSizeBody, theme)
		shape.h = int64(len(shape.paragraphs)+1) * lineHeightEMU
	}
	return shape
}

// splitLines splits on newlines, dropping empty trailing segments but
// keeping interior blanks so code keeps its vertical rhythm.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// styledRun applies the override -> type default -> theme fallback chain.
func (s *PPTXExportService) styledRun(block Block, text string, sizePt float64, bold, italic bool, color, font string) shapeRun {
	if block.Style != nil {
		if block.Style.FontSize != nil && *block.Style.FontSize > 0 {
			sizePt = *block.Style.FontSize
		}
		if block.Style.Color != "" {
			color = block.Style.Color
		}
		if block.Style.Bold != nil {
			bold = *block.Style.Bold
		}
		if block.Style.Italic != nil {
			italic = *block.Style.Italic
		}
	}
	return shapeRun{
		text:   text,
		sizePt: sizePt,
		bold:   bold,
		italic: italic,
		color:  hexNoHash(color),
		font:   font,
	}
}

// listParagraphs emits one bulleted or numbered paragraph per item.
func (s *PPTXExportService) listParagraphs(block Block, theme Theme, bullet bulletKind) []shapeParagraph {
	items := block.Items()
	paras := make([]shapeParagraph, 0, len(items))
	for _, item := range items {
		paras = append(paras, shapeParagraph{
			runs:   []shapeRun{s.styledRun(block, item, pptxSizeBody, false, false, theme.Text, theme.BodyFont)},
			bullet: bullet,
		})
	}
	return paras
}

// lineParagraphs splits the block text on line boundaries, one run per line.
func (s *PPTXExportService) lineParagraphs(block Block, sizePt float64, theme Theme) []shapeParagraph {
	var paras []shapeParagraph
	for _, line := range splitLines(block.Text()) {
		paras = append(paras, shapeParagraph{
			runs: []shapeRun{s.styledRun(block, line, sizePt, false, false, theme.Text, theme.BodyFont)},
		})
	}
	if len(paras) == 0 {
		paras = append(paras, shapeParagraph{
			runs: []shapeRun{s.styledRun(block, "", sizePt, false, false, theme.Text, theme.BodyFont)},
		})
	}
	return paras
}
