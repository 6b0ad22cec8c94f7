package export

import (
	"fmt"
	"html"
	"strings"
)

// HTMLExportService renders a document as one self-contained HTML file with
// style rules derived from the theme. Every piece of literal text and every
// attribute value goes through html.EscapeString; raw block content is never
// echoed into the output.
type HTMLExportService struct {
	renderers map[BlockType]htmlBlockRenderer
}

type htmlBlockRenderer func(b *strings.Builder, block Block, theme Theme)

// NewHTMLExportService creates a new HTML export service with its block
// renderer table.
func NewHTMLExportService() *HTMLExportService {
	s := &HTMLExportService{}
	s.renderers = map[BlockType]htmlBlockRenderer{
		BlockHeading:      renderHTMLHeading,
		BlockSubheading:   renderHTMLSubheading,
		BlockParagraph:    renderHTMLParagraph,
		BlockBulletList:   renderHTMLBulletList,
		BlockNumberedList: renderHTMLNumberedList,
		BlockQuote:        renderHTMLQuote,
		BlockImage:        renderHTMLImage,
		BlockChart:        renderHTMLImage,
		BlockCode:         renderHTMLCode,
		BlockDivider:      renderHTMLDivider,
	}
	return s
}

// Export renders the document. Identical document and theme always produce
// byte-identical output.
func (s *HTMLExportService) Export(doc *Document) ([]byte, error) {
	theme := doc.EffectiveTheme()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Title))
	s.writeStyle(&b, theme)
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<header><h1 class=\"doc-title\">%s</h1>", html.EscapeString(doc.Title))
	if doc.Description != "" {
		fmt.Fprintf(&b, "<p class=\"doc-description\">%s</p>", html.EscapeString(doc.Description))
	}
	b.WriteString("</header>\n")

	for i, slide := range doc.SortedSlides() {
		fmt.Fprintf(&b, "<section class=\"slide\" data-slide=\"%d\">\n", i+1)
		for _, block := range slide.SortedBlocks() {
			s.renderBlock(&b, block, theme)
		}
		b.WriteString("</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}

// renderBlock dispatches through the renderer table; unrecognized types
// degrade to a plain paragraph of the block's best-effort text.
func (s *HTMLExportService) renderBlock(b *strings.Builder, block Block, theme Theme) {
	if r, ok := s.renderers[block.Type]; ok {
		r(b, block, theme)
		return
	}
	fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(block.Text()))
}

func (s *HTMLExportService) writeStyle(b *strings.Builder, theme Theme) {
	b.WriteString("<style>\n")
	fmt.Fprintf(b, "body { font-family: %s, sans-serif; color: %s; background: %s; margin: 0; }\n",
		html.EscapeString(theme.BodyFont), html.EscapeString(theme.Text), html.EscapeString(theme.Background))
	fmt.Fprintf(b, "h1, h2 { font-family: %s, sans-serif; }\n", html.EscapeString(theme.HeadingFont))
	fmt.Fprintf(b, "h1 { color: %s; }\n", html.EscapeString(theme.Primary))
	fmt.Fprintf(b, "h2 { color: %s; }\n", html.EscapeString(theme.Secondary))
	fmt.Fprintf(b, ".doc-description { color: %s; }\n", html.EscapeString(theme.TextMuted))
	fmt.Fprintf(b, ".slide { background: %s; margin: 24px auto; padding: 32px; max-width: 960px; }\n",
		html.EscapeString(theme.Surface))
	fmt.Fprintf(b, "blockquote { border-left: 4px solid %s; color: %s; margin: 8px 0; padding-left: 12px; }\n",
		html.EscapeString(theme.Accent), html.EscapeString(theme.TextMuted))
	fmt.Fprintf(b, "hr { border: none; border-top: 1px solid %s; }\n", html.EscapeString(theme.TextMuted))
	b.WriteString("pre { background: #1E293B; color: #E2E8F0; padding: 12px; overflow-x: auto; }\n")
	fmt.Fprintf(b, ".placeholder { border: 1px dashed %s; color: %s; padding: 24px; text-align: center; }\n",
		html.EscapeString(theme.TextMuted), html.EscapeString(theme.TextMuted))
	b.WriteString("</style>\n")
}

func blockStyleAttr(block Block) string {
	if block.Style == nil {
		return ""
	}
	var rules []string
	if block.Style.FontSize != nil {
		rules = append(rules, fmt.Sprintf("font-size: %gpt", *block.Style.FontSize))
	}
	if block.Style.Color != "" {
		rules = append(rules, "color: "+block.Style.Color)
	}
	if block.Style.BackgroundColor != "" {
		rules = append(rules, "background: "+block.Style.BackgroundColor)
	}
	if block.Style.Bold != nil && *block.Style.Bold {
		rules = append(rules, "font-weight: bold")
	}
	if block.Style.Italic != nil && *block.Style.Italic {
		rules = append(rules, "font-style: italic")
	}
	if len(rules) == 0 {
		return ""
	}
	return fmt.Sprintf(" style=\"%s\"", html.EscapeString(strings.Join(rules, "; ")))
}

func renderHTMLHeading(b *strings.Builder, block Block, _ Theme) {
	fmt.Fprintf(b, "<h1%s>%s</h1>\n", blockStyleAttr(block), html.EscapeString(block.Text()))
}

func renderHTMLSubheading(b *strings.Builder, block Block, _ Theme) {
	fmt.Fprintf(b, "<h2%s>%s</h2>\n", blockStyleAttr(block), html.EscapeString(block.Text()))
}

func renderHTMLParagraph(b *strings.Builder, block Block, _ Theme) {
	fmt.Fprintf(b, "<p%s>%s</p>\n", blockStyleAttr(block), html.EscapeString(block.Text()))
}

func renderHTMLBulletList(b *strings.Builder, block Block, _ Theme) {
	renderHTMLList(b, block, "ul")
}

func renderHTMLNumberedList(b *strings.Builder, block Block, _ Theme) {
	renderHTMLList(b, block, "ol")
}

func renderHTMLList(b *strings.Builder, block Block, tag string) {
	fmt.Fprintf(b, "<%s%s>\n", tag, blockStyleAttr(block))
	for _, item := range block.Items() {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
	}
	fmt.Fprintf(b, "</%s>\n", tag)
}

func renderHTMLQuote(b *strings.Builder, block Block, _ Theme) {
	fmt.Fprintf(b, "<blockquote%s>%s</blockquote>\n", blockStyleAttr(block), html.EscapeString(block.Text()))
}

func renderHTMLImage(b *strings.Builder, block Block, _ Theme) {
	url := ""
	if block.Content != nil {
		if v, ok := block.Content["url"].(string); ok {
			url = v
		}
	}
	alt := block.Text()
	if url != "" {
		fmt.Fprintf(b, "<figure><img src=\"%s\" alt=\"%s\"></figure>\n",
			html.EscapeString(url), html.EscapeString(alt))
		return
	}
	fmt.Fprintf(b, "<div class=\"placeholder\">%s</div>\n", html.EscapeString(alt))
}

func renderHTMLCode(b *strings.Builder, block Block, _ Theme) {
	fmt.Fprintf(b, "<pre><code>%s</code></pre>\n", html.EscapeString(block.Text()))
}

func renderHTMLDivider(b *strings.Builder, _ Block, _ Theme) {
	b.WriteString("<hr>\n")
}
