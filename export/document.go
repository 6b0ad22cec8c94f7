package export

import (
	"sort"
	"strings"
)

// BlockType identifies the semantic kind of a content block.
type BlockType string

const (
	BlockHeading      BlockType = "HEADING"
	BlockSubheading   BlockType = "SUBHEADING"
	BlockParagraph    BlockType = "PARAGRAPH"
	BlockBulletList   BlockType = "BULLET_LIST"
	BlockNumberedList BlockType = "NUMBERED_LIST"
	BlockQuote        BlockType = "QUOTE"
	BlockImage        BlockType = "IMAGE"
	BlockChart        BlockType = "CHART"
	BlockCode         BlockType = "CODE"
	BlockDivider      BlockType = "DIVIDER"
	BlockUnknown      BlockType = "UNKNOWN"
)

// Theme holds the named color and font roles shared by every renderer.
// Colors are 6-hex-digit RGB strings with a leading '#'.
type Theme struct {
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Background  string `json:"background"`
	Surface     string `json:"surface"`
	Text        string `json:"text"`
	TextMuted   string `json:"textMuted"`
	Accent      string `json:"accent"`
	HeadingFont string `json:"headingFont"`
	BodyFont    string `json:"bodyFont"`
}

// DefaultTheme returns the theme used when a document carries none.
// Every renderer must produce output from this theme alone.
func DefaultTheme() Theme {
	return Theme{
		Primary:     "#3B82F6",
		Secondary:   "#8B5CF6",
		Background:  "#FFFFFF",
		Surface:     "#F8FAFC",
		Text:        "#0F172A",
		TextMuted:   "#64748B",
		Accent:      "#F59E0B",
		HeadingFont: "Arial",
		BodyFont:    "Arial",
	}
}

// BlockStyle carries optional per-block overrides. A nil field means
// "fall back to the block-type default, then to the theme role".
type BlockStyle struct {
	FontSize        *float64 `json:"fontSize,omitempty"`
	Color           string   `json:"color,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	Bold            *bool    `json:"bold,omitempty"`
	Italic          *bool    `json:"italic,omitempty"`
}

// Block is one typed content unit inside a slide. Content is the opaque
// JSON payload whose shape depends on Type ({text}, {items}, {url, alt}...).
type Block struct {
	Type    BlockType              `json:"blockType"`
	Order   int                    `json:"order"`
	Content map[string]interface{} `json:"content"`
	Style   *BlockStyle            `json:"style,omitempty"`
}

// Slide holds an ordered sequence of blocks. Order defines render sequence
// and is not required to be contiguous or zero-based.
type Slide struct {
	Order  int     `json:"order"`
	Layout string  `json:"layout,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Document is the canonical in-memory presentation handed to the exporter.
// It is never mutated by any renderer.
type Document struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Theme       *Theme  `json:"theme,omitempty"`
	Slides      []Slide `json:"slides"`
}

// EffectiveTheme returns the document theme, or the default when absent or
// partially filled (empty roles are backfilled from the default).
func (d *Document) EffectiveTheme() Theme {
	def := DefaultTheme()
	if d.Theme == nil {
		return def
	}
	t := *d.Theme
	if t.Primary == "" {
		t.Primary = def.Primary
	}
	if t.Secondary == "" {
		t.Secondary = def.Secondary
	}
	if t.Background == "" {
		t.Background = def.Background
	}
	if t.Surface == "" {
		t.Surface = def.Surface
	}
	if t.Text == "" {
		t.Text = def.Text
	}
	if t.TextMuted == "" {
		t.TextMuted = def.TextMuted
	}
	if t.Accent == "" {
		t.Accent = def.Accent
	}
	if t.HeadingFont == "" {
		t.HeadingFont = def.HeadingFont
	}
	if t.BodyFont == "" {
		t.BodyFont = def.BodyFont
	}
	return t
}

// SortedSlides returns the slides ordered by their Order field. The input
// document is left untouched; insertion order breaks ties.
func (d *Document) SortedSlides() []Slide {
	slides := make([]Slide, len(d.Slides))
	copy(slides, d.Slides)
	sort.SliceStable(slides, func(i, j int) bool {
		return slides[i].Order < slides[j].Order
	})
	return slides
}

// SortedBlocks returns the slide's blocks ordered by their Order field.
func (s *Slide) SortedBlocks() []Block {
	blocks := make([]Block, len(s.Blocks))
	copy(blocks, s.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Order < blocks[j].Order
	})
	return blocks
}

// contentString pulls a string field out of the opaque content payload.
func (b *Block) contentString(key string) string {
	if b.Content == nil {
		return ""
	}
	if v, ok := b.Content[key].(string); ok {
		return v
	}
	return ""
}

// Items returns the string items of a list block. Non-string entries are
// skipped; a missing or malformed items field yields an empty slice.
func (b *Block) Items() []string {
	if b.Content == nil {
		return nil
	}
	raw, ok := b.Content["items"].([]interface{})
	if !ok {
		// Some producers send items as a pre-typed string slice.
		if typed, ok := b.Content["items"].([]string); ok {
			return typed
		}
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			items = append(items, s)
		}
	}
	return items
}

// Text returns the best-effort plain text of a block regardless of type.
// This is the shared half of the block-renderer contract: a block that a
// format does not recognize degrades to this text instead of failing the
// export. An empty string means nothing usable was found.
func (b *Block) Text() string {
	switch b.Type {
	case BlockBulletList, BlockNumberedList:
		if items := b.Items(); len(items) > 0 {
			return strings.Join(items, "\n")
		}
	case BlockImage, BlockChart:
		if alt := b.contentString("alt"); alt != "" {
			return alt
		}
		if cap := b.contentString("caption"); cap != "" {
			return cap
		}
		return b.contentString("title")
	case BlockDivider:
		return ""
	}
	if t := b.contentString("text"); t != "" {
		return t
	}
	if c := b.contentString("code"); c != "" {
		return c
	}
	if items := b.Items(); len(items) > 0 {
		return strings.Join(items, "\n")
	}
	return b.contentString("alt")
}

// IsTextual reports whether the block renders as a text shape in the
// package builder (everything except image, chart and divider).
func (b *Block) IsTextual() bool {
	switch b.Type {
	case BlockImage, BlockChart, BlockDivider:
		return false
	}
	return true
}
