package export

import (
	"fmt"
	"html"
	"strings"
)

// XML part emission for the package builder. Every literal text value and
// attribute value passes through xmlEscape; an unescaped '&' or '<' in a
// part makes the whole package invalid.

const (
	xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\"?>\r\n"

	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctAppProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// xmlEscape escapes &, <, >, " and ' — the same contract the markup
// renderer uses, applied to XML text nodes and attribute values alike.
func xmlEscape(s string) string {
	return html.EscapeString(s)
}

// buildContentTypes enumerates every part's content type, with exactly one
// override per generated slide part.
func buildContentTypes(slideCount int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<Types xmlns=\"http://schemas.openxmlformats.org/package/2006/content-types\">")
	b.WriteString("<Default Extension=\"rels\" ContentType=\"application/vnd.openxmlformats-package.relationships+xml\"/>")
	b.WriteString("<Default Extension=\"xml\" ContentType=\"application/xml\"/>")
	fmt.Fprintf(&b, "<Override PartName=\"/ppt/presentation.xml\" ContentType=\"%s\"/>", ctPresentation)
	fmt.Fprintf(&b, "<Override PartName=\"/ppt/slideMasters/slideMaster1.xml\" ContentType=\"%s\"/>", ctSlideMaster)
	fmt.Fprintf(&b, "<Override PartName=\"/ppt/slideLayouts/slideLayout1.xml\" ContentType=\"%s\"/>", ctSlideLayout)
	fmt.Fprintf(&b, "<Override PartName=\"/ppt/theme/theme1.xml\" ContentType=\"%s\"/>", ctTheme)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, "<Override PartName=\"/ppt/slides/slide%d.xml\" ContentType=\"%s\"/>", i, ctSlide)
	}
	fmt.Fprintf(&b, "<Override PartName=\"/docProps/core.xml\" ContentType=\"%s\"/>", ctCoreProps)
	fmt.Fprintf(&b, "<Override PartName=\"/docProps/app.xml\" ContentType=\"%s\"/>", ctAppProps)
	b.WriteString("</Types>")
	return []byte(b.String())
}

func relationshipsXML(rels [][3]string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<Relationships xmlns=\"http://schemas.openxmlformats.org/package/2006/relationships\">")
	for _, r := range rels {
		fmt.Fprintf(&b, "<Relationship Id=\"%s\" Type=\"%s\" Target=\"%s\"/>", r[0], r[1], r[2])
	}
	b.WriteString("</Relationships>")
	return []byte(b.String())
}

func buildRootRels() []byte {
	return relationshipsXML([][3]string{
		{"rId1", relTypeOfficeDocument, "ppt/presentation.xml"},
		{"rId2", relTypeCoreProps, "docProps/core.xml"},
		{"rId3", relTypeExtendedProps, "docProps/app.xml"},
	})
}

// buildPresentation emits the main package document: one master reference
// and one ordered reference per slide. The order here is what a reader uses
// as the on-open slide order.
func buildPresentation(slideCount int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, "<p:presentation xmlns:a=\"%s\" xmlns:r=\"%s\" xmlns:p=\"%s\">", nsDrawing, nsRelationships, nsPresentation)
	b.WriteString("<p:sldMasterIdLst><p:sldMasterId id=\"2147483648\" r:id=\"rId1\"/></p:sldMasterIdLst>")
	if slideCount > 0 {
		b.WriteString("<p:sldIdLst>")
		for i := 0; i < slideCount; i++ {
			fmt.Fprintf(&b, "<p:sldId id=\"%d\" r:id=\"rId%d\"/>", 256+i, 2+i)
		}
		b.WriteString("</p:sldIdLst>")
	}
	fmt.Fprintf(&b, "<p:sldSz cx=\"%d\" cy=\"%d\"/>", slideWidthEMU, slideHeightEMU)
	b.WriteString("<p:notesSz cx=\"6858000\" cy=\"9144000\"/>")
	b.WriteString("</p:presentation>")
	return []byte(b.String())
}

func buildPresentationRels(slideCount int) []byte {
	rels := [][3]string{{"rId1", relTypeSlideMaster, "slideMasters/slideMaster1.xml"}}
	for i := 0; i < slideCount; i++ {
		rels = append(rels, [3]string{
			fmt.Sprintf("rId%d", 2+i), relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	rels = append(rels, [3]string{fmt.Sprintf("rId%d", 2+slideCount), relTypeTheme, "theme/theme1.xml"})
	return relationshipsXML(rels)
}

func buildSlideMaster() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, "<p:sldMaster xmlns:a=\"%s\" xmlns:r=\"%s\" xmlns:p=\"%s\">", nsDrawing, nsRelationships, nsPresentation)
	b.WriteString("<p:cSld><p:spTree>")
	b.WriteString("<p:nvGrpSpPr><p:cNvPr id=\"1\" name=\"\"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>")
	b.WriteString("<p:grpSpPr/>")
	b.WriteString("</p:spTree></p:cSld>")
	b.WriteString("<p:clrMap bg1=\"lt1\" tx1=\"dk1\" bg2=\"lt2\" tx2=\"dk2\" accent1=\"accent1\" accent2=\"accent2\" accent3=\"accent3\" accent4=\"accent4\" accent5=\"accent5\" accent6=\"accent6\" hlink=\"hlink\" folHlink=\"folHlink\"/>")
	b.WriteString("<p:sldLayoutIdLst><p:sldLayoutId id=\"2147483649\" r:id=\"rId1\"/></p:sldLayoutIdLst>")
	b.WriteString("</p:sldMaster>")
	return []byte(b.String())
}

func buildSlideMasterRels() []byte {
	return relationshipsXML([][3]string{
		{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"},
		{"rId2", relTypeTheme, "../theme/theme1.xml"},
	})
}

func buildSlideLayout() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, "<p:sldLayout xmlns:a=\"%s\" xmlns:r=\"%s\" xmlns:p=\"%s\" type=\"blank\">", nsDrawing, nsRelationships, nsPresentation)
	b.WriteString("<p:cSld><p:spTree>")
	b.WriteString("<p:nvGrpSpPr><p:cNvPr id=\"1\" name=\"\"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>")
	b.WriteString("<p:grpSpPr/>")
	b.WriteString("</p:spTree></p:cSld>")
	b.WriteString("<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>")
	b.WriteString("</p:sldLayout>")
	return []byte(b.String())
}

func buildSlideLayoutRels() []byte {
	return relationshipsXML([][3]string{
		{"rId1", relTypeSlideMaster, "../slideMasters/slideMaster1.xml"},
	})
}

func buildSlideRels() []byte {
	return relationshipsXML([][3]string{
		{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"},
	})
}

// Theme role to scheme slot mapping. This table is the package builder's
// private contract; no other component sees scheme slots.
//
//	text       -> dk1        background -> lt1
//	textMuted  -> dk2        surface    -> lt2
//	primary    -> accent1    secondary  -> accent2
//	accent     -> accent3    (accent4-6 reuse primary/secondary/accent)
//	primary    -> hlink/folHlink
//	headingFont-> majorFont  bodyFont   -> minorFont
func buildThemePart(theme Theme) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, "<a:theme xmlns:a=\"%s\" name=\"Slideforge\">", nsDrawing)
	b.WriteString("<a:themeElements>")

	b.WriteString("<a:clrScheme name=\"Slideforge\">")
	writeSchemeColor(&b, "dk1", theme.Text)
	writeSchemeColor(&b, "lt1", theme.Background)
	writeSchemeColor(&b, "dk2", theme.TextMuted)
	writeSchemeColor(&b, "lt2", theme.Surface)
	writeSchemeColor(&b, "accent1", theme.Primary)
	writeSchemeColor(&b, "accent2", theme.Secondary)
	writeSchemeColor(&b, "accent3", theme.Accent)
	writeSchemeColor(&b, "accent4", theme.Primary)
	writeSchemeColor(&b, "accent5", theme.Secondary)
	writeSchemeColor(&b, "accent6", theme.Accent)
	writeSchemeColor(&b, "hlink", theme.Primary)
	writeSchemeColor(&b, "folHlink", theme.Primary)
	b.WriteString("</a:clrScheme>")

	b.WriteString("<a:fontScheme name=\"Slideforge\">")
	fmt.Fprintf(&b, "<a:majorFont><a:latin typeface=\"%s\"/><a:ea typeface=\"\"/><a:cs typeface=\"\"/></a:majorFont>", xmlEscape(theme.HeadingFont))
	fmt.Fprintf(&b, "<a:minorFont><a:latin typeface=\"%s\"/><a:ea typeface=\"\"/><a:cs typeface=\"\"/></a:minorFont>", xmlEscape(theme.BodyFont))
	b.WriteString("</a:fontScheme>")

	// A reader requires the format scheme to be present even though every
	// shape here carries explicit formatting.
	b.WriteString("<a:fmtScheme name=\"Slideforge\">")
	b.WriteString("<a:fillStyleLst>")
	b.WriteString("<a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill>")
	b.WriteString("<a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill>")
	b.WriteString("<a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill>")
	b.WriteString("</a:fillStyleLst>")
	b.WriteString("<a:lnStyleLst>")
	for i := 0; i < 3; i++ {
		b.WriteString("<a:ln w=\"9525\" cap=\"flat\" cmpd=\"sng\" algn=\"ctr\"><a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill><a:prstDash val=\"solid\"/></a:ln>")
	}
	b.WriteString("</a:lnStyleLst>")
	b.WriteString("<a:effectStyleLst>")
	for i := 0; i < 3; i++ {
		b.WriteString("<a:effectStyle><a:effectLst/></a:effectStyle>")
	}
	b.WriteString("</a:effectStyleLst>")
	b.WriteString("<a:bgFillStyleLst>")
	b.WriteString("<a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill>")
	b.WriteString("<a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill>")
	b.WriteString("<a:solidFill><a:schemeClr val=\"phClr\"/></a:solidFill>")
	b.WriteString("</a:bgFillStyleLst>")
	b.WriteString("</a:fmtScheme>")

	b.WriteString("</a:themeElements>")
	b.WriteString("</a:theme>")
	return []byte(b.String())
}

func writeSchemeColor(b *strings.Builder, slot, color string) {
	fmt.Fprintf(b, "<a:%s><a:srgbClr val=\"%s\"/></a:%s>", slot, hexNoHash(color), slot)
}

func buildCoreProps(doc *Document) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<cp:coreProperties xmlns:cp=\"http://schemas.openxmlformats.org/package/2006/metadata/core-properties\" xmlns:dc=\"http://purl.org/dc/elements/1.1/\">")
	fmt.Fprintf(&b, "<dc:title>%s</dc:title>", xmlEscape(doc.Title))
	if doc.Description != "" {
		fmt.Fprintf(&b, "<dc:description>%s</dc:description>", xmlEscape(doc.Description))
	}
	b.WriteString("<dc:creator>slideforge</dc:creator>")
	b.WriteString("</cp:coreProperties>")
	return []byte(b.String())
}

func buildAppProps(slideCount int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<Properties xmlns=\"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties\">")
	b.WriteString("<Application>slideforge</Application>")
	fmt.Fprintf(&b, "<Slides>%d</Slides>", slideCount)
	b.WriteString("</Properties>")
	return []byte(b.String())
}

// buildSlidePart serializes one slide's shape list into a slide part.
// Shape ids start at 2; id 1 belongs to the group shape of the tree itself.
func buildSlidePart(shapes []slideShape) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, "<p:sld xmlns:a=\"%s\" xmlns:r=\"%s\" xmlns:p=\"%s\">", nsDrawing, nsRelationships, nsPresentation)
	b.WriteString("<p:cSld><p:spTree>")
	b.WriteString("<p:nvGrpSpPr><p:cNvPr id=\"1\" name=\"\"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>")
	b.WriteString("<p:grpSpPr/>")
	for i, shape := range shapes {
		writeShape(&b, shape, i+2)
	}
	b.WriteString("</p:spTree></p:cSld>")
	b.WriteString("<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>")
	b.WriteString("</p:sld>")
	return []byte(b.String())
}

func writeShape(b *strings.Builder, shape slideShape, id int) {
	b.WriteString("<p:sp>")
	fmt.Fprintf(b, "<p:nvSpPr><p:cNvPr id=\"%d\" name=\"%s %d\"/><p:cNvSpPr txBox=\"1\"/><p:nvPr/></p:nvSpPr>",
		id, xmlEscape(shape.name), id-1)

	b.WriteString("<p:spPr>")
	fmt.Fprintf(b, "<a:xfrm><a:off x=\"%d\" y=\"%d\"/><a:ext cx=\"%d\" cy=\"%d\"/></a:xfrm>", shape.x, shape.y, shape.w, shape.h)
	b.WriteString("<a:prstGeom prst=\"rect\"><a:avLst/></a:prstGeom>")
	if shape.outlined {
		b.WriteString("<a:ln w=\"9525\"><a:solidFill><a:schemeClr val=\"dk2\"/></a:solidFill><a:prstDash val=\"dash\"/></a:ln>")
	}
	b.WriteString("</p:spPr>")

	b.WriteString("<p:txBody><a:bodyPr wrap=\"square\" rtlCol=\"0\"/><a:lstStyle/>")
	if len(shape.paragraphs) == 0 {
		b.WriteString("<a:p><a:endParaRPr/></a:p>")
	}
	for _, para := range shape.paragraphs {
		writeParagraph(b, para)
	}
	b.WriteString("</p:txBody>")
	b.WriteString("</p:sp>")
}

func writeParagraph(b *strings.Builder, para shapeParagraph) {
	b.WriteString("<a:p>")
	switch para.bullet {
	case bulletChar:
		b.WriteString("<a:pPr marL=\"285750\" indent=\"-285750\"><a:buChar char=\"•\"/></a:pPr>")
	case bulletAutoNum:
		b.WriteString("<a:pPr marL=\"342900\" indent=\"-342900\"><a:buAutoNum type=\"arabicPeriod\"/></a:pPr>")
	}
	for _, run := range para.runs {
		writeRun(b, run)
	}
	b.WriteString("</a:p>")
}

func writeRun(b *strings.Builder, run shapeRun) {
	fmt.Fprintf(b, "<a:r><a:rPr lang=\"en-US\" sz=\"%d\" b=\"%d\" i=\"%d\" dirty=\"0\">",
		int(run.sizePt*100), boolAttr(run.bold), boolAttr(run.italic))
	fmt.Fprintf(b, "<a:solidFill><a:srgbClr val=\"%s\"/></a:solidFill>", run.color)
	if run.font != "" {
		fmt.Fprintf(b, "<a:latin typeface=\"%s\"/>", xmlEscape(run.font))
	}
	b.WriteString("</a:rPr>")
	fmt.Fprintf(b, "<a:t>%s</a:t>", xmlEscape(run.text))
	b.WriteString("</a:r>")
}

func boolAttr(v bool) int {
	if v {
		return 1
	}
	return 0
}
