package codec

import (
	"fmt"
	"strings"
)

// Slide geometry in EMU for a 16:9 slide. The text frame covers the
// central 80% in both directions.
const (
	slideWidth  = 12192000
	slideHeight = 6858000

	frameX  = slideWidth / 10
	frameY  = slideHeight / 10
	frameCX = slideWidth * 8 / 10
	frameCY = slideHeight * 8 / 10
)

const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"

	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"

	pmlNamespaces = `xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentation + `"`

	emptyGroupShape = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
)

// presentationParts lays out a presentation with one master, one blank
// layout, one theme and a text-box slide per entry of slides. Relationship
// ids in presentation.xml.rels: rId1 master, rId2 theme, rId3.. slides.
func presentationParts(slides [][]string) []part {
	parts := []part{
		{name: "[Content_Types].xml", body: presentationContentTypes(len(slides))},
		{name: "_rels/.rels", body: packageRels("ppt/presentation.xml")},
		{name: presentationXML, body: presentationBody(len(slides))},
		{name: presentationRel, body: presentationRels(len(slides))},
		{name: "ppt/slideMasters/slideMaster1.xml", body: slideMasterXML},
		{name: "ppt/slideMasters/_rels/slideMaster1.xml.rels", body: relationshipsXML(
			relationship(1, relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"),
			relationship(2, relTypeTheme, "../theme/theme1.xml"),
		)},
		{name: "ppt/slideLayouts/slideLayout1.xml", body: slideLayoutXML},
		{name: "ppt/slideLayouts/_rels/slideLayout1.xml.rels", body: relationshipsXML(
			relationship(1, relTypeSlideMaster, "../slideMasters/slideMaster1.xml"),
		)},
		{name: "ppt/theme/theme1.xml", body: themeXML},
	}
	for i, lines := range slides {
		n := i + 1
		parts = append(parts,
			part{name: fmt.Sprintf("ppt/slides/slide%d.xml", n), body: slideXML(lines)},
			part{name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), body: relationshipsXML(
				relationship(1, relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"),
			)},
		)
	}
	return parts
}

func presentationContentTypes(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="` + nsContentTypes + `">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(override("/ppt/presentation.xml", ctPresentation))
	b.WriteString(override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster))
	b.WriteString(override("/ppt/slideLayouts/slideLayout1.xml", ctSlideLayout))
	b.WriteString(override("/ppt/theme/theme1.xml", ctTheme))
	for n := 1; n <= slideCount; n++ {
		b.WriteString(override(fmt.Sprintf("/ppt/slides/slide%d.xml", n), ctSlide))
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func override(partName, contentType string) string {
	return `<Override PartName="` + partName + `" ContentType="` + contentType + `"/>`
}

func presentationBody(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + pmlNamespaces + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if slideCount > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slideCount; i++ {
			b.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 3+i))
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	b.WriteString(fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/>`, slideWidth, slideHeight))
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRels(slideCount int) string {
	rels := []string{
		relationship(1, relTypeSlideMaster, "slideMasters/slideMaster1.xml"),
		relationship(2, relTypeTheme, "theme/theme1.xml"),
	}
	for i := 0; i < slideCount; i++ {
		rels = append(rels, relationship(3+i, relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1)))
	}
	return relationshipsXML(rels...)
}

func relationship(id int, relType, target string) string {
	return fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="%s"/>`, id, relType, target)
}

func relationshipsXML(rels ...string) string {
	return xmlHeader + `<Relationships xmlns="` + nsPackageRels + `">` + strings.Join(rels, "") + `</Relationships>`
}

func slideXML(lines []string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + pmlNamespaces + `><p:cSld><p:spTree>`)
	b.WriteString(emptyGroupShape)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="TextBox 1"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`)
	b.WriteString(fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, frameX, frameY, frameCX, frameCY))
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	for _, line := range lines {
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>`)
		b.WriteString(escape(line))
		b.WriteString(`</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

var slideMasterXML = xmlHeader +
	`<p:sldMaster ` + pmlNamespaces + `>` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroupShape + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"/></a:lvl1pPr></p:titleStyle>` +
	`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="2400"/></a:lvl1pPr></p:bodyStyle>` +
	`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle></p:txStyles>` +
	`</p:sldMaster>`

var slideLayoutXML = xmlHeader +
	`<p:sldLayout ` + pmlNamespaces + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + emptyGroupShape + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

var themeXML = xmlHeader +
	`<a:theme xmlns:a="` + nsDrawingML + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` + strings.Repeat(`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`, 3) + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` + strings.Repeat(`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>`, 3) + `</a:lnStyleLst>` +
	`<a:effectStyleLst>` + strings.Repeat(`<a:effectStyle><a:effectLst/></a:effectStyle>`, 3) + `</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + strings.Repeat(`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`, 3) + `</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`
