package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

// headingSizes are half-point font sizes for Heading1 through Heading5.
var headingSizes = [5]int{32, 28, 26, 24, 22}

func stylesXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
`)
	for i, size := range headingSizes {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%[1]d"><w:name w:val="heading %[1]d"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="%[2]d"/></w:pPr><w:rPr><w:b/><w:sz w:val="%[3]d"/></w:rPr></w:style>
`, i+1, i, size)
	}
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="120" w:after="120"/><w:ind w:left="240" w:right="240"/><w:shd w:val="clear" w:fill="F5F5F5"/></w:pPr><w:rPr><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New" w:cs="Courier New"/><w:sz w:val="20"/></w:rPr></w:style>
</w:styles>`)
	return b.String()
}

func writePackage(blocks []block) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML()},
		{"word/document.xml", documentXML(blocks)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentXML(blocks []block) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, blk := range blocks {
		switch blk.kind {
		case spacerBlock:
			b.WriteString(`<w:p/>`)
		case headingBlock:
			writeHeading(&b, blk)
		case tableBlock:
			writeTable(&b, blk)
		case codeBlock:
			writeCode(&b, blk)
		case listItemBlock:
			writeListItem(&b, blk)
		default:
			writeParagraph(&b, blk.text, "")
		}
	}

	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="850" w:bottom="1134" w:left="1701"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeHeading(b *strings.Builder, blk block) {
	fmt.Fprintf(b, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, blk.level)
	writeRuns(b, blk.text)
	b.WriteString(`</w:p>`)
}

// writeParagraph renders a paragraph with optional style, splitting **bold**
// spans into their own runs.
func writeParagraph(b *strings.Builder, text, style string) {
	b.WriteString(`<w:p>`)
	if style != "" {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	writeRuns(b, text)
	b.WriteString(`</w:p>`)
}

func writeRuns(b *strings.Builder, text string) {
	rest := text
	for rest != "" {
		start := strings.Index(rest, "**")
		if start < 0 {
			writeRun(b, rest, false)
			return
		}
		end := strings.Index(rest[start+2:], "**")
		if end < 0 {
			writeRun(b, rest, false)
			return
		}
		if start > 0 {
			writeRun(b, rest[:start], false)
		}
		writeRun(b, rest[start+2:start+2+end], true)
		rest = rest[start+2+end+2:]
	}
}

func writeRun(b *strings.Builder, text string, bold bool) {
	if text == "" {
		return
	}
	b.WriteString(`<w:r>`)
	if bold {
		b.WriteString(`<w:rPr><w:b/></w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escapeXML(text))
	b.WriteString(`</w:t></w:r>`)
}

func writeCode(b *strings.Builder, blk block) {
	for _, line := range strings.Split(blk.text, "\n") {
		b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Code"/></w:pPr><w:r><w:t xml:space="preserve">`)
		b.WriteString(escapeXML(line))
		b.WriteString(`</w:t></w:r></w:p>`)
	}
}

func writeListItem(b *strings.Builder, blk block) {
	indent := 240 + blk.level*360
	fmt.Fprintf(b, `<w:p><w:pPr><w:spacing w:before="0" w:after="0"/><w:ind w:left="%d" w:hanging="240"/></w:pPr>`, indent)
	writeRuns(b, "• "+blk.text)
	b.WriteString(`</w:p>`)
}

const tableBorders = `<w:tblBorders>` +
	`<w:top w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
	`<w:left w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
	`<w:bottom w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
	`<w:right w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
	`<w:insideH w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
	`<w:insideV w:val="single" w:sz="8" w:space="0" w:color="000000"/>` +
	`</w:tblBorders>`

func writeTable(b *strings.Builder, blk block) {
	if len(blk.rows) == 0 {
		return
	}
	columns := len(blk.rows[0])

	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/>`)
	b.WriteString(tableBorders)
	b.WriteString(`</w:tblPr><w:tblGrid>`)
	for i := 0; i < columns; i++ {
		b.WriteString(`<w:gridCol/>`)
	}
	b.WriteString(`</w:tblGrid>`)

	for rowIndex, row := range blk.rows {
		b.WriteString(`<w:tr>`)
		for col := 0; col < columns; col++ {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			if rowIndex == 0 {
				value = "**" + value + "**"
			}
			b.WriteString(`<w:tc><w:tcPr/>`)
			writeParagraph(b, value, "")
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
