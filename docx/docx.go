// Package docx converts the generated markdown into a Word document. The
// OOXML package is assembled directly: a zip archive with the content types,
// relationship, styles and document parts. Only the markdown subset the
// generator emits is supported (headings, tables, fenced JSON blocks,
// bullets, horizontal rules and paragraphs with bold spans).
package docx

import (
	"encoding/json"
	"strings"

	"github.com/iliakrupin/openapi-to-docx/docerrors"
)

type blockKind int

const (
	paragraphBlock blockKind = iota
	headingBlock
	tableBlock
	codeBlock
	listItemBlock
	spacerBlock
)

type block struct {
	kind  blockKind
	text  string
	level int // heading level, or list nesting
	rows  [][]string
}

// Build renders markdown as a DOCX file.
func Build(markdown string) ([]byte, error) {
	blocks := parse(markdown)
	data, err := writePackage(blocks)
	if err != nil {
		return nil, &docerrors.RenderError{Stage: "docx", Message: "failed to assemble document package", Cause: err}
	}
	return data, nil
}

func parse(markdown string) []block {
	lines := strings.Split(markdown, "\n")
	var blocks []block

	i := 0
	for i < len(lines) {
		line := lines[i]
		stripped := strings.TrimSpace(line)

		switch {
		case stripped == "":
			if len(blocks) > 0 && blocks[len(blocks)-1].kind != spacerBlock {
				blocks = append(blocks, block{kind: spacerBlock})
			}
			i++

		case strings.HasPrefix(stripped, "#"):
			level := 0
			for level < len(stripped) && stripped[level] == '#' {
				level++
			}
			if level > 5 {
				level = 5
			}
			text := strings.TrimSpace(strings.TrimLeft(stripped, "#"))
			if text == "" {
				text = line
			}
			blocks = append(blocks, block{kind: headingBlock, text: text, level: level})
			i++

		case strings.HasPrefix(stripped, "|") && strings.HasSuffix(stripped, "|"):
			var rows [][]string
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
				row := strings.TrimSpace(lines[i])
				cells := splitTableRow(row)
				if len(rows) != 1 || !isSeparatorRow(cells) {
					rows = append(rows, cells)
				}
				i++
			}
			if len(rows) > 0 {
				blocks = append(blocks, block{kind: tableBlock, rows: rows})
			}

		case strings.HasPrefix(stripped, "```"):
			var code []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
				code = append(code, lines[i])
				i++
			}
			i++ // closing fence
			blocks = append(blocks, block{kind: codeBlock, text: reindentJSON(strings.TrimSpace(strings.Join(code, "\n")))})

		case stripped == "---":
			if len(blocks) > 0 && blocks[len(blocks)-1].kind != spacerBlock {
				blocks = append(blocks, block{kind: spacerBlock})
			}
			i++

		case strings.HasPrefix(stripped, "- ") || strings.HasPrefix(stripped, "* "):
			level := 0
			if len(line)-len(strings.TrimLeft(line, " ")) >= 2 {
				level = 1
			}
			blocks = append(blocks, block{kind: listItemBlock, text: strings.TrimSpace(stripped[2:]), level: level})
			i++

		default:
			blocks = append(blocks, block{kind: paragraphBlock, text: line})
			i++
		}
	}
	return blocks
}

func splitTableRow(row string) []string {
	row = strings.Trim(strings.TrimSpace(row), "|")
	parts := strings.Split(row, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow matches the markdown table header separator (|---|:--:|).
func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' && r != ' ' {
				return false
			}
		}
	}
	return true
}

// reindentJSON pretty-prints the content of a code block when it is valid
// JSON; anything else passes through untouched.
func reindentJSON(content string) string {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return content
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return content
	}
	return strings.TrimRight(buf.String(), "\n")
}
