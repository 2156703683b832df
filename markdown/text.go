package markdown

import (
	"regexp"
	"strings"
)

var (
	headerMarkers   = regexp.MustCompile(`#{1,6}\s*`)
	boldStars       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicStars     = regexp.MustCompile(`\*([^*]+)\*`)
	boldUnderscores = regexp.MustCompile(`__([^_]+)__`)
	italicUnders    = regexp.MustCompile(`_([^_]+)_`)
	leftoverMarkers = regexp.MustCompile(`[*_]{1,2}`)
	emojiRunes      = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}\x{24C2}-\x{1F251}]+`)
	fencedCode      = regexp.MustCompile("```[^`]*```")
	inlineCode      = regexp.MustCompile("`[^`]+`")
	inlineCodeKeep  = regexp.MustCompile("`([^`]+)`")
	mdLinks         = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	listMarkers     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	structuredHead  = regexp.MustCompile(`(?i)(Parameters?|Returns?|Raises?):`)
	itemSeparator   = regexp.MustCompile(`\s*-\s+`)
	bulletPrefix    = regexp.MustCompile(`^\s*[•\-*]\s+`)
)

// Sanitize strips Markdown emphasis, headers, code spans, links, list
// markers and emoji from free-form text, collapsing whitespace.
func Sanitize(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	text = headerMarkers.ReplaceAllString(text, "")
	text = boldStars.ReplaceAllString(text, "$1")
	text = italicStars.ReplaceAllString(text, "$1")
	text = boldUnderscores.ReplaceAllString(text, "$1")
	text = italicUnders.ReplaceAllString(text, "$1")
	text = leftoverMarkers.ReplaceAllString(text, "")
	text = emojiRunes.ReplaceAllString(text, "")
	text = fencedCode.ReplaceAllString(text, "")
	text = inlineCode.ReplaceAllString(text, "")
	text = mdLinks.ReplaceAllString(text, "$1")
	text = listMarkers.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SanitizePreserveStructure cleans markdown formatting but keeps the line
// structure of Parameters/Returns/Raises blocks intact.
func SanitizePreserveStructure(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}

	intro, structured := SplitStructured(value)
	introClean := Sanitize(intro)
	if structured == "" {
		return introClean
	}

	s := headerMarkers.ReplaceAllString(structured, "")
	s = emojiRunes.ReplaceAllString(s, "")
	s = boldStars.ReplaceAllString(s, "$1")
	s = boldUnderscores.ReplaceAllString(s, "$1")
	s = mdLinks.ReplaceAllString(s, "$1")
	s = inlineCodeKeep.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(s)

	if introClean == "" {
		return s
	}
	return introClean + "\n\n" + s
}

// SplitStructured splits a description into its free-form intro and the
// structured Parameters/Returns/Raises tail, either of which may be empty.
func SplitStructured(text string) (intro, structured string) {
	loc := structuredHead.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	return strings.TrimSpace(text[:loc[0]]), strings.TrimSpace(text[loc[0]:])
}

// SplitSentences breaks text at sentence-ending punctuation.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\t' && runes[i+1] != '\n' {
				continue
			}
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// BulletList renders text as markdown bullet items, giving structured
// Parameters/Returns/Raises blocks their own headed sub-lists.
func BulletList(text string) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}

	headLocs := structuredHead.FindAllStringSubmatchIndex(clean, -1)
	if len(headLocs) == 0 {
		sentences := SplitSentences(clean)
		if len(sentences) == 0 {
			return []string{"- " + clean}
		}
		items := make([]string, 0, len(sentences))
		for _, s := range sentences {
			items = append(items, "- "+s)
		}
		return items
	}

	var items []string
	if leading := strings.TrimSpace(clean[:headLocs[0][0]]); leading != "" {
		for _, s := range SplitSentences(leading) {
			items = append(items, "- "+s)
		}
	}

	seen := make(map[string]bool)
	for i, loc := range headLocs {
		head := clean[loc[2]:loc[3]]
		key := strings.ToLower(head)
		if seen[key] {
			continue
		}
		seen[key] = true

		end := len(clean)
		if i+1 < len(headLocs) {
			end = headLocs[i+1][0]
		}
		value := clean[loc[1]:end]

		// Returns and Raises get a separating blank line; Parameters opens
		// the block and needs none.
		if !strings.EqualFold(head, "parameters") && !strings.EqualFold(head, "parameter") {
			items = append(items, "")
		}
		items = append(items, head+":")

		entries := parseStructuredItems(value)
		if len(entries) > 0 {
			for _, e := range entries {
				items = append(items, "- "+e)
			}
			continue
		}
		for _, line := range strings.Split(value, "\n") {
			line = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
			if line != "" {
				items = append(items, "- "+line)
			}
		}
	}
	return items
}

// parseStructuredItems splits "- item1 - item2" style text into entries.
func parseStructuredItems(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" || !strings.Contains(text, "-") {
		return nil
	}
	var entries []string
	for _, chunk := range itemSeparator.Split(text, -1) {
		if c := strings.Trim(chunk, " ."); c != "" {
			entries = append(entries, c)
		}
	}
	return entries
}
