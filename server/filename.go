package server

import (
	"path/filepath"
	"strings"
	"time"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// OutputFilename derives the attachment filename for a generated document
// from the uploaded file's name: the stem reduced to safe characters plus a
// UTC timestamp.
func OutputFilename(originalName string) string {
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if safe == "" {
		safe = "openapi"
	}

	return safe + "_doc_" + timeNow().UTC().Format("20060102_150405") + ".docx"
}
