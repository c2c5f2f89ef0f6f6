// Package extract converts uploaded file bytes to plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrUnsupportedFormat is returned for file types that cannot be
	// converted to plain text
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// plainTextExtensions lists file types passed through as-is.
var plainTextExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".log":      true,
	".json":     true,
	".yaml":     true,
	".yml":      true,
	".xml":      true,
}

// Extract returns the plain text content of an uploaded file. The result is
// trimmed of surrounding whitespace; empty content is valid.
func Extract(data []byte, fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case plainTextExtensions[ext]:
		return extractPlain(data, fileName)
	case ext == ".html" || ext == ".htm":
		return extractHTML(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func extractPlain(data []byte, fileName string) (string, error) {
	if bytes.IndexByte(data, 0) != -1 || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid text", ErrUnsupportedFormat, fileName)
	}
	return strings.TrimSpace(string(data)), nil
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		// Fragments without a body still carry text at the document level.
		text = doc.Text()
	}

	return strings.TrimSpace(strings.Join(strings.Fields(text), " ")), nil
}
