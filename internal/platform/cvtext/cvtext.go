// Package cvtext extracts plain text from uploaded CV files for the CV
// worker (C7). Format is sniffed from magic bytes rather than trusted file
// extensions; PDF extraction uses ledongthuc/pdf and DOCX extraction uses
// gomutex/godocx.
package cvtext

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/ledongthuc/pdf"
)

// Format is a sniffed document format.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatUnknown Format = "unknown"
)

// ErrUnsupportedFormat is returned when the file's magic bytes match neither
// PDF nor DOCX (a zip-based OOXML container).
var ErrUnsupportedFormat = errors.New("cvtext: unsupported file format")

// maxPDFPages bounds PDF extraction to the first 10 pages so a malicious or
// absurdly long upload cannot exhaust worker memory.
const maxPDFPages = 10

// Sniff identifies a file's format from its leading bytes, ignoring
// whatever extension the client claimed.
func Sniff(data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return FormatPDF
	}
	// DOCX is a zip archive (PK\x03\x04); confirm it carries OOXML parts
	// rather than accepting any zip.
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) && bytes.Contains(data[:min(len(data), 4096)], []byte("word/")) {
		return FormatDOCX
	}
	return FormatUnknown
}

// Extract sniffs data's format and returns its cleaned plain text.
func Extract(data []byte) (string, Format, error) {
	format := Sniff(data)
	var raw string
	var err error

	switch format {
	case FormatPDF:
		raw, err = extractPDF(data)
	case FormatDOCX:
		raw, err = extractDOCX(data)
	default:
		return "", FormatUnknown, ErrUnsupportedFormat
	}
	if err != nil {
		return "", format, fmt.Errorf("cvtext: extract %s: %w", format, err)
	}
	return clean(raw), format, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	totalPages := reader.NumPage()
	if totalPages > maxPDFPages {
		totalPages = maxPDFPages
	}
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	if buf.Len() == 0 {
		return "", errors.New("no extractable text (possibly a scanned/image-only PDF)")
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := godocx.OpenDocxBytes(data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, para := range doc.Document.Body.Children {
		if para.Paragraph == nil {
			continue
		}
		for _, run := range para.Paragraph.Children {
			if run.Run != nil {
				for _, t := range run.Run.Children {
					if t.Text != nil {
						buf.WriteString(t.Text.Text)
					}
				}
			}
		}
		buf.WriteString("\n")
	}
	if buf.Len() == 0 {
		return "", errors.New("no extractable text")
	}
	return buf.String(), nil
}

var whitespaceRun = regexp.MustCompile(`[ \t]{2,}`)
var blankLineRun = regexp.MustCompile(`\n{3,}`)

// clean collapses repeated whitespace/blank lines left over from PDF
// column-layout extraction, without altering actual content.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
