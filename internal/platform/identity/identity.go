// Package identity extracts an applicant's name, email, and phone number
// from free-form CV text for the application worker (C8). Each field uses
// its own heuristic and reports a confidence level, since CV layouts vary
// too widely for a single regex pass to be trusted blindly.
package identity

import (
	"regexp"
	"strings"
)

// Confidence indicates how much a caller should trust an extracted field.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
	ConfidenceNone Confidence = "none"
)

// Field is one extracted identity attribute.
type Field struct {
	Value      string
	Confidence Confidence
}

// Identity is the full set of fields extracted from a CV.
type Identity struct {
	Name  Field
	Email Field
	Phone Field
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Nigerian phone pattern: +234/234/0 prefix followed by 10 digits, optionally
// grouped 3-3-4 with spaces or hyphens. Numbers in other formats are not
// matched; the caller treats phone as a low-confidence hint, never a
// primary key.
var phonePattern = regexp.MustCompile(`(\+?234|0)[\s\-]?[0-9]{3}[\s\-]?[0-9]{3}[\s\-]?[0-9]{4}`)

// stopWords are tokens that should never be mistaken for a person's name
// even though they often appear on the first line of a CV.
var stopWords = map[string]bool{
	"curriculum": true, "vitae": true, "resume": true, "résumé": true,
	"cv": true, "profile": true, "summary": true, "objective": true,
	"contact": true, "information": true, "personal": true, "details": true,
}

// rejectedEmailDomains are placeholder/sample domains that show up in CV
// templates verbatim; a match here is never the applicant's real address.
var rejectedEmailDomains = map[string]bool{
	"example.com": true, "test.com": true, "domain.com": true,
	"email.com": true, "smartcvnaija.com": true, "sample.com": true,
	"dummy.com": true,
}

// Extract runs all three heuristics over text (already-cleaned CV plain
// text) and returns whatever it can find. Name extraction falls back to the
// email's local part, then to a Nigerian three-part name scan, when the
// layout-based heuristic finds nothing.
func Extract(text string) Identity {
	email := extractEmail(text)
	name := extractName(text)
	if name.Confidence == ConfidenceNone && email.Value != "" {
		name = nameFromEmail(email.Value)
	}
	if name.Confidence == ConfidenceNone {
		name = extractNigerianThreePartName(text)
	}
	return Identity{
		Name:  name,
		Email: email,
		Phone: extractPhone(text),
	}
}

func extractEmail(text string) Field {
	for _, match := range emailPattern.FindAllString(text, -1) {
		at := strings.LastIndex(match, "@")
		if at < 0 {
			continue
		}
		if rejectedEmailDomains[strings.ToLower(match[at+1:])] {
			continue
		}
		return Field{Value: match, Confidence: ConfidenceHigh}
	}
	return Field{Confidence: ConfidenceNone}
}

// nameFromEmail derives a plausible display name from an email local part
// like "john.okafor" or "john_okafor42", used when no name-shaped line is
// found near the top of the CV.
func nameFromEmail(email string) Field {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.TrimRightFunc(local, func(r rune) bool { return r >= '0' && r <= '9' })
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(parts) < 2 {
		return Field{Confidence: ConfidenceNone}
	}
	var words []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, strings.ToUpper(p[:1])+strings.ToLower(p[1:]))
	}
	if len(words) < 2 {
		return Field{Confidence: ConfidenceNone}
	}
	return Field{Value: strings.Join(words, " "), Confidence: ConfidenceLow}
}

var nameTokenPattern = regexp.MustCompile(`^[A-Z][a-z]{1,15}$`)

// extractNigerianThreePartName scans for three consecutive capitalized
// tokens (a common Nigerian given-middle-surname layout) anywhere in the
// first few lines, as a last-resort name source.
func extractNigerianThreePartName(text string) Field {
	lines := strings.Split(text, "\n")
	checked := 0
	for _, line := range lines {
		if checked >= 12 {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		words := strings.Fields(line)
		if len(words) != 3 {
			continue
		}
		allMatch := true
		for _, w := range words {
			if !nameTokenPattern.MatchString(w) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return Field{Value: strings.Join(words, " "), Confidence: ConfidenceLow}
		}
	}
	return Field{Confidence: ConfidenceNone}
}

func extractPhone(text string) Field {
	match := phonePattern.FindString(text)
	if match == "" {
		return Field{Confidence: ConfidenceNone}
	}
	return Field{Value: normalizePhone(match), Confidence: ConfidenceLow}
}

func normalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case strings.HasPrefix(d, "234"):
		return "+" + d
	case strings.HasPrefix(d, "0") && len(d) == 11:
		return "+234" + d[1:]
	default:
		return d
	}
}

// extractName uses the first several non-empty lines as candidates, since a
// CV's name is almost always near the top, then picks the first candidate
// that looks like a short title-cased phrase with no digits, no email
// pattern, and no stop words.
func extractName(text string) Field {
	lines := strings.Split(text, "\n")
	checked := 0
	for _, line := range lines {
		if checked >= 8 {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++

		if looksLikeName(line) {
			return Field{Value: line, Confidence: ConfidenceHigh}
		}
	}
	return Field{Confidence: ConfidenceNone}
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		lower := strings.ToLower(strings.Trim(w, ".,"))
		if stopWords[lower] {
			return false
		}
		for _, r := range w {
			if r >= '0' && r <= '9' {
				return false
			}
		}
	}
	if strings.Contains(line, "@") || strings.Contains(line, "://") {
		return false
	}
	return true
}
