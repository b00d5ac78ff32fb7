package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// dStroke maps đ/Đ to plain d, which NFD leaves alone since the stroke is
// not a combining mark.
var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// Fold strips diacritics and lowercases, so "Đà Lạt" and "da lat" compare equal.
func Fold(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(dStroke.Replace(out))
}

// Slugify folds a name into a stable lowercase token: diacritics removed,
// non-alphanumeric runs collapsed to a single dash.
func Slugify(s string) string {
	folded := Fold(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ParseCoordinate repairs coordinate strings that picked up thousands
// separators or run-together digits, e.g. "10.791.858.651.304.300" becomes
// 10.7918586513043. Sign and digit order are preserved, the first separator
// becomes the decimal point and every later one is dropped. Returns ok=false
// for empty or digit-free input; it never panics on garbage.
func ParseCoordinate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	decimal := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		b.WriteByte(s[0])
		i = 1
	}
	for _, ch := range s[i:] {
		switch {
		case ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '.' || ch == ',':
			if !decimal {
				b.WriteByte('.')
				decimal = true
			}
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "+" || cleaned == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseNumeric extracts a number from price/rating fields that may carry
// currency symbols or grouping commas ("1,500,000 VND"). A single comma is
// treated as a decimal point; multiple commas as grouping.
func ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	for _, ch := range s {
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == ',' || ch == '-' || ch == '+' {
			b.WriteRune(ch)
		}
	}
	cleaned := b.String()
	if strings.Count(cleaned, ",") == 1 && !strings.Contains(cleaned, ".") {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitTags splits a delimited tag field (comma, semicolon or pipe) into a
// lowercase, trimmed, de-duplicated list.
func SplitTags(raw string) []string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, ";", ",")
	s = strings.ReplaceAll(s, "|", ",")
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(s, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
