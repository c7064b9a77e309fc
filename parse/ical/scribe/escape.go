package scribe

import (
	"strconv"
	"strings"
)

// escapeText escapes a TEXT value: backslash, semicolon, comma and newline.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "\\;,\n\r") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ';', ',':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(`\n`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unescapeText reverses escapeText. Unknown escapes keep the escaped byte.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			switch c {
			case 'n', 'N':
				b.WriteByte('\n')
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}

// splitEscaped splits s on sep where sep is not backslash-escaped. A
// positive limit caps the number of parts; the last part keeps the rest.
// Parts are returned still escaped.
func splitEscaped(s string, sep byte, limit int) []string {
	var out []string
	start := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == sep:
			if limit > 0 && len(out) == limit-1 {
				continue
			}
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// splitStructured splits a structured value on ';' and unescapes each part.
func splitStructured(s string, limit int) []string {
	parts := splitEscaped(s, ';', limit)
	for i, p := range parts {
		parts[i] = unescapeText(p)
	}
	return parts
}

// splitList splits a list value on ',' and unescapes each item.
func splitList(s string) []string {
	parts := splitEscaped(s, ',', -1)
	for i, p := range parts {
		parts[i] = unescapeText(p)
	}
	return parts
}

func joinStructured(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = escapeText(p)
	}
	return strings.Join(escaped, ";")
}

// formatFloat writes up to six decimals and always at least one.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if s == "-0.0" {
		s = "0.0"
	}
	return s
}

// parseFloat accepts a leading U+2212 minus sign.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "−") {
		s = "-" + strings.TrimPrefix(s, "−")
	}
	return strconv.ParseFloat(s, 64)
}
