package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
)

// RawWriter writes BEGIN/END markers and property lines, escaping
// parameter values by version.
type RawWriter struct {
	out     *FoldedLineWriter
	version ical.Version
	caret   bool
}

func NewRawWriter(w io.Writer, v ical.Version) *RawWriter {
	return &RawWriter{out: NewFoldedLineWriter(w), version: v}
}

func (w *RawWriter) Version() ical.Version {
	return w.version
}

func (w *RawWriter) SetVersion(v ical.Version) {
	w.version = v
}

// SetCaretEncoding enables RFC 6868 parameter encoding. It never applies
// to 1.0.
func (w *RawWriter) SetCaretEncoding(enable bool) {
	w.caret = enable
}

// Folder exposes the line folding settings.
func (w *RawWriter) Folder() *FoldedLineWriter {
	return w.out
}

func (w *RawWriter) WriteBeginComponent(name string) error {
	return w.WriteProperty("BEGIN", ical.Parameters{}, name)
}

func (w *RawWriter) WriteEndComponent(name string) error {
	return w.WriteProperty("END", ical.Parameters{}, name)
}

// WriteProperty writes one property line.
func (w *RawWriter) WriteProperty(name string, params ical.Parameters, value string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ical.ErrInvalidPropertyName, name)
	}

	var b strings.Builder
	b.WriteString(name)
	legacy := w.version.IsLegacy()
	for _, pn := range params.Names() {
		values := params.GetAll(pn)
		if legacy {
			for _, v := range values {
				ev, err := escapeLegacyParam(v)
				if err != nil {
					return err
				}
				b.WriteByte(';')
				if pn != "" {
					b.WriteString(pn)
					b.WriteByte('=')
				}
				b.WriteString(ev)
			}
			continue
		}

		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = w.escapeParam(v)
		}
		if pn == "" {
			for _, ev := range escaped {
				b.WriteByte(';')
				b.WriteString(ev)
			}
			continue
		}
		b.WriteByte(';')
		b.WriteString(pn)
		b.WriteByte('=')
		b.WriteString(strings.Join(escaped, ","))
	}
	b.WriteByte(':')
	b.WriteString(escapeNewlines(value))
	return w.out.WriteLine(b.String())
}

func (w *RawWriter) Flush() error {
	return w.out.Flush()
}

func (w *RawWriter) Close() error {
	return w.out.Close()
}

func (w *RawWriter) escapeParam(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '\r' || c == '\n':
			if c == '\r' && i+1 < len(v) && v[i+1] == '\n' {
				i++
			}
			if w.caret {
				b.WriteString("^n")
			} else {
				b.WriteByte(' ')
			}
		case c == '"':
			if w.caret {
				b.WriteString("^'")
			} else {
				b.WriteByte('\'')
			}
		case c == '^' && w.caret:
			b.WriteString("^^")
		case c == '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	s := b.String()
	if strings.ContainsAny(s, ";:,") {
		return `"` + s + `"`
	}
	return s
}

// escapeLegacyParam uses backslash escapes only. 1.0 has no quoting, so a
// colon cannot be represented, and leading whitespace would be trimmed by
// a reader as part of the space allowed around "=".
func escapeLegacyParam(v string) (string, error) {
	if strings.Contains(v, ":") || strings.TrimLeft(v, " \t") != v {
		return "", fmt.Errorf("%w: %q", ical.ErrInvalidParameterValue, v)
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case '\r':
			if i+1 < len(v) && v[i+1] == '\n' {
				i++
			}
			b.WriteString(`\n`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func escapeNewlines(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	v = strings.ReplaceAll(v, "\r\n", `\n`)
	v = strings.ReplaceAll(v, "\r", `\n`)
	return strings.ReplaceAll(v, "\n", `\n`)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`;:,"`, r) {
			return false
		}
	}
	return true
}
