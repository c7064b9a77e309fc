package text

import (
	"io"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
)

// RawLine is one parsed logical line.
type RawLine struct {
	Name    string
	Params  ical.Parameters
	Value   string
	LineNum int
}

// RawReader tokenizes logical lines into name, parameters and value, and
// tracks the BEGIN/END stack so it can pick up the VERSION declaration of
// the calendar it is in.
type RawReader struct {
	lines    *FoldedLineReader
	version  ical.Version
	caret    bool
	declared bool
	stack    []string
}

// NewRawReader reads version 2.0 with caret decoding enabled until a
// VERSION declaration says otherwise.
func NewRawReader(r io.Reader) *RawReader {
	return &RawReader{
		lines:   NewFoldedLineReader(r),
		version: ical.V2_0,
		caret:   true,
	}
}

// SetVersion sets the version used until the next declaration.
func (r *RawReader) SetVersion(v ical.Version) {
	r.version = v
}

// SetCaretDecoding turns RFC 6868 parameter decoding on or off. It never
// applies to 1.0.
func (r *RawReader) SetCaretDecoding(enable bool) {
	r.caret = enable
}

func (r *RawReader) Version() ical.Version {
	return r.version
}

// Declared reports whether a VERSION declaration has been consumed since
// the last ResetDeclared.
func (r *RawReader) Declared() bool {
	return r.declared
}

func (r *RawReader) ResetDeclared() {
	r.declared = false
}

func (r *RawReader) LineNum() int {
	return r.lines.LineNum()
}

func (r *RawReader) Encoding() string {
	return r.lines.Encoding()
}

func (r *RawReader) Close() error {
	return r.lines.Close()
}

// ReadLine returns the next line that is not a VERSION declaration directly
// under VCALENDAR. It returns io.EOF at the end of the stream.
func (r *RawReader) ReadLine() (*RawLine, error) {
	for {
		text, err := r.lines.ReadLine()
		if err != nil {
			return nil, err
		}
		line, err := r.parseLine(text)
		if err != nil {
			return nil, err
		}

		switch strings.ToUpper(line.Name) {
		case "BEGIN":
			r.stack = append(r.stack, strings.ToUpper(strings.TrimSpace(line.Value)))
		case "END":
			r.pop(strings.ToUpper(strings.TrimSpace(line.Value)))
		case "VERSION":
			if r.underCalendar() {
				if v, ok := ical.ParseVersion(line.Value); ok {
					r.version = v
					r.declared = true
					continue
				}
			}
		}
		return line, nil
	}
}

// pop removes name and everything above it. An END for a name that never
// began is ignored.
func (r *RawReader) pop(name string) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i] == name {
			r.stack = r.stack[:i]
			return
		}
	}
}

func (r *RawReader) underCalendar() bool {
	return len(r.stack) == 1 && r.stack[0] == "VCALENDAR"
}

// parseLine runs the header state machine: plain, escaped (after '\' or
// '^') and quoted. The value after the first unquoted ':' is kept verbatim.
func (r *RawReader) parseLine(line string) (*RawLine, error) {
	legacy := r.version.IsLegacy()
	caret := r.caret && !legacy

	out := &RawLine{LineNum: r.lines.LineNum()}
	var (
		buf       strings.Builder
		escape    byte
		inQuotes  bool
		haveName  bool
		haveValue bool
		paramName string
		inValue   bool
	)
	putParam := func() {
		v := buf.String()
		if legacy {
			v = strings.TrimLeft(v, " \t")
		}
		if !inValue {
			// nameless parameter, e.g. ";QUOTED-PRINTABLE"
			out.Params.Put("", v)
			return
		}
		out.Params.Put(paramName, v)
	}

scan:
	for i := 0; i < len(line); i++ {
		c := line[i]

		if escape != 0 {
			switch {
			case escape == '\\' && c == '\\':
				buf.WriteByte(c)
			case escape == '\\' && (c == 'n' || c == 'N'):
				buf.WriteByte('\n')
			case escape == '\\' && c == '"' && !legacy:
				buf.WriteByte(c)
			case escape == '\\' && c == ';' && legacy:
				buf.WriteByte(c)
			case escape == '^' && c == '^':
				buf.WriteByte(c)
			case escape == '^' && c == 'n':
				buf.WriteByte('\n')
			case escape == '^' && c == '\'':
				buf.WriteByte('"')
			default:
				buf.WriteByte(escape)
				buf.WriteByte(c)
			}
			escape = 0
			continue
		}

		switch {
		case c == '\\' || (c == '^' && caret):
			escape = c
		case (c == ';' || c == ':') && !inQuotes:
			if !haveName {
				out.Name = buf.String()
				haveName = true
			} else {
				putParam()
				paramName, inValue = "", false
			}
			buf.Reset()
			if c == ':' {
				out.Value = line[i+1:]
				haveValue = true
				break scan
			}
		case c == ',' && !inQuotes && !legacy && haveName:
			out.Params.Put(paramName, buf.String())
			buf.Reset()
		case c == '=' && haveName && !inValue:
			paramName = buf.String()
			if legacy {
				paramName = strings.TrimRight(paramName, " \t")
			}
			inValue = true
			buf.Reset()
		case c == '"' && !legacy:
			inQuotes = !inQuotes
		default:
			buf.WriteByte(c)
		}
	}

	if !haveName || !haveValue || strings.TrimSpace(out.Name) == "" {
		return nil, &ical.MalformedLineError{Line: line, LineNum: out.LineNum}
	}
	return out, nil
}
