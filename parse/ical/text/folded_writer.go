package text

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/dzjyyds666/ical/parse/ical"
)

const (
	DefaultLineLength = 75
	DefaultIndent     = " "
	DefaultNewline    = "\r\n"
)

// FoldedLineWriter folds logical lines longer than LineLength characters.
// A backslash or caret is never separated from the character after it, so
// an escape sequence always stays on one physical line.
type FoldedLineWriter struct {
	dst io.Writer
	w   *bufio.Writer

	// LineLength <= 0 disables folding. Indent must be one space or tab.
	LineLength int
	Indent     string
	Newline    string
}

func NewFoldedLineWriter(w io.Writer) *FoldedLineWriter {
	return &FoldedLineWriter{
		dst:        w,
		w:          bufio.NewWriter(w),
		LineLength: DefaultLineLength,
		Indent:     DefaultIndent,
		Newline:    DefaultNewline,
	}
}

// WriteLine writes one logical line followed by the newline sequence.
func (f *FoldedLineWriter) WriteLine(line string) error {
	if f.LineLength <= 0 || utf8.RuneCountInString(line) <= f.LineLength {
		return f.write(line, f.Newline)
	}

	if err := ical.CheckFoldIndent(f.Indent); err != nil {
		return err
	}
	units := foldUnits(line)
	avail := f.LineLength
	first := true
	for len(units) > 0 {
		n, width := 0, 0
		for n < len(units) {
			w := utf8.RuneCountInString(units[n])
			if n > 0 && width+w > avail {
				break
			}
			width += w
			n++
		}
		if !first {
			if err := f.write(f.Indent); err != nil {
				return err
			}
		}
		for _, u := range units[:n] {
			if err := f.write(u); err != nil {
				return err
			}
		}
		if err := f.write(f.Newline); err != nil {
			return err
		}
		units = units[n:]
		if first {
			first = false
			avail = f.LineLength - utf8.RuneCountInString(f.Indent)
			if avail < 1 {
				avail = 1
			}
		}
	}
	return nil
}

// foldUnits splits line into the pieces folding may break between.
func foldUnits(line string) []string {
	units := make([]string, 0, len(line))
	for i := 0; i < len(line); {
		_, size := utf8.DecodeRuneInString(line[i:])
		end := i + size
		if (line[i] == '\\' || line[i] == '^') && end < len(line) {
			_, next := utf8.DecodeRuneInString(line[end:])
			end += next
		}
		units = append(units, line[i:end])
		i = end
	}
	return units
}

func (f *FoldedLineWriter) write(parts ...string) error {
	for _, p := range parts {
		if _, err := f.w.WriteString(p); err != nil {
			return &ical.IOError{Op: "write", Err: err}
		}
	}
	return nil
}

func (f *FoldedLineWriter) Flush() error {
	if err := f.w.Flush(); err != nil {
		return &ical.IOError{Op: "flush", Err: err}
	}
	return nil
}

// Close flushes and closes the destination when it is an io.Closer.
func (f *FoldedLineWriter) Close() error {
	if err := f.Flush(); err != nil {
		return err
	}
	if c, ok := f.dst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return &ical.IOError{Op: "close", Err: err}
		}
	}
	return nil
}
