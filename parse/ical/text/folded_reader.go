// Package text reads and writes the line-oriented iCalendar and vCalendar
// text formats.
package text

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dzjyyds666/ical/parse/ical"
)

const (
	EncodingUTF8    = "UTF-8"
	EncodingUTF16LE = "UTF-16LE"
	EncodingUTF16BE = "UTF-16BE"
)

// FoldedLineReader unfolds physical lines into logical lines. A physical
// line starting with one space or tab continues the previous line; that one
// character is dropped.
type FoldedLineReader struct {
	src      io.Reader
	br       *bufio.Reader
	encoding string

	physical   int
	pending    []byte
	hasPending bool
	err        error
}

func NewFoldedLineReader(r io.Reader) *FoldedLineReader {
	f := &FoldedLineReader{src: r}
	br := bufio.NewReader(r)
	head, _ := br.Peek(3)
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		f.encoding = EncodingUTF8
		_, _ = br.Discard(3)
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		f.encoding = EncodingUTF16LE
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		f.encoding = EncodingUTF16BE
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	}
	f.br = br
	return f
}

// Encoding returns the encoding named by the byte-order mark, or "" when
// the stream had none.
func (f *FoldedLineReader) Encoding() string {
	return f.encoding
}

// LineNum is the 1-based number of the last physical line consumed.
func (f *FoldedLineReader) LineNum() int {
	if f.hasPending {
		return f.physical - 1
	}
	return f.physical
}

// ReadLine returns the next logical line. Blank lines are skipped. It
// returns io.EOF when the stream is exhausted.
func (f *FoldedLineReader) ReadLine() (string, error) {
	for {
		var line []byte
		if f.hasPending {
			line, f.hasPending = f.pending, false
		} else {
			if f.err != nil {
				return "", f.err
			}
			var err error
			if line, err = f.readPhysical(); err != nil {
				f.err = err
				return "", err
			}
		}
		if len(line) == 0 {
			continue
		}

		buf := append([]byte(nil), line...)
		for f.err == nil {
			next, err := f.readPhysical()
			if err != nil {
				f.err = err
				break
			}
			if len(next) > 0 && (next[0] == ' ' || next[0] == '\t') {
				buf = append(buf, next[1:]...)
				continue
			}
			f.pending, f.hasPending = next, true
			break
		}
		return string(buf), nil
	}
}

// readPhysical reads up to CRLF, LF or a lone CR.
func (f *FoldedLineReader) readPhysical() ([]byte, error) {
	var line []byte
	for {
		c, err := f.br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(line) > 0 {
					f.physical++
					return line, nil
				}
				return nil, io.EOF
			}
			return nil, &ical.IOError{Op: "read", Err: err}
		}
		switch c {
		case '\n':
			f.physical++
			return line, nil
		case '\r':
			if next, err := f.br.Peek(1); err == nil && next[0] == '\n' {
				_, _ = f.br.Discard(1)
			}
			f.physical++
			return line, nil
		default:
			line = append(line, c)
		}
	}
}

// Close closes the source when it is an io.Closer.
func (f *FoldedLineReader) Close() error {
	if c, ok := f.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return &ical.IOError{Op: "close", Err: err}
		}
	}
	return nil
}
