package text

import (
	"errors"
	"io"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

// Reader reads component trees, one root component per ReadNext.
type Reader struct {
	raw      *RawReader
	cfg      stream.Config
	warnings []ical.Warning
}

func NewReader(r io.Reader, opts ...stream.Option) *Reader {
	cfg := stream.NewConfig(opts...)
	raw := NewRawReader(r)
	raw.SetVersion(cfg.InitialVersion)
	raw.SetCaretDecoding(cfg.CaretDecoding)
	return &Reader{raw: raw, cfg: cfg}
}

// Warnings returns the problems met by the last ReadNext.
func (r *Reader) Warnings() []ical.Warning {
	return append([]ical.Warning(nil), r.warnings...)
}

// Version is the version in effect after the last line read.
func (r *Reader) Version() ical.Version {
	return r.raw.Version()
}

func (r *Reader) Encoding() string {
	return r.raw.Encoding()
}

func (r *Reader) Close() error {
	return r.raw.Close()
}

// ReadNext reads the next root component. It returns io.EOF when the
// stream holds no further component. A stream that ends inside a component
// yields what was read so far.
func (r *Reader) ReadNext() (*ical.Component, error) {
	r.warnings = nil
	r.raw.ResetDeclared()
	ctx := ical.NewContext(r.raw.Version(), r.cfg.Timezones)
	defer func() { r.warnings = ctx.Warnings() }()

	var (
		root  *ical.Component
		open  []*ical.Component
		names []string
	)
	for {
		line, err := r.raw.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ctx.Version = r.raw.Version()

		switch strings.ToUpper(line.Name) {
		case "BEGIN":
			name := strings.ToUpper(strings.TrimSpace(line.Value))
			c := r.cfg.NewComponent(name)
			if len(open) == 0 {
				root = c
			} else {
				open[len(open)-1].AddComponent(c)
			}
			open = append(open, c)
			names = append(names, name)
			continue

		case "END":
			name := strings.ToUpper(strings.TrimSpace(line.Value))
			i := lastIndex(names, name)
			if i < 0 {
				r.cfg.Logger.Debug().Int("line", line.LineNum).Str("component", name).Msg("unmatched END ignored")
				continue
			}
			open, names = open[:i], names[:i]
			if len(open) == 0 {
				stream.Finish(root, r.raw.Declared(), r.raw.Version())
				return root, nil
			}
			continue
		}

		if len(open) == 0 {
			r.cfg.Outside(ctx, line.LineNum, line.Name)
			continue
		}
		if err := r.readProperty(line, open[len(open)-1], ctx); err != nil {
			return nil, err
		}
	}

	if root == nil {
		return nil, io.EOF
	}
	stream.Finish(root, r.raw.Declared(), r.raw.Version())
	return root, nil
}

func (r *Reader) readProperty(line *RawLine, parent *ical.Component, ctx *ical.Context) error {
	ctx.Parent = parent
	s, ok := r.cfg.Registry.PropertyByName(line.Name, ctx.Version)
	if !ok {
		parent.AddProperty(scribe.NewRawProperty(line.Name, line.Value, line.Params))
		r.cfg.Observer.PropertyRead(line.Name)
		return nil
	}

	params := line.Params.Clone()
	dt := params.DataType()
	params.Remove(ical.ParamValue)
	if dt == ical.DataTypeNone {
		dt = s.DefaultDataType(ctx.Version)
	}

	p, err := s.ParseText(line.Value, dt, params, ctx)
	if err != nil {
		if errors.Is(err, ical.ErrSkipProperty) {
			return nil
		}
		keepRaw, err := r.cfg.ParseFailed(ctx, line.LineNum, line.Name, err)
		if err != nil {
			return err
		}
		if keepRaw {
			parent.AddProperty(scribe.NewRawProperty(line.Name, line.Value, line.Params))
		}
		return nil
	}
	r.cfg.AddParsed(parent, line.Name, p, ctx)
	return nil
}

func lastIndex(names []string, name string) int {
	for i := len(names) - 1; i >= 0; i-- {
		if names[i] == name {
			return i
		}
	}
	return -1
}

// ParseAll reads every root component of r.
func ParseAll(r io.Reader, opts ...stream.Option) ([]*ical.Component, error) {
	rd := NewReader(r, opts...)
	var out []*ical.Component
	for {
		c, err := rd.ReadNext()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
}

// ParseString reads the first root component of s.
func ParseString(s string, opts ...stream.Option) (*ical.Component, error) {
	return NewReader(strings.NewReader(s), opts...).ReadNext()
}
