package jcal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

var ErrMalformed = errors.New("jcal: malformed document")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Reader reads a stream of JSON values, each either one component or an
// array of components.
type Reader struct {
	src      io.Reader
	dec      *json.Decoder
	cfg      stream.Config
	pending  [][]any
	warnings []ical.Warning
}

func NewReader(r io.Reader, opts ...stream.Option) *Reader {
	return &Reader{src: r, dec: json.NewDecoder(r), cfg: stream.NewConfig(opts...)}
}

func (r *Reader) next() ([]any, error) {
	for len(r.pending) == 0 {
		var v []any
		if err := r.dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("jcal: %w", err)
		}
		if len(v) == 0 {
			continue
		}
		if _, ok := v[0].(string); ok {
			r.pending = append(r.pending, v)
			continue
		}
		for _, item := range v {
			comp, ok := item.([]any)
			if !ok {
				return nil, malformed("expected a component array, got %T", item)
			}
			r.pending = append(r.pending, comp)
		}
	}
	v := r.pending[0]
	r.pending = r.pending[1:]
	return v, nil
}

// ReadNext returns the next root component, or io.EOF.
func (r *Reader) ReadNext() (*ical.Component, error) {
	r.warnings = nil
	v, err := r.next()
	if err != nil {
		return nil, err
	}
	ctx := ical.NewContext(ical.V2_0, r.cfg.Timezones)
	defer func() { r.warnings = ctx.Warnings() }()
	return r.component(v, ctx)
}

func (r *Reader) Warnings() []ical.Warning {
	return append([]ical.Warning(nil), r.warnings...)
}

// Close closes the source when it is an io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return &ical.IOError{Op: "close", Err: err}
		}
	}
	return nil
}

func (r *Reader) component(v []any, ctx *ical.Context) (*ical.Component, error) {
	if len(v) < 1 {
		return nil, malformed("empty component")
	}
	name, ok := v[0].(string)
	if !ok {
		return nil, malformed("component name is %T", v[0])
	}
	c := r.cfg.NewComponent(strings.ToUpper(name))

	if len(v) > 1 {
		props, ok := v[1].([]any)
		if !ok {
			return nil, malformed("%s: properties are %T", name, v[1])
		}
		for _, pv := range props {
			arr, ok := pv.([]any)
			if !ok {
				return nil, malformed("%s: property is %T", name, pv)
			}
			if err := r.property(arr, c, ctx); err != nil {
				return nil, err
			}
		}
	}
	if len(v) > 2 {
		comps, ok := v[2].([]any)
		if !ok {
			return nil, malformed("%s: components are %T", name, v[2])
		}
		for _, cv := range comps {
			arr, ok := cv.([]any)
			if !ok {
				return nil, malformed("%s: component is %T", name, cv)
			}
			child, err := r.component(arr, ctx)
			if err != nil {
				return nil, err
			}
			c.AddComponent(child)
		}
	}
	return c, nil
}

func (r *Reader) property(v []any, parent *ical.Component, ctx *ical.Context) error {
	if len(v) < 3 {
		return malformed("property needs a name, parameters and a type")
	}
	name, ok := v[0].(string)
	if !ok {
		return malformed("property name is %T", v[0])
	}
	name = strings.ToUpper(name)
	params, err := parameters(v[1])
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	typ, _ := v[2].(string)
	dt := ical.ParseDataType(typ)
	value := scribe.NewJCalValue(v[3:])
	ctx.Parent = parent

	s, ok := r.cfg.Registry.PropertyByName(name, ctx.Version)
	if !ok {
		parent.AddProperty(rawProperty(name, dt, value, params))
		r.cfg.Observer.PropertyRead(name)
		return nil
	}
	if dt == ical.DataTypeUnknown || dt == ical.DataTypeNone {
		dt = s.DefaultDataType(ctx.Version)
	}
	p, err := s.ParseJSON(value, dt, params, ctx)
	if err != nil {
		if errors.Is(err, ical.ErrSkipProperty) {
			return nil
		}
		keepRaw, err := r.cfg.ParseFailed(ctx, 0, name, err)
		if err != nil {
			return err
		}
		if keepRaw {
			parent.AddProperty(rawProperty(name, dt, value, params))
		}
		return nil
	}
	r.cfg.AddParsed(parent, name, p, ctx)
	return nil
}

func parameters(v any) (ical.Parameters, error) {
	var params ical.Parameters
	m, ok := v.(map[string]any)
	if !ok {
		return params, malformed("parameters are %T", v)
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		switch t := m[k].(type) {
		case []any:
			for _, x := range t {
				params.Put(k, fmt.Sprint(x))
			}
		case string:
			params.Put(k, t)
		default:
			params.Put(k, fmt.Sprint(t))
		}
	}
	return params, nil
}

// rawProperty joins the value members with commas, the text form of a
// multi-valued property.
func rawProperty(name string, dt ical.DataType, value *scribe.JCalValue, params ical.Parameters) *ical.Raw {
	raw := scribe.NewRawProperty(name, strings.Join(value.AsMulti(), ","), params)
	if dt != ical.DataTypeUnknown {
		raw.DataType = dt
	}
	return raw
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
