package xcal

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

// Reader reads the calendars of an xCal document. The whole document is
// decoded on the first ReadNext.
type Reader struct {
	src      io.Reader
	cfg      stream.Config
	roots    []*node
	decoded  bool
	warnings []ical.Warning
}

func NewReader(r io.Reader, opts ...stream.Option) *Reader {
	return &Reader{src: r, cfg: stream.NewConfig(opts...)}
}

func (r *Reader) decode() error {
	r.decoded = true
	var doc node
	if err := xml.NewDecoder(r.src).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("xcal: %w", err)
	}
	if doc.name() != elemRoot || doc.XMLName.Space != Namespace {
		return ErrNotXCal
	}
	for _, c := range doc.Children {
		if c.XMLName.Space != Namespace {
			return fmt.Errorf("%w: <%s> is outside %s", ErrNotXCal, c.XMLName.Local, Namespace)
		}
	}
	r.roots = doc.Children
	return nil
}

// ReadNext returns the next calendar, or io.EOF.
func (r *Reader) ReadNext() (*ical.Component, error) {
	r.warnings = nil
	if !r.decoded {
		if err := r.decode(); err != nil {
			return nil, err
		}
	}
	if len(r.roots) == 0 {
		return nil, io.EOF
	}
	n := r.roots[0]
	r.roots = r.roots[1:]

	ctx := ical.NewContext(ical.V2_0, r.cfg.Timezones)
	defer func() { r.warnings = ctx.Warnings() }()
	return r.component(n, ctx)
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

func (r *Reader) component(n *node, ctx *ical.Context) (*ical.Component, error) {
	c := r.cfg.NewComponent(strings.ToUpper(n.name()))
	if props := n.child(elemProperties); props != nil {
		for _, pn := range props.Children {
			if err := r.property(pn, c, ctx); err != nil {
				return nil, err
			}
		}
	}
	if comps := n.child(elemComponents); comps != nil {
		for _, cn := range comps.Children {
			child, err := r.component(cn, ctx)
			if err != nil {
				return nil, err
			}
			c.AddComponent(child)
		}
	}
	return c, nil
}

func (r *Reader) property(n *node, parent *ical.Component, ctx *ical.Context) error {
	ctx.Parent = parent
	name := strings.ToUpper(n.name())
	params := parameters(n)

	s, ok := r.cfg.Registry.PropertyByName(name, ctx.Version)
	if !ok {
		parent.AddProperty(rawProperty(name, n, params))
		r.cfg.Observer.PropertyRead(name)
		return nil
	}
	p, err := s.ParseXML(toElement(n), params, ctx)
	if err != nil {
		if errors.Is(err, ical.ErrSkipProperty) {
			return nil
		}
		keepRaw, err := r.cfg.ParseFailed(ctx, 0, name, err)
		if err != nil {
			return err
		}
		if keepRaw {
			parent.AddProperty(rawProperty(name, n, params))
		}
		return nil
	}
	r.cfg.AddParsed(parent, name, p, ctx)
	return nil
}

// parameters reads the <parameters> block. Each parameter holds one value
// element per value.
func parameters(n *node) ical.Parameters {
	var params ical.Parameters
	block := n.child(elemParameters)
	if block == nil {
		return params
	}
	for _, pn := range block.Children {
		name := strings.ToUpper(pn.name())
		if len(pn.Children) == 0 {
			params.Put(name, pn.text())
			continue
		}
		for _, v := range pn.Children {
			params.Put(name, v.Text)
		}
	}
	return params
}

// rawProperty keeps the first value element; its name is the data type.
func rawProperty(name string, n *node, params ical.Parameters) *ical.Raw {
	raw := scribe.NewRawProperty(name, "", params)
	for _, v := range n.Children {
		if v.name() == elemParameters {
			continue
		}
		raw.Value = v.Text
		if dt := ical.ParseDataType(v.name()); dt != ical.DataTypeUnknown {
			raw.DataType = dt
		}
		break
	}
	return raw
}

// ParseAll reads every calendar of r.
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

// ParseString reads the first calendar of s.
func ParseString(s string, opts ...stream.Option) (*ical.Component, error) {
	return NewReader(strings.NewReader(s), opts...).ReadNext()
}
