// Package jcal reads and writes jCal, the JSON representation of iCalendar
// (RFC 7265). jCal only exists for version 2.0.
//
// A component is ["name", [properties], [components]] and a property is
// ["name", {parameters}, "type", value, ...].
package jcal

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

// Writer writes each component tree as one JSON value.
type Writer struct {
	dst io.Writer
	enc *json.Encoder
	cfg stream.Config
}

func NewWriter(w io.Writer, opts ...stream.Option) *Writer {
	cfg := stream.NewConfig(opts...)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return &Writer{dst: w, enc: enc, cfg: cfg}
}

// Write writes root. Nothing is written when a type in the tree has no
// scribe.
func (w *Writer) Write(root *ical.Component) error {
	if err := w.cfg.CheckScribes(root); err != nil {
		return err
	}
	ctx := ical.NewContext(ical.V2_0, w.cfg.Timezones)
	v, err := w.component(root, ctx)
	if err != nil {
		return err
	}
	if err := w.enc.Encode(v); err != nil {
		return &ical.IOError{Op: "write", Err: err}
	}
	return nil
}

func (w *Writer) component(c *ical.Component, ctx *ical.Context) ([]any, error) {
	name, err := w.cfg.ComponentName(c)
	if err != nil {
		return nil, err
	}
	props := []any{}
	for _, p := range stream.Properties(c, ctx.Version) {
		ctx.Parent = c
		pv, err := w.property(p, ctx)
		if err != nil {
			return nil, err
		}
		if pv != nil {
			props = append(props, pv)
		}
	}
	comps := []any{}
	for _, ch := range w.cfg.Children(c) {
		cv, err := w.component(ch, ctx)
		if err != nil {
			return nil, err
		}
		comps = append(comps, cv)
	}
	return []any{strings.ToLower(name), props, comps}, nil
}

func (w *Writer) property(p ical.Property, ctx *ical.Context) ([]any, error) {
	prep, err := w.cfg.Prepare(p, ctx)
	if err != nil {
		return nil, err
	}
	value, err := prep.Scribe.WriteJSON(p, ctx)
	if err != nil {
		if w.cfg.Skipped(prep.Name, err) {
			return nil, nil
		}
		return nil, err
	}

	dt := prep.DataType
	if dt == ical.DataTypeNone {
		dt = ical.DataTypeUnknown
	}
	out := []any{strings.ToLower(prep.Name), w.parameters(prep.Name, prep.Params), string(dt)}
	out = append(out, value.Values()...)
	w.cfg.Observer.PropertyWritten(prep.Name)
	return out, nil
}

// parameters builds the parameter object. Single values are strings,
// repeated values arrays.
func (w *Writer) parameters(property string, params ical.Parameters) map[string]any {
	out := map[string]any{}
	params.Remove(ical.ParamValue)
	for _, name := range params.Names() {
		if name == "" {
			w.cfg.Logger.Debug().Str("property", property).Msg("nameless parameter has no jCal form, dropped")
			continue
		}
		vs := params.GetAll(name)
		if len(vs) == 1 {
			out[strings.ToLower(name)] = vs[0]
			continue
		}
		out[strings.ToLower(name)] = vs
	}
	return out
}

// Close closes the destination when it is an io.Closer.
func (w *Writer) Close() error {
	if c, ok := w.dst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return &ical.IOError{Op: "close", Err: err}
		}
	}
	return nil
}

// WriteString renders one tree.
func WriteString(root *ical.Component, opts ...stream.Option) (string, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, opts...).Write(root); err != nil {
		return "", err
	}
	return buf.String(), nil
}
