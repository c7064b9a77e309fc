package text

import (
	"bytes"
	"io"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/convert"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

// Writer writes component trees in the text format of one version.
type Writer struct {
	raw *RawWriter
	cfg stream.Config
	ctx *ical.Context

	daylightFrom, daylightTo int
}

func NewWriter(w io.Writer, v ical.Version, opts ...stream.Option) *Writer {
	cfg := stream.NewConfig(opts...)
	raw := NewRawWriter(w, v)
	raw.SetCaretEncoding(cfg.CaretEncoding)
	raw.Folder().LineLength = cfg.LineLength
	raw.Folder().Indent = cfg.Indent
	raw.Folder().Newline = cfg.Newline
	return &Writer{raw: raw, cfg: cfg}
}

func (w *Writer) Version() ical.Version {
	return w.raw.Version()
}

// Write writes root and its descendants, then flushes. Nothing is written
// when a type in the tree has no scribe.
func (w *Writer) Write(root *ical.Component) error {
	if err := w.cfg.Err(); err != nil {
		return err
	}
	if err := w.cfg.CheckScribes(root); err != nil {
		return err
	}
	w.ctx = ical.NewContext(w.raw.Version(), w.cfg.Timezones)
	w.daylightFrom, w.daylightTo = w.cfg.DaylightYears(root)
	if err := w.writeComponent(root, nil); err != nil {
		return err
	}
	return w.raw.Flush()
}

func (w *Writer) writeComponent(c, parent *ical.Component) error {
	if w.ctx.Version.IsLegacy() {
		switch c.Type {
		case ical.ComponentTimezone:
			// 1.0 has no VTIMEZONE; its rules become DAYLIGHT lines of the parent.
			w.ctx.Parent = parent
			for _, d := range convert.TimezoneToDaylights(c, w.daylightFrom, w.daylightTo) {
				if err := w.writeProperty(d); err != nil {
					return err
				}
			}
			w.cfg.Observer.ComponentConverted("VTIMEZONE", "DAYLIGHT")
			return nil
		case ical.ComponentAlarm:
			w.ctx.Parent = parent
			if a := convert.AlarmToVCal(c, parent); a != nil {
				if err := w.writeProperty(a); err != nil {
					return err
				}
				w.cfg.Observer.ComponentConverted("VALARM", string(a.Kind))
				return nil
			}
			w.cfg.Logger.Debug().Str("action", c.Text(ical.TypeAction)).Msg("alarm has no 1.0 form, dropped")
			w.cfg.Observer.PropertySkipped("VALARM", "no conversion")
			return nil
		}
	}

	name, err := w.cfg.ComponentName(c)
	if err != nil {
		return err
	}
	if err := w.raw.WriteBeginComponent(name); err != nil {
		return err
	}
	for _, p := range stream.Properties(c, w.ctx.Version) {
		w.ctx.Parent = c
		if err := w.writeProperty(p); err != nil {
			return err
		}
	}
	for _, ch := range w.cfg.Children(c) {
		if err := w.writeComponent(ch, c); err != nil {
			return err
		}
	}
	return w.raw.WriteEndComponent(name)
}

func (w *Writer) writeProperty(p ical.Property) error {
	if o, ok := p.(*ical.Organizer); ok && w.ctx.Version.IsLegacy() {
		p = convert.OrganizerToAttendee(o)
	}
	prep, err := w.cfg.Prepare(p, w.ctx)
	if err != nil {
		return err
	}
	value, err := prep.Scribe.WriteText(p, w.ctx)
	if err != nil {
		if w.cfg.Skipped(prep.Name, err) {
			return nil
		}
		return err
	}
	params := prep.Params
	if prep.Explicit {
		params.SetDataType(prep.DataType)
	}
	if err := w.raw.WriteProperty(prep.Name, params, value); err != nil {
		return err
	}
	w.cfg.Observer.PropertyWritten(prep.Name)
	return nil
}

func (w *Writer) Flush() error {
	return w.raw.Flush()
}

func (w *Writer) Close() error {
	return w.raw.Close()
}

// WriteString renders one tree.
func WriteString(root *ical.Component, v ical.Version, opts ...stream.Option) (string, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, v, opts...)
	if err := w.Write(root); err != nil {
		return "", err
	}
	return buf.String(), nil
}
