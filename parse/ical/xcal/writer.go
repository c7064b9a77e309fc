package xcal

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

// Writer writes component trees as the calendars of one <icalendar>
// document. The document is closed by Close.
//
// The root declares the xCal namespace as the default namespace and every
// other element is written unqualified, so the whole tree inherits it.
type Writer struct {
	dst     io.Writer
	buf     *bufio.Writer
	cfg     stream.Config
	started bool
	closed  bool
}

func NewWriter(w io.Writer, opts ...stream.Option) *Writer {
	return &Writer{dst: w, buf: bufio.NewWriter(w), cfg: stream.NewConfig(opts...)}
}

func (w *Writer) start() {
	if w.started {
		return
	}
	w.started = true
	w.buf.WriteString(xml.Header)
	w.buf.WriteString("<" + elemRoot + ` xmlns="` + Namespace + `">`)
}

func (w *Writer) indent(depth int) {
	if !w.cfg.Pretty {
		return
	}
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat("  ", depth))
}

func (w *Writer) encode(n *node, depth int) error {
	w.indent(depth)
	w.buf.WriteString("<" + n.XMLName.Local + ">")
	if err := xml.EscapeText(w.buf, []byte(n.Text)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := w.encode(c, depth+1); err != nil {
			return err
		}
	}
	if len(n.Children) > 0 {
		w.indent(depth)
	}
	_, err := w.buf.WriteString("</" + n.XMLName.Local + ">")
	return err
}

// Write appends root to the document. Nothing is written when a type in
// the tree has no scribe.
func (w *Writer) Write(root *ical.Component) error {
	if err := w.cfg.CheckScribes(root); err != nil {
		return err
	}
	ctx := ical.NewContext(ical.V2_0, w.cfg.Timezones)
	n, err := w.component(root, ctx)
	if err != nil {
		return err
	}
	w.start()
	if err := w.encode(n, 1); err != nil {
		return &ical.IOError{Op: "write", Err: err}
	}
	return w.Flush()
}

func (w *Writer) component(c *ical.Component, ctx *ical.Context) (*node, error) {
	name, err := w.cfg.ComponentName(c)
	if err != nil {
		return nil, err
	}
	n := newNode(strings.ToLower(name))

	props := newNode(elemProperties)
	for _, p := range stream.Properties(c, ctx.Version) {
		ctx.Parent = c
		pn, err := w.property(p, ctx)
		if err != nil {
			return nil, err
		}
		if pn != nil {
			props.add(pn)
		}
	}
	if len(props.Children) > 0 {
		n.add(props)
	}

	children := w.cfg.Children(c)
	if len(children) > 0 {
		comps := n.add(newNode(elemComponents))
		for _, ch := range children {
			cn, err := w.component(ch, ctx)
			if err != nil {
				return nil, err
			}
			comps.add(cn)
		}
	}
	return n, nil
}

func (w *Writer) property(p ical.Property, ctx *ical.Context) (*node, error) {
	prep, err := w.cfg.Prepare(p, ctx)
	if err != nil {
		return nil, err
	}
	value := scribe.NewXCalElement(strings.ToLower(prep.Name))
	if err := prep.Scribe.WriteXML(p, value, ctx); err != nil {
		if w.cfg.Skipped(prep.Name, err) {
			return nil, nil
		}
		return nil, err
	}

	n := newNode(strings.ToLower(prep.Name))
	if params := w.parameters(prep.Name, prep.Params); params != nil {
		n.add(params)
	}
	for _, c := range value.Children {
		n.add(fromElement(c))
	}
	w.cfg.Observer.PropertyWritten(prep.Name)
	return n, nil
}

// parameters builds the <parameters> block. The data type is carried by the
// value element, so VALUE is never written.
func (w *Writer) parameters(property string, params ical.Parameters) *node {
	params.Remove(ical.ParamValue)
	if params.Len() == 0 {
		return nil
	}
	block := newNode(elemParameters)
	for _, name := range params.Names() {
		if name == "" {
			w.cfg.Logger.Debug().Str("property", property).Msg("nameless parameter has no xCal form, dropped")
			continue
		}
		pn := block.add(newNode(strings.ToLower(name)))
		for _, v := range params.GetAll(name) {
			pn.add(&node{XMLName: xml.Name{Local: elemText}, Text: v})
		}
	}
	if len(block.Children) == 0 {
		return nil
	}
	return block
}

func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return &ical.IOError{Op: "flush", Err: err}
	}
	return nil
}

// Close ends the document and closes the destination when it is an
// io.Closer. An empty document is still well formed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	empty := !w.started
	w.start()
	if !empty {
		w.indent(0)
	}
	w.buf.WriteString("</" + elemRoot + ">")
	if err := w.Flush(); err != nil {
		return err
	}
	if c, ok := w.dst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return &ical.IOError{Op: "close", Err: err}
		}
	}
	return nil
}

// WriteString renders calendars as one document.
func WriteString(roots []*ical.Component, opts ...stream.Option) (string, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, opts...)
	for _, root := range roots {
		if err := w.Write(root); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
