// Package xcal reads and writes xCal, the XML representation of iCalendar
// (RFC 6321). xCal only exists for version 2.0.
package xcal

import (
	"encoding/xml"
	"errors"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical/scribe"
)

// Namespace is the xCal XML namespace.
const Namespace = "urn:ietf:params:xml:ns:icalendar-2.0"

const (
	elemRoot       = "icalendar"
	elemProperties = "properties"
	elemComponents = "components"
	elemParameters = "parameters"
	elemText       = "text"
	elemUnknown    = "unknown"
)

var ErrNotXCal = errors.New("xcal: not an <icalendar> document in the xCal namespace")

// node is a generic element; xCal has no mixed content.
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []*node `xml:",any"`
}

func newNode(name string) *node {
	return &node{XMLName: xml.Name{Local: name}}
}

func (n *node) name() string {
	return strings.ToLower(n.XMLName.Local)
}

func (n *node) add(child *node) *node {
	n.Children = append(n.Children, child)
	return child
}

func (n *node) child(name string) *node {
	for _, c := range n.Children {
		if c.name() == name {
			return c
		}
	}
	return nil
}

func (n *node) text() string {
	return strings.TrimSpace(n.Text)
}

// fromElement converts a scribe's value tree into element nodes.
func fromElement(el *scribe.XCalElement) *node {
	n := newNode(el.Name)
	n.Text = el.Text
	for _, c := range el.Children {
		n.add(fromElement(c))
	}
	return n
}

// toElement converts a property node into the scribe's value tree, leaving
// out the parameters block.
func toElement(n *node) *scribe.XCalElement {
	el := scribe.NewXCalElement(n.name())
	if len(n.Children) == 0 {
		el.Text = n.Text
	}
	for _, c := range n.Children {
		if c.name() == elemParameters {
			continue
		}
		el.Children = append(el.Children, toElement(c))
	}
	return el
}
