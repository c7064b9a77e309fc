// Package scribe holds the type adapters ("scribes") that marshal property
// values to and from the text, xCal and jCal wire shapes, and the Registry
// that resolves a type or wire name to its scribe.
//
// A scribe is stateless. Everything version dependent comes from the
// *ical.Context handed to each call.
package scribe

import (
	"fmt"

	"github.com/dzjyyds666/ical/parse/ical"
)

// PropertyScribe owns the wire shapes of one property type.
type PropertyScribe interface {
	PropertyType() ical.PropertyType
	// PropertyName returns the wire name. p may be nil when only the static
	// name is wanted.
	PropertyName(p ical.Property, v ical.Version) string
	DefaultDataType(v ical.Version) ical.DataType
	DataType(p ical.Property, v ical.Version) ical.DataType
	PrepareParameters(p ical.Property, ctx *ical.Context) ical.Parameters

	WriteText(p ical.Property, ctx *ical.Context) (string, error)
	ParseText(value string, dataType ical.DataType, params ical.Parameters, ctx *ical.Context) (ical.Property, error)
	WriteXML(p ical.Property, el *XCalElement, ctx *ical.Context) error
	ParseXML(el *XCalElement, params ical.Parameters, ctx *ical.Context) (ical.Property, error)
	WriteJSON(p ical.Property, ctx *ical.Context) (*JCalValue, error)
	ParseJSON(v *JCalValue, dataType ical.DataType, params ical.Parameters, ctx *ical.Context) (ical.Property, error)
}

// FuncScribe is a PropertyScribe assembled from a type tag, its wire names
// and a table of conversion functions. The XML and JSON functions are
// optional; when unset they are derived from the text form.
type FuncScribe struct {
	Type          ical.PropertyType
	Name          string
	LegacyName    string
	Default       ical.DataType
	LegacyDefault ical.DataType

	NameFn       func(p ical.Property, v ical.Version) string
	DataTypeFn   func(p ical.Property, v ical.Version) ical.DataType
	ParametersFn func(p ical.Property, params *ical.Parameters, ctx *ical.Context)
	WriteTextFn  func(p ical.Property, ctx *ical.Context) (string, error)
	ParseTextFn  func(value string, dataType ical.DataType, params *ical.Parameters, ctx *ical.Context) (ical.Property, error)
	WriteXMLFn   func(p ical.Property, el *XCalElement, ctx *ical.Context) error
	ParseXMLFn   func(el *XCalElement, params *ical.Parameters, ctx *ical.Context) (ical.Property, error)
	WriteJSONFn  func(p ical.Property, ctx *ical.Context) (*JCalValue, error)
	ParseJSONFn  func(v *JCalValue, dataType ical.DataType, params *ical.Parameters, ctx *ical.Context) (ical.Property, error)
}

func (s *FuncScribe) PropertyType() ical.PropertyType {
	return s.Type
}

func (s *FuncScribe) PropertyName(p ical.Property, v ical.Version) string {
	if s.NameFn != nil {
		return s.NameFn(p, v)
	}
	if v.IsLegacy() && s.LegacyName != "" {
		return s.LegacyName
	}
	return s.Name
}

func (s *FuncScribe) DefaultDataType(v ical.Version) ical.DataType {
	if v.IsLegacy() && s.LegacyDefault != ical.DataTypeNone {
		return s.LegacyDefault
	}
	return s.Default
}

func (s *FuncScribe) DataType(p ical.Property, v ical.Version) ical.DataType {
	if s.DataTypeFn != nil {
		return s.DataTypeFn(p, v)
	}
	return s.DefaultDataType(v)
}

// PrepareParameters returns a copy of p's parameters with the scribe's
// side-channel metadata applied. p itself is not modified.
func (s *FuncScribe) PrepareParameters(p ical.Property, ctx *ical.Context) ical.Parameters {
	params := p.Parameters().Clone()
	if s.ParametersFn != nil {
		s.ParametersFn(p, &params, ctx)
	}
	return params
}

func (s *FuncScribe) WriteText(p ical.Property, ctx *ical.Context) (string, error) {
	if s.WriteTextFn == nil {
		return "", fmt.Errorf("scribe %s: no text writer", s.Type)
	}
	return s.WriteTextFn(p, ctx)
}

func (s *FuncScribe) ParseText(value string, dataType ical.DataType, params ical.Parameters, ctx *ical.Context) (ical.Property, error) {
	if s.ParseTextFn == nil {
		return nil, fmt.Errorf("scribe %s: no text parser", s.Type)
	}
	own := params.Clone()
	p, err := s.ParseTextFn(value, dataType, &own, ctx)
	if err != nil {
		return nil, err
	}
	*p.Parameters() = own
	return p, nil
}

func (s *FuncScribe) WriteXML(p ical.Property, el *XCalElement, ctx *ical.Context) error {
	if s.WriteXMLFn != nil {
		return s.WriteXMLFn(p, el, ctx)
	}
	value, err := s.WriteText(p, ctx)
	if err != nil {
		return err
	}
	dt := s.DataType(p, ctx.Version)
	if dt == ical.DataTypeNone {
		dt = ical.DataTypeUnknown
	}
	el.Append(string(dt), value)
	return nil
}

func (s *FuncScribe) ParseXML(el *XCalElement, params ical.Parameters, ctx *ical.Context) (ical.Property, error) {
	own := params.Clone()
	var (
		p   ical.Property
		err error
	)
	if s.ParseXMLFn != nil {
		p, err = s.ParseXMLFn(el, &own, ctx)
	} else {
		dt := s.DefaultDataType(ctx.Version)
		value, ok := el.First(string(dt))
		if !ok {
			child := el.FirstValueChild()
			if child == nil {
				return nil, ical.MissingElements(string(dt))
			}
			dt, value = ical.ParseDataType(child.Name), child.Text
		}
		if s.ParseTextFn == nil {
			return nil, fmt.Errorf("scribe %s: no text parser", s.Type)
		}
		p, err = s.ParseTextFn(value, dt, &own, ctx)
	}
	if err != nil {
		return nil, err
	}
	*p.Parameters() = own
	return p, nil
}

func (s *FuncScribe) WriteJSON(p ical.Property, ctx *ical.Context) (*JCalValue, error) {
	if s.WriteJSONFn != nil {
		return s.WriteJSONFn(p, ctx)
	}
	value, err := s.WriteText(p, ctx)
	if err != nil {
		return nil, err
	}
	return SingleValue(value), nil
}

func (s *FuncScribe) ParseJSON(v *JCalValue, dataType ical.DataType, params ical.Parameters, ctx *ical.Context) (ical.Property, error) {
	own := params.Clone()
	var (
		p   ical.Property
		err error
	)
	switch {
	case s.ParseJSONFn != nil:
		p, err = s.ParseJSONFn(v, dataType, &own, ctx)
	case s.ParseTextFn != nil:
		p, err = s.ParseTextFn(v.AsSingle(), dataType, &own, ctx)
	default:
		return nil, fmt.Errorf("scribe %s: no json parser", s.Type)
	}
	if err != nil {
		return nil, err
	}
	*p.Parameters() = own
	return p, nil
}

// =========================
// Components
// =========================

// ComponentScribe maps a component type to its BEGIN/END name.
type ComponentScribe struct {
	Type ical.ComponentType
	Name string
}

func (s *ComponentScribe) NewComponent() *ical.Component {
	return ical.NewComponent(s.Type)
}

// ComponentName returns the wire name of c, which for raw components is
// their own name.
func (s *ComponentScribe) ComponentName(c *ical.Component) string {
	if c.Type == ical.ComponentRaw {
		return c.Name
	}
	return s.Name
}
