package stream

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/convert"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
)

// =========================
// Writing
// =========================

// CheckScribes is the whole-tree precondition of every writer: each type in
// root and in the generated timezones must have a scribe.
func (c *Config) CheckScribes(root *ical.Component) error {
	missing := map[string]struct{}{}
	for _, t := range c.Registry.Unscribed(root) {
		missing[t] = struct{}{}
	}
	if c.Timezones != nil {
		for _, tz := range c.Timezones.Generated() {
			for _, t := range c.Registry.Unscribed(tz) {
				missing[t] = struct{}{}
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	types := make([]string, 0, len(missing))
	for t := range missing {
		types = append(types, t)
	}
	sort.Strings(types)
	return &ical.UnscribedTypesError{Types: types}
}

// Properties returns what to write for comp. A calendar without a VERSION
// gets one first.
func Properties(comp *ical.Component, v ical.Version) []ical.Property {
	props := comp.Properties()
	if comp.Type == ical.ComponentCalendar && comp.Property(ical.TypeVersion) == nil {
		props = append([]ical.Property{ical.NewVersionProperty(v)}, props...)
	}
	return props
}

// Children returns the child components of comp, plus for a calendar the
// generated VTIMEZONEs it does not already hold.
func (c *Config) Children(comp *ical.Component) []*ical.Component {
	children := comp.Components()
	if comp.Type != ical.ComponentCalendar || c.Timezones == nil {
		return children
	}
	for _, tz := range c.Timezones.Generated() {
		if !comp.HasComponent(tz) {
			children = append(children, tz)
		}
	}
	return children
}

// ComponentName resolves the BEGIN/END name of comp.
func (c *Config) ComponentName(comp *ical.Component) (string, error) {
	if comp.Type == ical.ComponentRaw {
		return comp.Name, nil
	}
	cs, ok := c.Registry.Component(comp.Type)
	if !ok {
		return "", &ical.UnscribedTypesError{Types: []string{string(comp.Type)}}
	}
	return cs.ComponentName(comp), nil
}

// Prepared is a property ready to be put on the wire.
type Prepared struct {
	Name     string
	Params   ical.Parameters
	DataType ical.DataType
	// Explicit is set when DataType differs from the scribe default and
	// must be written.
	Explicit bool
	Scribe   scribe.PropertyScribe
}

// Prepare resolves the scribe, name, parameters and data type of p.
func (c *Config) Prepare(p ical.Property, ctx *ical.Context) (*Prepared, error) {
	s, ok := c.Registry.Property(p.PropertyType())
	if !ok {
		return nil, &ical.UnscribedTypesError{Types: []string{string(p.PropertyType())}}
	}
	out := &Prepared{
		Name:     s.PropertyName(p, ctx.Version),
		Params:   s.PrepareParameters(p, ctx),
		DataType: s.DataType(p, ctx.Version),
		Scribe:   s,
	}
	out.Explicit = out.DataType != ical.DataTypeNone &&
		out.DataType != ical.DataTypeUnknown &&
		out.DataType != s.DefaultDataType(ctx.Version)
	return out, nil
}

// Skipped reports whether err is the skip signal, recording the skip.
func (c *Config) Skipped(name string, err error) bool {
	if !errors.Is(err, ical.ErrSkipProperty) {
		return false
	}
	c.Logger.Debug().Str("property", name).Msg("property skipped")
	c.Observer.PropertySkipped(name, "skip")
	return true
}

// DaylightYears picks the years VTIMEZONE rules are flattened over for
// 1.0: the configured range, else the year of the first DTSTART outside a
// timezone, else the current year.
func (c *Config) DaylightYears(root *ical.Component) (int, int) {
	if c.DaylightFrom != 0 || c.DaylightTo != 0 {
		from, to := c.DaylightFrom, c.DaylightTo
		if from == 0 {
			from = to
		}
		if to == 0 {
			to = from
		}
		return from, to
	}
	year := 0
	var find func(*ical.Component)
	find = func(comp *ical.Component) {
		if year != 0 || comp.Type == ical.ComponentTimezone {
			return
		}
		if d, ok := comp.Property(ical.TypeDateStart).(*ical.DateTime); ok {
			year = d.Value.Year()
			return
		}
		for _, ch := range comp.Components() {
			find(ch)
		}
	}
	if root != nil {
		find(root)
	}
	if year == 0 {
		year = time.Now().Year()
	}
	return year, year
}

// =========================
// Reading
// =========================

// NewComponent builds the component for a BEGIN name, raw when unknown.
func (c *Config) NewComponent(name string) *ical.Component {
	if cs, ok := c.Registry.ComponentByName(name); ok {
		return cs.NewComponent()
	}
	return ical.NewRawComponent(name)
}

// ParseFailed applies the parse error policy to err, raised while parsing
// the property called name. It returns true when the caller should keep the
// property raw, or a non-nil error when the read must stop.
func (c *Config) ParseFailed(ctx *ical.Context, lineNum int, name string, err error) (bool, error) {
	var (
		cp *ical.CannotParseError
		me *ical.MissingElementsError
	)
	if !errors.As(err, &cp) && !errors.As(err, &me) {
		return false, err
	}
	switch c.OnParseError {
	case ical.ParseErrorFail:
		if lineNum > 0 {
			return false, fmt.Errorf("line %d: %s: %w", lineNum, name, err)
		}
		return false, fmt.Errorf("%s: %w", name, err)
	case ical.ParseErrorRaw:
		c.warn(ctx, lineNum, name, err)
		return true, nil
	default:
		c.warn(ctx, lineNum, name, err)
		c.Observer.PropertySkipped(name, "unparseable")
		return false, nil
	}
}

func (c *Config) warn(ctx *ical.Context, lineNum int, name string, err error) {
	w := ical.Warning{LineNum: lineNum, Property: name, Err: err}
	ctx.Warn(w)
	c.Logger.Warn().Int("line", lineNum).Str("property", name).Err(err).Msg("property not parsed")
}

// Outside records a property met before any BEGIN.
func (c *Config) Outside(ctx *ical.Context, lineNum int, name string) {
	ctx.Warn(ical.Warning{LineNum: lineNum, Property: name, Err: ical.ErrPropertyOutsideOfBlock})
	c.Logger.Warn().Int("line", lineNum).Str("property", name).Msg("property outside of a component")
}

// AddParsed attaches p to parent, rewriting the 1.0 shapes into their 2.0
// equivalents: vCal alarm properties become VALARM components and an
// ATTENDEE with ROLE=ORGANIZER becomes ORGANIZER.
func (c *Config) AddParsed(parent *ical.Component, name string, p ical.Property, ctx *ical.Context) {
	c.Observer.PropertyRead(name)
	if ctx.Version.IsLegacy() {
		switch t := p.(type) {
		case *ical.VCalAlarm:
			parent.AddComponent(convert.VCalToAlarm(t))
			c.Observer.ComponentConverted(name, "VALARM")
			return
		case *ical.Attendee:
			if convert.IsOrganizer(t) {
				parent.AddProperty(convert.AttendeeToOrganizer(t))
				c.Observer.ComponentConverted(name, "ORGANIZER")
				return
			}
		}
	}
	parent.AddProperty(p)
}

// Finish sets the declared version on a root calendar.
func Finish(root *ical.Component, declared bool, v ical.Version) {
	if root == nil || !declared || root.Type != ical.ComponentCalendar {
		return
	}
	root.PrependProperty(ical.NewVersionProperty(v))
}
