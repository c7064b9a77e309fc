package scribe

import (
	"strconv"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
)

// VersionScribe writes the version of the active context, so a calendar
// written as 1.0 always declares 1.0.
func VersionScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeVersion,
		Name:    "VERSION",
		Default: ical.DataTypeText,
		WriteTextFn: func(p ical.Property, ctx *ical.Context) (string, error) {
			if ctx.Version != ical.VersionUnknown {
				return ctx.Version.String(), nil
			}
			return p.(*ical.VersionProperty).Version.String(), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			v, ok := ical.ParseVersion(value)
			if !ok {
				return nil, ical.CannotParse(ical.CodeVersion, value)
			}
			return ical.NewVersionProperty(v), nil
		},
	}
}

// TextScribe marshals a property holding one TEXT value.
func TextScribe(t ical.PropertyType, name string) *FuncScribe {
	return &FuncScribe{
		Type:    t,
		Name:    name,
		Default: ical.DataTypeText,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return escapeText(p.(*ical.Text).Value), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return ical.NewText(t, unescapeText(value)), nil
		},
		WriteXMLFn: func(p ical.Property, el *XCalElement, _ *ical.Context) error {
			el.Append(string(ical.DataTypeText), p.(*ical.Text).Value)
			return nil
		},
		ParseXMLFn: func(el *XCalElement, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			v, ok := el.First(string(ical.DataTypeText))
			if !ok {
				return nil, ical.MissingElements(string(ical.DataTypeText))
			}
			return ical.NewText(t, v), nil
		},
		WriteJSONFn: func(p ical.Property, _ *ical.Context) (*JCalValue, error) {
			return SingleValue(p.(*ical.Text).Value), nil
		},
		ParseJSONFn: func(v *JCalValue, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return ical.NewText(t, v.AsSingle()), nil
		},
	}
}

// DateTimeScribe marshals DATE and DATE-TIME properties. When the timezone
// registry assigns a VTIMEZONE to the property, the value is written as
// local time in that zone with a TZID parameter.
func DateTimeScribe(t ical.PropertyType, name, legacyName string) *FuncScribe {
	dataType := func(p ical.Property, _ ical.Version) ical.DataType {
		if d, ok := p.(*ical.DateTime); ok && !d.HasTime {
			return ical.DataTypeDate
		}
		return ical.DataTypeDateTime
	}
	format := func(p ical.Property, ctx *ical.Context, extended bool) string {
		d := p.(*ical.DateTime)
		if tz, ok := ctx.TimezoneFor(p); ok && d.HasTime && !d.Floating {
			if off, ok := ical.OffsetAt(tz, d.Value); ok {
				return ical.FormatDate(d.Value.UTC().Add(off), true, true, extended)
			}
		}
		return ical.FormatDate(d.Value, d.HasTime, d.Floating, extended)
	}
	parse := func(value string, params *ical.Parameters) (ical.Property, error) {
		v, hasTime, floating, err := ical.ParseDate(value)
		if err != nil {
			return nil, ical.CannotParse(ical.CodeDate, value)
		}
		return &ical.DateTime{Kind: t, Value: v, HasTime: hasTime, Floating: floating || (hasTime && params.Tzid() != "")}, nil
	}
	return &FuncScribe{
		Type:       t,
		Name:       name,
		LegacyName: legacyName,
		Default:    ical.DataTypeDateTime,
		DataTypeFn: dataType,
		ParametersFn: func(p ical.Property, params *ical.Parameters, ctx *ical.Context) {
			d := p.(*ical.DateTime)
			if tz, ok := ctx.TimezoneFor(p); ok && d.HasTime && !d.Floating {
				params.SetTzid(tz.Text(ical.TypeTimezoneID))
			}
		},
		WriteTextFn: func(p ical.Property, ctx *ical.Context) (string, error) {
			return format(p, ctx, false), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, params *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return parse(value, params)
		},
		WriteXMLFn: func(p ical.Property, el *XCalElement, ctx *ical.Context) error {
			el.Append(string(dataType(p, ctx.Version)), format(p, ctx, true))
			return nil
		},
		ParseXMLFn: func(el *XCalElement, params *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			if v, ok := el.First(string(ical.DataTypeDateTime)); ok {
				return parse(v, params)
			}
			if v, ok := el.First(string(ical.DataTypeDate)); ok {
				return parse(v, params)
			}
			return nil, ical.MissingElements(string(ical.DataTypeDateTime))
		},
		WriteJSONFn: func(p ical.Property, ctx *ical.Context) (*JCalValue, error) {
			return SingleValue(format(p, ctx, true)), nil
		},
		ParseJSONFn: func(v *JCalValue, _ ical.DataType, params *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return parse(v.AsSingle(), params)
		},
	}
}

// IntegerScribe marshals REPEAT, PRIORITY and SEQUENCE.
func IntegerScribe(t ical.PropertyType, name string) *FuncScribe {
	return &FuncScribe{
		Type:    t,
		Name:    name,
		Default: ical.DataTypeInteger,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return strconv.Itoa(p.(*ical.Integer).Value), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, ical.CannotParse(ical.CodeInteger, value)
			}
			return ical.NewInteger(t, n), nil
		},
		WriteJSONFn: func(p ical.Property, _ *ical.Context) (*JCalValue, error) {
			return SingleValue(p.(*ical.Integer).Value), nil
		},
	}
}

// UTCOffsetScribe marshals TZOFFSETFROM and TZOFFSETTO.
func UTCOffsetScribe(t ical.PropertyType, name string) *FuncScribe {
	write := func(p ical.Property, extended bool) string {
		return ical.FormatOffset(p.(*ical.UTCOffset).Offset, extended)
	}
	return &FuncScribe{
		Type:    t,
		Name:    name,
		Default: ical.DataTypeUTCOffset,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return write(p, false), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			d, err := ical.ParseOffset(value)
			if err != nil {
				return nil, ical.CannotParse(ical.CodeUTCOffset, value)
			}
			return ical.NewUTCOffset(t, d), nil
		},
		WriteXMLFn: func(p ical.Property, el *XCalElement, _ *ical.Context) error {
			el.Append(string(ical.DataTypeUTCOffset), write(p, true))
			return nil
		},
		WriteJSONFn: func(p ical.Property, _ *ical.Context) (*JCalValue, error) {
			return SingleValue(write(p, true)), nil
		},
	}
}

func DurationScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeDuration,
		Name:    "DURATION",
		Default: ical.DataTypeDuration,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return p.(*ical.DurationProperty).Value.String(), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			d, err := ical.ParseDuration(value)
			if err != nil {
				return nil, ical.CannotParse(ical.CodeDuration, value)
			}
			return ical.NewDurationProperty(d), nil
		},
	}
}

// TriggerScribe marshals TRIGGER, which holds either a DURATION relative to
// its parent or an absolute DATE-TIME.
func TriggerScribe() *FuncScribe {
	parse := func(value string, dt ical.DataType) (ical.Property, error) {
		v := strings.TrimSpace(value)
		if dt != ical.DataTypeDateTime && looksLikeDuration(v) {
			d, err := ical.ParseDuration(v)
			if err != nil {
				return nil, ical.CannotParse(ical.CodeTrigger, value)
			}
			return &ical.Trigger{Duration: &d}, nil
		}
		at, hasTime, _, err := ical.ParseDate(v)
		if err != nil || !hasTime {
			return nil, ical.CannotParse(ical.CodeTrigger, value)
		}
		return &ical.Trigger{Date: &at}, nil
	}
	write := func(p ical.Property, extended bool) (string, error) {
		t := p.(*ical.Trigger)
		switch {
		case t.Date != nil:
			return ical.FormatDate(*t.Date, true, false, extended), nil
		case t.Duration != nil:
			return t.Duration.String(), nil
		default:
			return "", ical.ErrSkipProperty
		}
	}
	dataType := func(p ical.Property, _ ical.Version) ical.DataType {
		if t, ok := p.(*ical.Trigger); ok && t.Date != nil {
			return ical.DataTypeDateTime
		}
		return ical.DataTypeDuration
	}
	return &FuncScribe{
		Type:       ical.TypeTrigger,
		Name:       "TRIGGER",
		Default:    ical.DataTypeDuration,
		DataTypeFn: dataType,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return write(p, false)
		},
		ParseTextFn: func(value string, dt ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return parse(value, dt)
		},
		WriteXMLFn: func(p ical.Property, el *XCalElement, ctx *ical.Context) error {
			v, err := write(p, true)
			if err != nil {
				return err
			}
			el.Append(string(dataType(p, ctx.Version)), v)
			return nil
		},
		ParseXMLFn: func(el *XCalElement, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			if v, ok := el.First(string(ical.DataTypeDuration)); ok {
				return parse(v, ical.DataTypeDuration)
			}
			if v, ok := el.First(string(ical.DataTypeDateTime)); ok {
				return parse(v, ical.DataTypeDateTime)
			}
			return nil, ical.MissingElements(string(ical.DataTypeDuration), string(ical.DataTypeDateTime))
		},
		WriteJSONFn: func(p ical.Property, _ *ical.Context) (*JCalValue, error) {
			v, err := write(p, true)
			if err != nil {
				return nil, err
			}
			return SingleValue(v), nil
		},
	}
}

func looksLikeDuration(v string) bool {
	v = strings.TrimLeft(v, "+-")
	return strings.HasPrefix(v, "P") || strings.HasPrefix(v, "p")
}

// RecurrenceRuleScribe marshals RRULE. The xCal form has one child per rule
// part value and the jCal form is an object.
func RecurrenceRuleScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeRecurrenceRule,
		Name:    "RRULE",
		Default: ical.DataTypeRecur,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return p.(*ical.RecurrenceRule).Value.String(), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			r, err := ical.ParseRecurrence(value)
			if err != nil {
				return nil, ical.CannotParse(ical.CodeRecurrence, value)
			}
			return ical.NewRecurrenceRule(r), nil
		},
		WriteXMLFn: func(p ical.Property, el *XCalElement, _ *ical.Context) error {
			recur := el.AppendElement(string(ical.DataTypeRecur))
			for _, part := range p.(*ical.RecurrenceRule).Value.Parts(true) {
				for _, v := range part.Values {
					recur.Append(strings.ToLower(part.Name), v)
				}
			}
			return nil
		},
		ParseXMLFn: func(el *XCalElement, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			recur := el.Child(string(ical.DataTypeRecur))
			if recur == nil {
				return nil, ical.MissingElements(string(ical.DataTypeRecur))
			}
			var parts []ical.RecurPart
			index := map[string]int{}
			for _, c := range recur.Children {
				name := strings.ToUpper(c.Name)
				i, ok := index[name]
				if !ok {
					i = len(parts)
					index[name] = i
					parts = append(parts, ical.RecurPart{Name: name})
				}
				parts[i].Values = append(parts[i].Values, c.Text)
			}
			r, err := ical.RecurrenceFromParts(parts)
			if err != nil {
				return nil, ical.CannotParse(ical.CodeRecurrence, err.Error())
			}
			return ical.NewRecurrenceRule(r), nil
		},
		WriteJSONFn: func(p ical.Property, _ *ical.Context) (*JCalValue, error) {
			obj := map[string]any{}
			for _, part := range p.(*ical.RecurrenceRule).Value.Parts(true) {
				vals := make([]any, len(part.Values))
				for i, v := range part.Values {
					vals[i] = recurJSONValue(part.Name, v)
				}
				if len(vals) == 1 {
					obj[strings.ToLower(part.Name)] = vals[0]
				} else {
					obj[strings.ToLower(part.Name)] = vals
				}
			}
			return ObjectValue(obj), nil
		},
		ParseJSONFn: func(v *JCalValue, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			obj, keys := v.AsObject()
			if obj == nil {
				r, err := ical.ParseRecurrence(v.AsSingle())
				if err != nil {
					return nil, ical.CannotParse(ical.CodeRecurrence, v.AsSingle())
				}
				return ical.NewRecurrenceRule(r), nil
			}
			parts := make([]ical.RecurPart, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, ical.RecurPart{Name: k, Values: obj[k]})
			}
			r, err := ical.RecurrenceFromParts(parts)
			if err != nil {
				return nil, ical.CannotParse(ical.CodeRecurrence, err.Error())
			}
			return ical.NewRecurrenceRule(r), nil
		},
	}
}

// recurJSONValue emits the numeric rule parts as JSON numbers.
func recurJSONValue(name, v string) any {
	switch name {
	case "COUNT", "INTERVAL", "BYMONTH", "BYMONTHDAY":
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return v
}

func AttachmentScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeAttachment,
		Name:    "ATTACH",
		Default: ical.DataTypeURI,
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return p.(*ical.Attachment).URI, nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return ical.NewAttachment(value), nil
		},
	}
}

// RawScribe keeps unclaimed properties verbatim, including their name and
// declared data type.
func RawScribe() *FuncScribe {
	return &FuncScribe{
		Type: ical.TypeRaw,
		NameFn: func(p ical.Property, _ ical.Version) string {
			if r, ok := p.(*ical.Raw); ok {
				return r.Name
			}
			return ""
		},
		DataTypeFn: func(p ical.Property, _ ical.Version) ical.DataType {
			if r, ok := p.(*ical.Raw); ok {
				return r.DataType
			}
			return ical.DataTypeNone
		},
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			return p.(*ical.Raw).Value, nil
		},
		ParseTextFn: func(value string, dt ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			return &ical.Raw{Value: value, DataType: dt}, nil
		},
	}
}

// NewRawProperty builds the raw property for an unclaimed wire name. The
// VALUE parameter moves into DataType.
func NewRawProperty(name, value string, params ical.Parameters) *ical.Raw {
	own := params.Clone()
	dt := own.DataType()
	own.Remove(ical.ParamValue)
	r := &ical.Raw{Name: name, Value: value, DataType: dt}
	r.Params = own
	return r
}
