package scribe

import (
	"strconv"
	"strings"
	"time"

	"github.com/dzjyyds666/ical/parse/ical"
)

// =========================
// vCalendar 1.0 only
// =========================

// DaylightScribe marshals the 1.0 DAYLIGHT property:
//
//	TRUE;-04;19960407T025959;19961027T010000;EST;EDT
//
// It is skipped when writing any other version.
func DaylightScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeDaylight,
		Name:    "DAYLIGHT",
		Default: ical.DataTypeText,
		WriteTextFn: func(p ical.Property, ctx *ical.Context) (string, error) {
			if !ctx.Version.IsLegacy() {
				return "", ical.ErrSkipProperty
			}
			d := p.(*ical.Daylight)
			if !d.Enabled {
				return "FALSE", nil
			}
			return strings.Join([]string{
				"TRUE",
				vcalOffset(d.Offset),
				ical.FormatDate(d.Start, true, true, false),
				ical.FormatDate(d.End, true, true, false),
				escapeText(d.StandardName),
				escapeText(d.DaylightName),
			}, ";"), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			parts := splitStructured(value, -1)
			switch strings.ToUpper(strings.TrimSpace(parts[0])) {
			case "FALSE", "":
				return &ical.Daylight{}, nil
			case "TRUE":
			default:
				return nil, ical.CannotParse(ical.CodeDaylight, value)
			}
			if len(parts) < 4 {
				return nil, ical.CannotParse(ical.CodeDaylight, value)
			}
			d := &ical.Daylight{Enabled: true}
			var err error
			if d.Offset, err = ical.ParseOffset(parts[1]); err != nil {
				return nil, ical.CannotParse(ical.CodeDaylight, value)
			}
			if d.Start, _, _, err = ical.ParseDate(parts[2]); err != nil {
				return nil, ical.CannotParse(ical.CodeDaylight, value)
			}
			if d.End, _, _, err = ical.ParseDate(parts[3]); err != nil {
				return nil, ical.CannotParse(ical.CodeDaylight, value)
			}
			if len(parts) > 4 {
				d.StandardName = parts[4]
			}
			if len(parts) > 5 {
				d.DaylightName = parts[5]
			}
			return d, nil
		},
	}
}

// vcalOffset writes "-04" for whole hours and "-04:30" otherwise.
func vcalOffset(d time.Duration) string {
	s := ical.FormatOffset(d, true)
	return strings.TrimSuffix(s, ":00")
}

// VCalAlarmScribe marshals AALARM, DALARM, MALARM and PALARM:
//
//	runTime;snoozeTime;repeatCount;data...
//
// It is skipped when writing any other version.
func VCalAlarmScribe(t ical.PropertyType, name string) *FuncScribe {
	return &FuncScribe{
		Type:    t,
		Name:    name,
		Default: ical.DataTypeText,
		WriteTextFn: func(p ical.Property, ctx *ical.Context) (string, error) {
			if !ctx.Version.IsLegacy() {
				return "", ical.ErrSkipProperty
			}
			a := p.(*ical.VCalAlarm)
			fields := make([]string, 3, 3+len(a.Data))
			if a.Start != nil {
				fields[0] = ical.FormatDate(*a.Start, true, false, false)
			}
			if a.Snooze != nil {
				fields[1] = a.Snooze.String()
			}
			if a.Repeat != nil {
				fields[2] = strconv.Itoa(*a.Repeat)
			}
			for _, d := range a.Data {
				fields = append(fields, escapeText(d))
			}
			return strings.Join(fields, ";"), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			parts := splitStructured(value, -1)
			a := ical.NewVCalAlarm(t)
			if s := strings.TrimSpace(parts[0]); s != "" {
				at, _, _, err := ical.ParseDate(s)
				if err != nil {
					return nil, ical.CannotParse(ical.CodeVCalAlarm, value)
				}
				a.Start = &at
			}
			if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
				d, err := ical.ParseDuration(strings.TrimSpace(parts[1]))
				if err != nil {
					return nil, ical.CannotParse(ical.CodeVCalAlarm, value)
				}
				a.Snooze = &d
			}
			if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
				n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
				if err != nil {
					return nil, ical.CannotParse(ical.CodeVCalAlarm, value)
				}
				a.Repeat = &n
			}
			if len(parts) > 3 {
				a.Data = append(a.Data, parts[3:]...)
			}
			return a, nil
		},
	}
}
