package scribe

import (
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
)

const mailto = "mailto:"

// OrganizerScribe marshals ORGANIZER. The display name travels in CN.
func OrganizerScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeOrganizer,
		Name:    "ORGANIZER",
		Default: ical.DataTypeCalAddress,
		ParametersFn: func(p ical.Property, params *ical.Parameters, _ *ical.Context) {
			if o := p.(*ical.Organizer); o.Name != "" {
				params.Replace(ical.ParamCN, o.Name)
			}
		},
		WriteTextFn: func(p ical.Property, _ *ical.Context) (string, error) {
			o := p.(*ical.Organizer)
			return calAddress(o.Email, o.URI), nil
		},
		ParseTextFn: func(value string, _ ical.DataType, params *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			o := &ical.Organizer{Name: params.Get(ical.ParamCN)}
			params.Remove(ical.ParamCN)
			o.Email, o.URI = splitCalAddress(value)
			return o, nil
		},
	}
}

// AttendeeScribe marshals ATTENDEE. In 1.0 the display name is written in
// the value as "Name <email>" and RSVP uses YES/NO.
func AttendeeScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeAttendee,
		Name:    "ATTENDEE",
		Default: ical.DataTypeCalAddress,
		ParametersFn: func(p ical.Property, params *ical.Parameters, ctx *ical.Context) {
			a := p.(*ical.Attendee)
			legacy := ctx.Version.IsLegacy()
			if a.Name != "" && !legacy {
				params.Replace(ical.ParamCN, a.Name)
			}
			if !a.Role.IsZero() && a.Role.Supported(ctx.Version) {
				params.Replace(ical.ParamRole, a.Role.Value())
			}
			if a.RSVP != nil {
				params.Replace(ical.ParamRSVP, rsvpValue(*a.RSVP, legacy))
			}
		},
		WriteTextFn: func(p ical.Property, ctx *ical.Context) (string, error) {
			a := p.(*ical.Attendee)
			if !ctx.Version.IsLegacy() {
				return calAddress(a.Email, a.URI), nil
			}
			switch {
			case a.Name != "" && a.Email != "":
				return a.Name + " <" + a.Email + ">", nil
			case a.Email != "":
				return a.Email, nil
			default:
				return a.URI, nil
			}
		},
		ParseTextFn: func(value string, _ ical.DataType, params *ical.Parameters, ctx *ical.Context) (ical.Property, error) {
			a := &ical.Attendee{}
			if params.Has(ical.ParamRole) {
				a.Role = ical.RoleOf(params.Get(ical.ParamRole))
				params.Remove(ical.ParamRole)
			}
			if params.Has(ical.ParamRSVP) {
				switch strings.ToUpper(params.Get(ical.ParamRSVP)) {
				case "TRUE", "YES":
					t := true
					a.RSVP = &t
					params.Remove(ical.ParamRSVP)
				case "FALSE", "NO":
					f := false
					a.RSVP = &f
					params.Remove(ical.ParamRSVP)
				}
			}
			a.Name = params.Get(ical.ParamCN)
			params.Remove(ical.ParamCN)

			if ctx.Version.IsLegacy() {
				value = strings.TrimSpace(value)
				if lt := strings.LastIndexByte(value, '<'); lt >= 0 && strings.HasSuffix(value, ">") {
					if name := strings.TrimSpace(value[:lt]); name != "" {
						a.Name = name
					}
					a.Email = strings.TrimSpace(value[lt+1 : len(value)-1])
					return a, nil
				}
				if strings.Contains(value, "@") && !strings.Contains(value, ":") {
					a.Email = value
					return a, nil
				}
			}
			a.Email, a.URI = splitCalAddress(value)
			return a, nil
		},
	}
}

func calAddress(email, uri string) string {
	if email != "" {
		return mailto + email
	}
	return uri
}

func splitCalAddress(value string) (email, uri string) {
	if len(value) >= len(mailto) && strings.EqualFold(value[:len(mailto)], mailto) {
		return value[len(mailto):], ""
	}
	return "", value
}

func rsvpValue(b bool, legacy bool) string {
	switch {
	case legacy && b:
		return "YES"
	case legacy:
		return "NO"
	case b:
		return "TRUE"
	default:
		return "FALSE"
	}
}
