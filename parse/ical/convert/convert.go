// Package convert holds the structural rewrites between iCalendar 2.0 and
// vCalendar 1.0 that sit outside any single scribe.
package convert

import (
	"sort"
	"strings"
	"time"

	"github.com/dzjyyds666/ical/parse/ical"
)

// =========================
// VTIMEZONE => DAYLIGHT
// =========================

// TimezoneToDaylights flattens tz into the DAYLIGHT properties covering the
// years fromYear to toYear. Each daylight onset is paired with the standard
// onset that follows it. A zone without daylight rules yields one
// DAYLIGHT:FALSE.
func TimezoneToDaylights(tz *ical.Component, fromYear, toYear int) []*ical.Daylight {
	if toYear < fromYear {
		fromYear, toYear = toYear, fromYear
	}
	from := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	var daylight, standard []ical.Onset
	for _, ch := range tz.Components() {
		onsets := ical.ObservanceOnsets(ch, from, to)
		switch ch.Type {
		case ical.ComponentDaylight:
			daylight = append(daylight, onsets...)
		case ical.ComponentStandard:
			standard = append(standard, onsets...)
		}
	}
	if len(daylight) == 0 {
		return []*ical.Daylight{{}}
	}
	sortOnsets(daylight)
	sortOnsets(standard)

	out := make([]*ical.Daylight, 0, len(daylight))
	for _, d := range daylight {
		dl := &ical.Daylight{
			Enabled:      true,
			Offset:       d.OffsetTo,
			Start:        d.Local,
			DaylightName: d.Name,
		}
		if s, ok := nextOnset(standard, d.Local); ok {
			dl.End = s.Local
			dl.StandardName = s.Name
		} else {
			dl.End = time.Date(d.Local.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Second)
		}
		out = append(out, dl)
	}
	return out
}

func sortOnsets(os []ical.Onset) {
	sort.SliceStable(os, func(i, j int) bool { return os[i].Local.Before(os[j].Local) })
}

func nextOnset(os []ical.Onset, after time.Time) (ical.Onset, bool) {
	for _, o := range os {
		if o.Local.After(after) {
			return o, true
		}
	}
	return ical.Onset{}, false
}

// =========================
// VALARM <=> vCal alarms
// =========================

// AlarmToVCal collapses alarm into one vCal alarm property. Relative
// triggers are resolved against parent's DTSTART or DTEND. It returns nil
// when the alarm has no vCal equivalent.
func AlarmToVCal(alarm, parent *ical.Component) *ical.VCalAlarm {
	var a *ical.VCalAlarm
	switch strings.ToUpper(alarm.Text(ical.TypeAction)) {
	case "AUDIO":
		a = ical.NewVCalAlarm(ical.TypeAudioAlarm)
		if at, ok := alarm.Property(ical.TypeAttachment).(*ical.Attachment); ok {
			a.Data = []string{at.URI}
		}
	case "DISPLAY":
		a = ical.NewVCalAlarm(ical.TypeDisplayAlarm)
		a.Data = []string{alarm.Text(ical.TypeDescription)}
	case "EMAIL":
		a = ical.NewVCalAlarm(ical.TypeEmailAlarm)
		email := ""
		if at, ok := alarm.Property(ical.TypeAttendee).(*ical.Attendee); ok {
			email = at.Email
		}
		note := alarm.Text(ical.TypeDescription)
		if note == "" {
			note = alarm.Text(ical.TypeSummary)
		}
		a.Data = []string{email, note}
	case "PROCEDURE":
		a = ical.NewVCalAlarm(ical.TypeProcedureAlarm)
		if at, ok := alarm.Property(ical.TypeAttachment).(*ical.Attachment); ok {
			a.Data = []string{at.URI}
		}
	default:
		return nil
	}

	a.Start = triggerTime(alarm, parent)
	if d, ok := alarm.Property(ical.TypeDuration).(*ical.DurationProperty); ok {
		snooze := d.Value
		a.Snooze = &snooze
	}
	if r, ok := alarm.Property(ical.TypeRepeat).(*ical.Integer); ok {
		n := r.Value
		a.Repeat = &n
	}
	return a
}

func triggerTime(alarm, parent *ical.Component) *time.Time {
	trig, ok := alarm.Property(ical.TypeTrigger).(*ical.Trigger)
	if !ok {
		return nil
	}
	if trig.Date != nil {
		at := *trig.Date
		return &at
	}
	if trig.Duration == nil || parent == nil {
		return nil
	}
	ref := ical.TypeDateStart
	if strings.EqualFold(trig.Related(), ical.RelatedEnd) {
		ref = ical.TypeDateEnd
	}
	base, ok := parent.Property(ref).(*ical.DateTime)
	if !ok {
		return nil
	}
	at := base.Value.Add(trig.Duration.Std())
	return &at
}

// VCalToAlarm expands a vCal alarm property into a VALARM component.
func VCalToAlarm(p *ical.VCalAlarm) *ical.Component {
	alarm := ical.NewComponent(ical.ComponentAlarm)
	data := func(i int) string {
		if i < len(p.Data) {
			return p.Data[i]
		}
		return ""
	}

	var action string
	switch p.Kind {
	case ical.TypeAudioAlarm:
		action = "AUDIO"
	case ical.TypeDisplayAlarm:
		action = "DISPLAY"
	case ical.TypeEmailAlarm:
		action = "EMAIL"
	case ical.TypeProcedureAlarm:
		action = "PROCEDURE"
	}
	alarm.AddProperty(ical.NewText(ical.TypeAction, action))
	if p.Start != nil {
		alarm.AddProperty(ical.NewAbsoluteTrigger(*p.Start))
	}
	if p.Snooze != nil {
		alarm.AddProperty(ical.NewDurationProperty(*p.Snooze))
	}
	if p.Repeat != nil {
		alarm.AddProperty(ical.NewInteger(ical.TypeRepeat, *p.Repeat))
	}

	switch p.Kind {
	case ical.TypeAudioAlarm, ical.TypeProcedureAlarm:
		if uri := data(0); uri != "" {
			alarm.AddProperty(ical.NewAttachment(uri))
		}
	case ical.TypeDisplayAlarm:
		alarm.AddProperty(ical.NewText(ical.TypeDescription, data(0)))
	case ical.TypeEmailAlarm:
		if email := data(0); email != "" {
			alarm.AddProperty(ical.NewAttendee("", email))
		}
		if note := data(1); note != "" {
			alarm.AddProperty(ical.NewText(ical.TypeDescription, note))
		}
	}
	return alarm
}

// =========================
// ORGANIZER <=> ATTENDEE
// =========================

// OrganizerToAttendee is the 1.0 spelling of an organizer: an attendee with
// ROLE=ORGANIZER.
func OrganizerToAttendee(o *ical.Organizer) *ical.Attendee {
	a := &ical.Attendee{Name: o.Name, Email: o.Email, URI: o.URI, Role: ical.RoleOrganizer}
	a.Params = o.Params.Clone()
	return a
}

func AttendeeToOrganizer(a *ical.Attendee) *ical.Organizer {
	o := &ical.Organizer{Name: a.Name, Email: a.Email, URI: a.URI}
	o.Params = a.Params.Clone()
	return o
}

// IsOrganizer reports whether a is the 1.0 spelling of an organizer.
func IsOrganizer(a *ical.Attendee) bool {
	return a.Role == ical.RoleOrganizer
}
