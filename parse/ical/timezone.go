package ical

import (
	"sort"
	"strings"
	"time"
)

// TimezoneRegistry is the timezone collaborator readers and writers consult.
// It maps properties to the VTIMEZONE components generated for them.
type TimezoneRegistry interface {
	// Lookup finds a registered VTIMEZONE by TZID.
	Lookup(tzid string) (*Component, bool)
	// TimezoneFor returns the VTIMEZONE assigned to p.
	TimezoneFor(p Property) (*Component, bool)
	// Assign records that p is expressed in tz and registers tz as generated.
	Assign(p Property, tz *Component)
	// Generated returns the VTIMEZONE components to inject on write.
	Generated() []*Component
}

// TimezoneInfo is the default TimezoneRegistry. It is not safe for
// concurrent use.
type TimezoneInfo struct {
	assigned  map[Property]*Component
	generated []*Component
}

func NewTimezoneInfo() *TimezoneInfo {
	return &TimezoneInfo{assigned: make(map[Property]*Component)}
}

// Register adds tz to the generated components without assigning it.
func (t *TimezoneInfo) Register(tz *Component) {
	for _, g := range t.generated {
		if g == tz {
			return
		}
	}
	t.generated = append(t.generated, tz)
}

func (t *TimezoneInfo) Assign(p Property, tz *Component) {
	if t.assigned == nil {
		t.assigned = make(map[Property]*Component)
	}
	t.assigned[p] = tz
	t.Register(tz)
}

func (t *TimezoneInfo) TimezoneFor(p Property) (*Component, bool) {
	tz, ok := t.assigned[p]
	return tz, ok
}

func (t *TimezoneInfo) Lookup(tzid string) (*Component, bool) {
	for _, g := range t.generated {
		if strings.EqualFold(g.Text(TypeTimezoneID), tzid) {
			return g, true
		}
	}
	return nil, false
}

func (t *TimezoneInfo) Generated() []*Component {
	return append([]*Component(nil), t.generated...)
}

// =========================
// Offset rules
// =========================

// Onset is one transition of a timezone observance.
type Onset struct {
	// Local is the wall-clock time the observance starts, in time.UTC.
	Local      time.Time
	OffsetFrom time.Duration
	OffsetTo   time.Duration
	Name       string
	Daylight   bool
}

// Instant is the absolute time of the onset.
func (o Onset) Instant() time.Time {
	return o.Local.Add(-o.OffsetFrom)
}

// ObservanceOnsets expands one STANDARD or DAYLIGHT observance between the
// wall-clock times from and to.
func ObservanceOnsets(obs *Component, from, to time.Time) []Onset {
	start, ok := obs.Property(TypeDateStart).(*DateTime)
	if !ok {
		return nil
	}
	base := Onset{Daylight: obs.Type == ComponentDaylight, Name: obs.Text(TypeTimezoneName)}
	if p, ok := obs.Property(TypeOffsetFrom).(*UTCOffset); ok {
		base.OffsetFrom = p.Offset
	}
	if p, ok := obs.Property(TypeOffsetTo).(*UTCOffset); ok {
		base.OffsetTo = p.Offset
	}
	if !base.Daylight && obs.Type != ComponentStandard {
		return nil
	}

	first := wallClock(start.Value)
	times := []time.Time{first}
	if rr, ok := obs.Property(TypeRecurrenceRule).(*RecurrenceRule); ok {
		times = rr.Value.Occurrences(first, to)
	}
	var out []Onset
	for _, t := range times {
		if t.Before(from) || t.After(to) {
			continue
		}
		o := base
		o.Local = t
		out = append(out, o)
	}
	return out
}

// TimezoneOnsets expands every observance of tz, sorted by local time.
func TimezoneOnsets(tz *Component, from, to time.Time) []Onset {
	var out []Onset
	for _, ch := range tz.Components() {
		out = append(out, ObservanceOnsets(ch, from, to)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Local.Before(out[j].Local) })
	return out
}

// OffsetAt resolves the UTC offset in effect at instant t.
func OffsetAt(tz *Component, t time.Time) (time.Duration, bool) {
	to := time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	onsets := TimezoneOnsets(tz, time.Time{}, to)
	if len(onsets) == 0 {
		return 0, false
	}
	current := -1
	for i, o := range onsets {
		if o.Instant().After(t) {
			continue
		}
		if current < 0 || o.Instant().After(onsets[current].Instant()) {
			current = i
		}
	}
	if current < 0 {
		return onsets[0].OffsetFrom, true
	}
	return onsets[current].OffsetTo, true
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
