package scribe

import (
	"sort"
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
)

type nameKey struct {
	name   string
	legacy bool
}

// Registry maps property and component types, and their wire names, to
// scribes. Registration is explicit; a Registry is not safe for concurrent
// mutation.
type Registry struct {
	properties     map[ical.PropertyType]PropertyScribe
	propertyNames  map[nameKey]PropertyScribe
	components     map[ical.ComponentType]*ComponentScribe
	componentNames map[string]*ComponentScribe
	raw            PropertyScribe
}

// NewEmptyRegistry knows only the raw property scribe.
func NewEmptyRegistry() *Registry {
	return &Registry{
		properties:     make(map[ical.PropertyType]PropertyScribe),
		propertyNames:  make(map[nameKey]PropertyScribe),
		components:     make(map[ical.ComponentType]*ComponentScribe),
		componentNames: make(map[string]*ComponentScribe),
		raw:            RawScribe(),
	}
}

// NewRegistry returns a registry holding every built-in scribe.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, s := range builtinProperties() {
		r.RegisterProperty(s)
	}
	for _, s := range builtinComponents() {
		r.RegisterComponent(s)
	}
	return r
}

// RegisterProperty adds s, replacing any scribe of the same type.
func (r *Registry) RegisterProperty(s PropertyScribe) {
	t := s.PropertyType()
	if t == ical.TypeRaw {
		r.raw = s
		return
	}
	if old, ok := r.properties[t]; ok {
		for k, v := range r.propertyNames {
			if v == old {
				delete(r.propertyNames, k)
			}
		}
	}
	r.properties[t] = s
	for _, v := range []ical.Version{ical.V2_0, ical.V1_0} {
		name := strings.ToUpper(s.PropertyName(nil, v))
		if name == "" {
			continue
		}
		r.propertyNames[nameKey{name: name, legacy: v.IsLegacy()}] = s
	}
}

// RegisterComponent adds s, replacing any scribe of the same type.
func (r *Registry) RegisterComponent(s *ComponentScribe) {
	if old, ok := r.components[s.Type]; ok {
		delete(r.componentNames, strings.ToUpper(old.Name))
	}
	r.components[s.Type] = s
	r.componentNames[strings.ToUpper(s.Name)] = s
}

func (r *Registry) Property(t ical.PropertyType) (PropertyScribe, bool) {
	if t == ical.TypeRaw {
		return r.raw, true
	}
	s, ok := r.properties[t]
	return s, ok
}

// PropertyOrRaw falls back to the raw scribe.
func (r *Registry) PropertyOrRaw(t ical.PropertyType) PropertyScribe {
	if s, ok := r.Property(t); ok {
		return s
	}
	return r.raw
}

// PropertyByName resolves a wire name as read under version v.
func (r *Registry) PropertyByName(name string, v ical.Version) (PropertyScribe, bool) {
	s, ok := r.propertyNames[nameKey{name: strings.ToUpper(name), legacy: v.IsLegacy()}]
	return s, ok
}

func (r *Registry) Component(t ical.ComponentType) (*ComponentScribe, bool) {
	s, ok := r.components[t]
	return s, ok
}

func (r *Registry) ComponentByName(name string) (*ComponentScribe, bool) {
	s, ok := r.componentNames[strings.ToUpper(name)]
	return s, ok
}

// PropertyTypes lists the registered property types, sorted.
func (r *Registry) PropertyTypes() []ical.PropertyType {
	out := make([]ical.PropertyType, 0, len(r.properties))
	for t := range r.properties {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ComponentTypes lists the registered component types, sorted.
func (r *Registry) ComponentTypes() []ical.ComponentType {
	out := make([]ical.ComponentType, 0, len(r.components))
	for t := range r.components {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Unscribed walks root and returns every component and property type that
// has no scribe, sorted. Raw types are always writable and never reported.
func (r *Registry) Unscribed(root *ical.Component) []string {
	missing := map[string]struct{}{}
	root.Walk(func(c *ical.Component) {
		if c.Type != ical.ComponentRaw {
			if _, ok := r.components[c.Type]; !ok {
				missing[string(c.Type)] = struct{}{}
			}
		}
		for _, t := range c.PropertyTypes() {
			if _, ok := r.Property(t); !ok {
				missing[string(t)] = struct{}{}
			}
		}
	})
	out := make([]string, 0, len(missing))
	for t := range missing {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func builtinProperties() []PropertyScribe {
	return []PropertyScribe{
		VersionScribe(),
		GeoScribe(),
		TextScribe(ical.TypeSummary, "SUMMARY"),
		TextScribe(ical.TypeDescription, "DESCRIPTION"),
		TextScribe(ical.TypeLocation, "LOCATION"),
		TextScribe(ical.TypeComment, "COMMENT"),
		TextScribe(ical.TypeUID, "UID"),
		TextScribe(ical.TypeProductID, "PRODID"),
		TextScribe(ical.TypeAction, "ACTION"),
		TextScribe(ical.TypeTimezoneID, "TZID"),
		TextScribe(ical.TypeTimezoneName, "TZNAME"),
		DateTimeScribe(ical.TypeDateStart, "DTSTART", ""),
		DateTimeScribe(ical.TypeDateEnd, "DTEND", ""),
		DateTimeScribe(ical.TypeDateTimeStamp, "DTSTAMP", ""),
		DateTimeScribe(ical.TypeCreated, "CREATED", "DCREATED"),
		DateTimeScribe(ical.TypeLastModified, "LAST-MODIFIED", ""),
		IntegerScribe(ical.TypeRepeat, "REPEAT"),
		IntegerScribe(ical.TypePriority, "PRIORITY"),
		IntegerScribe(ical.TypeSequence, "SEQUENCE"),
		UTCOffsetScribe(ical.TypeOffsetFrom, "TZOFFSETFROM"),
		UTCOffsetScribe(ical.TypeOffsetTo, "TZOFFSETTO"),
		DurationScribe(),
		TriggerScribe(),
		RecurrenceRuleScribe(),
		AttachmentScribe(),
		OrganizerScribe(),
		AttendeeScribe(),
		DaylightScribe(),
		VCalAlarmScribe(ical.TypeAudioAlarm, "AALARM"),
		VCalAlarmScribe(ical.TypeDisplayAlarm, "DALARM"),
		VCalAlarmScribe(ical.TypeEmailAlarm, "MALARM"),
		VCalAlarmScribe(ical.TypeProcedureAlarm, "PALARM"),
	}
}

func builtinComponents() []*ComponentScribe {
	return []*ComponentScribe{
		{Type: ical.ComponentCalendar, Name: "VCALENDAR"},
		{Type: ical.ComponentEvent, Name: "VEVENT"},
		{Type: ical.ComponentTodo, Name: "VTODO"},
		{Type: ical.ComponentJournal, Name: "VJOURNAL"},
		{Type: ical.ComponentFreeBusy, Name: "VFREEBUSY"},
		{Type: ical.ComponentAlarm, Name: "VALARM"},
		{Type: ical.ComponentTimezone, Name: "VTIMEZONE"},
		{Type: ical.ComponentStandard, Name: "STANDARD"},
		{Type: ical.ComponentDaylight, Name: "DAYLIGHT"},
	}
}
