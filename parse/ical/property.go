package ical

import "time"

// PropertyType is the type identity a scribe is registered under. It is
// independent of the wire name; CREATED and DCREATED share TypeCreated.
type PropertyType string

const (
	TypeRaw            PropertyType = "Raw"
	TypeVersion        PropertyType = "Version"
	TypeGeo            PropertyType = "Geo"
	TypeSummary        PropertyType = "Summary"
	TypeDescription    PropertyType = "Description"
	TypeLocation       PropertyType = "Location"
	TypeComment        PropertyType = "Comment"
	TypeUID            PropertyType = "Uid"
	TypeProductID      PropertyType = "ProductId"
	TypeAction         PropertyType = "Action"
	TypeTimezoneID     PropertyType = "TimezoneId"
	TypeTimezoneName   PropertyType = "TimezoneName"
	TypeDateStart      PropertyType = "DateStart"
	TypeDateEnd        PropertyType = "DateEnd"
	TypeDateTimeStamp  PropertyType = "DateTimeStamp"
	TypeCreated        PropertyType = "Created"
	TypeLastModified   PropertyType = "LastModified"
	TypeRepeat         PropertyType = "Repeat"
	TypePriority       PropertyType = "Priority"
	TypeSequence       PropertyType = "Sequence"
	TypeDuration       PropertyType = "Duration"
	TypeTrigger        PropertyType = "Trigger"
	TypeOffsetFrom     PropertyType = "TimezoneOffsetFrom"
	TypeOffsetTo       PropertyType = "TimezoneOffsetTo"
	TypeRecurrenceRule PropertyType = "RecurrenceRule"
	TypeAttachment     PropertyType = "Attachment"
	TypeOrganizer      PropertyType = "Organizer"
	TypeAttendee       PropertyType = "Attendee"
	TypeDaylight       PropertyType = "Daylight"
	TypeAudioAlarm     PropertyType = "AudioAlarm"
	TypeDisplayAlarm   PropertyType = "DisplayAlarm"
	TypeEmailAlarm     PropertyType = "EmailAlarm"
	TypeProcedureAlarm PropertyType = "ProcedureAlarm"
)

// Property is a typed value plus its parameters.
type Property interface {
	PropertyType() PropertyType
	Parameters() *Parameters
}

// PropertyBase carries the parameter map; property types embed it.
type PropertyBase struct {
	Params Parameters
}

func (b *PropertyBase) Parameters() *Parameters {
	return &b.Params
}

// Raw is a property no scribe claimed. Name and Value are kept verbatim.
type Raw struct {
	PropertyBase
	Name     string
	Value    string
	DataType DataType
}

func NewRaw(name, value string) *Raw {
	return &Raw{Name: name, Value: value}
}

func (*Raw) PropertyType() PropertyType { return TypeRaw }

// VersionProperty is the VERSION property of a calendar.
type VersionProperty struct {
	PropertyBase
	Version Version
}

func NewVersionProperty(v Version) *VersionProperty {
	return &VersionProperty{Version: v}
}

func (*VersionProperty) PropertyType() PropertyType { return TypeVersion }

// Geo is a geographic position. A nil coordinate is written as 0.0.
type Geo struct {
	PropertyBase
	Latitude  *float64
	Longitude *float64
}

func NewGeo(latitude, longitude float64) *Geo {
	return &Geo{Latitude: &latitude, Longitude: &longitude}
}

func (*Geo) PropertyType() PropertyType { return TypeGeo }

// Text is any property whose value is a single TEXT value. Kind names the
// concrete property.
type Text struct {
	PropertyBase
	Kind  PropertyType
	Value string
}

func NewText(kind PropertyType, value string) *Text {
	return &Text{Kind: kind, Value: value}
}

func (t *Text) PropertyType() PropertyType { return t.Kind }

// DateTime is a DATE or DATE-TIME property. Floating values have no zone and
// keep their wall clock in Value.
type DateTime struct {
	PropertyBase
	Kind     PropertyType
	Value    time.Time
	HasTime  bool
	Floating bool
}

func NewDateTime(kind PropertyType, t time.Time) *DateTime {
	return &DateTime{Kind: kind, Value: t, HasTime: true}
}

func NewDate(kind PropertyType, t time.Time) *DateTime {
	return &DateTime{Kind: kind, Value: t}
}

func (d *DateTime) PropertyType() PropertyType { return d.Kind }

type Integer struct {
	PropertyBase
	Kind  PropertyType
	Value int
}

func NewInteger(kind PropertyType, v int) *Integer {
	return &Integer{Kind: kind, Value: v}
}

func (i *Integer) PropertyType() PropertyType { return i.Kind }

// UTCOffset is TZOFFSETFROM or TZOFFSETTO.
type UTCOffset struct {
	PropertyBase
	Kind   PropertyType
	Offset time.Duration
}

func NewUTCOffset(kind PropertyType, d time.Duration) *UTCOffset {
	return &UTCOffset{Kind: kind, Offset: d}
}

func (u *UTCOffset) PropertyType() PropertyType { return u.Kind }

type DurationProperty struct {
	PropertyBase
	Value Duration
}

func NewDurationProperty(d Duration) *DurationProperty {
	return &DurationProperty{Value: d}
}

func (*DurationProperty) PropertyType() PropertyType { return TypeDuration }

const (
	RelatedStart = "START"
	RelatedEnd   = "END"
)

// Trigger fires an alarm either relative to its parent (Duration) or at an
// absolute UTC time (Date).
type Trigger struct {
	PropertyBase
	Duration *Duration
	Date     *time.Time
}

func NewRelativeTrigger(d Duration, related string) *Trigger {
	t := &Trigger{Duration: &d}
	if related != "" {
		t.Params.Replace(ParamRelated, related)
	}
	return t
}

func NewAbsoluteTrigger(at time.Time) *Trigger {
	return &Trigger{Date: &at}
}

func (*Trigger) PropertyType() PropertyType { return TypeTrigger }

// Related returns the RELATED parameter, START when absent.
func (t *Trigger) Related() string {
	if r := t.Params.Get(ParamRelated); r != "" {
		return r
	}
	return RelatedStart
}

type RecurrenceRule struct {
	PropertyBase
	Value Recurrence
}

func NewRecurrenceRule(r Recurrence) *RecurrenceRule {
	return &RecurrenceRule{Value: r}
}

func (*RecurrenceRule) PropertyType() PropertyType { return TypeRecurrenceRule }

// Attachment is an ATTACH property referencing a URI.
type Attachment struct {
	PropertyBase
	URI string
}

func NewAttachment(uri string) *Attachment {
	return &Attachment{URI: uri}
}

func (*Attachment) PropertyType() PropertyType { return TypeAttachment }

type Organizer struct {
	PropertyBase
	Name  string
	Email string
	URI   string
}

func NewOrganizer(name, email string) *Organizer {
	return &Organizer{Name: name, Email: email}
}

func (*Organizer) PropertyType() PropertyType { return TypeOrganizer }

type Attendee struct {
	PropertyBase
	Name  string
	Email string
	URI   string
	Role  Role
	RSVP  *bool
}

func NewAttendee(name, email string) *Attendee {
	return &Attendee{Name: name, Email: email}
}

func (*Attendee) PropertyType() PropertyType { return TypeAttendee }

// Daylight is the vCalendar 1.0 DAYLIGHT property. Start and End are local
// wall-clock times.
type Daylight struct {
	PropertyBase
	Enabled      bool
	Offset       time.Duration
	Start        time.Time
	End          time.Time
	StandardName string
	DaylightName string
}

func (*Daylight) PropertyType() PropertyType { return TypeDaylight }

// VCalAlarm is one of the vCalendar 1.0 alarm properties. Kind selects which;
// Data holds the trailing fields (sound, display text, address and note, or
// procedure name).
type VCalAlarm struct {
	PropertyBase
	Kind   PropertyType
	Start  *time.Time
	Snooze *Duration
	Repeat *int
	Data   []string
}

func NewVCalAlarm(kind PropertyType) *VCalAlarm {
	return &VCalAlarm{Kind: kind}
}

func (a *VCalAlarm) PropertyType() PropertyType { return a.Kind }
