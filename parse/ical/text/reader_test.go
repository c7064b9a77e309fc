package text

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

var treeOpts = cmp.Options{
	cmp.AllowUnexported(ical.Component{}, ical.Parameters{}, ical.VersionedEnum{}),
}

func lines(ls ...string) string {
	return strings.Join(ls, "\r\n") + "\r\n"
}

func roundTripTree() *ical.Component {
	cal := calendarOf()
	cal.PrependProperty(ical.NewVersionProperty(ical.V2_0))

	ev := lunchEvent()
	ev.AddProperty(ical.NewText(ical.TypeDescription, "line one\nline two; with \\ and, commas"))
	ev.AddProperty(ical.NewGeo(37.386013, -122.082932))
	ev.AddProperty(ical.NewDate(ical.TypeDateEnd, time.Date(2024, 4, 16, 0, 0, 0, 0, time.UTC)))
	rule, err := ical.ParseRecurrence("FREQ=WEEKLY;COUNT=4;BYDAY=MO,WE;WKST=SU")
	if err != nil {
		panic(err)
	}
	ev.AddProperty(ical.NewRecurrenceRule(rule))
	ev.AddProperty(ical.NewInteger(ical.TypeSequence, 2))

	custom := ical.NewRaw("X-CUSTOM", "hello;world")
	custom.Params = ical.NewParameters("X-P", "a,b", "X-Q", "c")
	custom.DataType = ical.DataTypeURI
	ev.AddProperty(custom)
	ev.AddComponent(displayAlarm())

	thing := ical.NewRawComponent("X-THING")
	thing.AddProperty(ical.NewRaw("X-COLOR", "red"))
	cal.AddComponent(ev)
	cal.AddComponent(thing)
	return cal
}

func TestReader(t *testing.T) {
	convey.Convey("reading", t, func() {
		convey.Convey("what the writer writes reads back as the same tree", func() {
			for _, width := range []int{0, 10, 75} {
				tree := roundTripTree()
				out := mustWrite(tree, ical.V2_0, stream.WithLineLength(width))
				got, err := ParseString(out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cmp.Diff(tree, got, treeOpts), convey.ShouldBeEmpty)
			}
		})

		convey.Convey("a 1.0 calendar reads into the 2.0 model", func() {
			src := lines(
				"BEGIN:VCALENDAR",
				"VERSION:1.0",
				"BEGIN:VEVENT",
				"DTSTART:20240415T120000Z",
				"DCREATED:20240401T090000Z",
				"ATTENDEE;ROLE=ORGANIZER:Jane <jane@example.com>",
				"ATTENDEE;RSVP=YES:Bob <bob@example.com>",
				"DALARM:20240415T114500Z;;;Lunch",
				"END:VEVENT",
				"END:VCALENDAR",
			)
			r := NewReader(strings.NewReader(src))
			cal, err := r.ReadNext()
			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Version(), convey.ShouldEqual, ical.V1_0)
			convey.So(cal.PropertyTypes()[0], convey.ShouldEqual, ical.TypeVersion)
			convey.So(cal.Property(ical.TypeVersion).(*ical.VersionProperty).Version, convey.ShouldEqual, ical.V1_0)

			ev := cal.ComponentsOf(ical.ComponentEvent)[0]
			convey.So(ev.Property(ical.TypeCreated), convey.ShouldNotBeNil)

			org, ok := ev.Property(ical.TypeOrganizer).(*ical.Organizer)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(org.Name, convey.ShouldEqual, "Jane")
			convey.So(org.Email, convey.ShouldEqual, "jane@example.com")

			att := ev.Property(ical.TypeAttendee).(*ical.Attendee)
			convey.So(att.Name, convey.ShouldEqual, "Bob")
			convey.So(*att.RSVP, convey.ShouldBeTrue)

			alarms := ev.ComponentsOf(ical.ComponentAlarm)
			convey.So(len(alarms), convey.ShouldEqual, 1)
			convey.So(alarms[0].Text(ical.TypeAction), convey.ShouldEqual, "DISPLAY")
			convey.So(alarms[0].Text(ical.TypeDescription), convey.ShouldEqual, "Lunch")
			convey.So(ev.Property(ical.TypeDisplayAlarm), convey.ShouldBeNil)
		})

		convey.Convey("several calendars in one stream", func() {
			src := mustWrite(calendarOf(lunchEvent()), ical.V1_0) + mustWrite(calendarOf(), ical.V2_0)
			cals, err := ParseAll(strings.NewReader(src))
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(cals), convey.ShouldEqual, 2)
			convey.So(cals[0].Property(ical.TypeVersion).(*ical.VersionProperty).Version, convey.ShouldEqual, ical.V1_0)
			convey.So(cals[1].Property(ical.TypeVersion).(*ical.VersionProperty).Version, convey.ShouldEqual, ical.V2_0)
		})

		convey.Convey("unknown components and properties are kept raw", func() {
			cal, err := ParseString(lines("BEGIN:VCALENDAR", "BEGIN:X-WIDGET", "X-SIZE;VALUE=INTEGER:3", "END:X-WIDGET", "END:VCALENDAR"))
			convey.So(err, convey.ShouldBeNil)
			w := cal.Components()[0]
			convey.So(w.Type, convey.ShouldEqual, ical.ComponentRaw)
			convey.So(w.Name, convey.ShouldEqual, "X-WIDGET")
			raw := w.Property(ical.TypeRaw).(*ical.Raw)
			convey.So(raw.Name, convey.ShouldEqual, "X-SIZE")
			convey.So(raw.DataType, convey.ShouldEqual, ical.DataTypeInteger)
			convey.So(raw.Params.Has(ical.ParamValue), convey.ShouldBeFalse)
		})

		convey.Convey("an unmatched END is ignored", func() {
			cal, err := ParseString(lines("BEGIN:VCALENDAR", "BEGIN:VEVENT", "END:VTODO", "UID:1", "END:VEVENT", "END:VCALENDAR"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(cal.ComponentsOf(ical.ComponentEvent)[0].Text(ical.TypeUID), convey.ShouldEqual, "1")
		})

		convey.Convey("a stream ending inside a component yields what was read", func() {
			cal, err := ParseString(lines("BEGIN:VCALENDAR", "BEGIN:VEVENT", "UID:1"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(cal.ComponentsOf(ical.ComponentEvent)[0].Text(ical.TypeUID), convey.ShouldEqual, "1")
		})

		convey.Convey("an empty stream is io.EOF", func() {
			_, err := ParseString("\r\n")
			convey.So(errors.Is(err, io.EOF), convey.ShouldBeTrue)
		})

		convey.Convey("properties outside a component are dropped with a warning", func() {
			r := NewReader(strings.NewReader(lines("X-STRAY:1", "BEGIN:VCALENDAR", "END:VCALENDAR")))
			cal, err := r.ReadNext()
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(cal.Properties()), convey.ShouldEqual, 0)
			ws := r.Warnings()
			convey.So(len(ws), convey.ShouldEqual, 1)
			convey.So(errors.Is(ws[0].Err, ical.ErrPropertyOutsideOfBlock), convey.ShouldBeTrue)
		})

		convey.Convey("a malformed line stops the read", func() {
			_, err := ParseString(lines("BEGIN:VCALENDAR", "garbage", "END:VCALENDAR"))
			var me *ical.MalformedLineError
			convey.So(errors.As(err, &me), convey.ShouldBeTrue)
			convey.So(me.LineNum, convey.ShouldEqual, 2)
		})

		convey.Convey("unparseable values follow the error policy", func() {
			src := lines("BEGIN:VCALENDAR", "BEGIN:VEVENT", "GEO:north;1", "END:VEVENT", "END:VCALENDAR")

			convey.Convey("skip drops the property and warns", func() {
				r := NewReader(strings.NewReader(src))
				cal, err := r.ReadNext()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cal.Components()[0].Property(ical.TypeGeo), convey.ShouldBeNil)
				ws := r.Warnings()
				convey.So(len(ws), convey.ShouldEqual, 1)
				convey.So(ws[0].LineNum, convey.ShouldEqual, 3)
				convey.So(ws[0].Property, convey.ShouldEqual, "GEO")
				var cp *ical.CannotParseError
				convey.So(errors.As(ws[0].Err, &cp), convey.ShouldBeTrue)
				convey.So(cp.Code, convey.ShouldEqual, ical.CodeGeoLatitude)
			})

			convey.Convey("fail aborts the read", func() {
				_, err := ParseString(src, stream.WithParseErrorPolicy(ical.ParseErrorFail))
				var cp *ical.CannotParseError
				convey.So(errors.As(err, &cp), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldStartWith, "line 3: GEO:")
			})

			convey.Convey("raw keeps the value text", func() {
				cal, err := ParseString(src, stream.WithParseErrorPolicy(ical.ParseErrorRaw))
				convey.So(err, convey.ShouldBeNil)
				raw := cal.Components()[0].Property(ical.TypeRaw).(*ical.Raw)
				convey.So(raw.Name, convey.ShouldEqual, "GEO")
				convey.So(raw.Value, convey.ShouldEqual, "north;1")
			})
		})

		convey.Convey("the initial version applies until a declaration", func() {
			src := lines("BEGIN:VCALENDAR", "BEGIN:VEVENT", "X-A;P=a\\;b:v", "END:VEVENT", "END:VCALENDAR")
			cal, err := ParseString(src, stream.WithInitialVersion(ical.V1_0))
			convey.So(err, convey.ShouldBeNil)
			raw := cal.Components()[0].Property(ical.TypeRaw).(*ical.Raw)
			convey.So(raw.Params.Get("P"), convey.ShouldEqual, "a;b")
			convey.So(cal.Property(ical.TypeVersion), convey.ShouldBeNil)
		})
	})
}
