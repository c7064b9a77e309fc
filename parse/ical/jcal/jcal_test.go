package jcal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
	"github.com/dzjyyds666/ical/parse/ical/stream"
)

var treeOpts = cmp.AllowUnexported(ical.Component{}, ical.Parameters{}, ical.VersionedEnum{})

func sampleCalendar() *ical.Component {
	cal := ical.NewCalendar()
	cal.AddProperty(ical.NewVersionProperty(ical.V2_0))
	cal.AddProperty(ical.NewText(ical.TypeProductID, "-//dzjyyds666//ical//EN"))

	ev := ical.NewComponent(ical.ComponentEvent)
	ev.AddProperty(ical.NewText(ical.TypeUID, "lunch-1@example.com"))
	ev.AddProperty(ical.NewDateTime(ical.TypeDateStart, time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)))
	ev.AddProperty(ical.NewDate(ical.TypeDateEnd, time.Date(2024, 4, 16, 0, 0, 0, 0, time.UTC)))
	ev.AddProperty(ical.NewText(ical.TypeSummary, "Lunch <with> Bob & co"))
	ev.AddProperty(ical.NewGeo(37.386013, -122.082932))
	ev.AddProperty(ical.NewInteger(ical.TypeSequence, 2))
	rule, err := ical.ParseRecurrence("FREQ=WEEKLY;COUNT=4;BYDAY=MO,WE")
	if err != nil {
		panic(err)
	}
	ev.AddProperty(ical.NewRecurrenceRule(rule))
	custom := ical.NewRaw("X-CUSTOM", "http://example.com/")
	custom.Params = ical.NewParameters("X-P", "a,b", "X-P", "c")
	custom.DataType = ical.DataTypeURI
	ev.AddProperty(custom)

	alarm := ical.NewComponent(ical.ComponentAlarm)
	alarm.AddProperty(ical.NewText(ical.TypeAction, "DISPLAY"))
	alarm.AddProperty(ical.NewRelativeTrigger(ical.Duration{Negative: true, Minutes: 15}, ical.RelatedEnd))
	ev.AddComponent(alarm)

	cal.AddComponent(ev)
	return cal
}

func TestJCalWriter(t *testing.T) {
	convey.Convey("jCal writing", t, func() {
		out, err := WriteString(sampleCalendar())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("a calendar is a name, properties and components", func() {
			convey.So(out, convey.ShouldStartWith, `["vcalendar",[["version",{},"text","2.0"],`)
			convey.So(out, convey.ShouldEndWith, "]\n")
			convey.So(out, convey.ShouldContainSubstring, `["valarm",[["action",{},"text","DISPLAY"],`)
		})

		convey.Convey("values keep their JSON types", func() {
			convey.So(out, convey.ShouldContainSubstring, `["dtstart",{},"date-time","2024-04-15T12:00:00Z"]`)
			convey.So(out, convey.ShouldContainSubstring, `["dtend",{},"date","2024-04-16"]`)
			convey.So(out, convey.ShouldContainSubstring, `["geo",{},"float",[37.386013,-122.082932]]`)
			convey.So(out, convey.ShouldContainSubstring, `["sequence",{},"integer",2]`)
			convey.So(out, convey.ShouldContainSubstring, `["rrule",{},"recur",{"byday":["MO","WE"],"count":4,"freq":"WEEKLY"}]`)
			convey.So(out, convey.ShouldContainSubstring, `["summary",{},"text","Lunch <with> Bob & co"]`)
		})

		convey.Convey("parameters are an object, repeated values an array", func() {
			convey.So(out, convey.ShouldContainSubstring, `["x-custom",{"x-p":["a,b","c"]},"uri","http://example.com/"]`)
			convey.So(out, convey.ShouldContainSubstring, `["trigger",{"related":"END"},"duration","-PT15M"]`)
		})

		convey.Convey("an unscribed tree writes nothing", func() {
			var buf bytes.Buffer
			err := NewWriter(&buf, stream.WithRegistry(scribe.NewEmptyRegistry())).Write(sampleCalendar())
			var ue *ical.UnscribedTypesError
			convey.So(errors.As(err, &ue), convey.ShouldBeTrue)
			convey.So(buf.Len(), convey.ShouldEqual, 0)
		})

		convey.Convey("1.0-only properties are skipped", func() {
			cal := sampleCalendar()
			cal.AddProperty(&ical.Daylight{})
			out, err := WriteString(cal)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldNotContainSubstring, "daylight")
		})

		convey.Convey("pretty output is indented", func() {
			out, err := WriteString(sampleCalendar(), stream.WithPretty(true))
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldStartWith, "[\n  \"vcalendar\",\n  [\n")
		})
	})
}

func TestJCalReader(t *testing.T) {
	convey.Convey("jCal reading", t, func() {
		convey.Convey("round trips the written tree", func() {
			for _, pretty := range []bool{false, true} {
				tree := sampleCalendar()
				out, err := WriteString(tree, stream.WithPretty(pretty))
				convey.So(err, convey.ShouldBeNil)
				got, err := ParseString(out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cmp.Diff(tree, got, treeOpts), convey.ShouldBeEmpty)
			}
		})

		convey.Convey("reads successive values and arrays of calendars", func() {
			one, _ := WriteString(sampleCalendar())
			doc := one + "[" + strings.TrimSpace(one) + "," + strings.TrimSpace(one) + "]"
			cals, err := ParseAll(strings.NewReader(doc))
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(cals), convey.ShouldEqual, 3)
		})

		convey.Convey("an empty stream is io.EOF", func() {
			cals, err := ParseAll(strings.NewReader(""))
			convey.So(err, convey.ShouldBeNil)
			convey.So(cals, convey.ShouldBeEmpty)
		})

		convey.Convey("unknown properties become raw", func() {
			cal, err := ParseString(`["vcalendar",[["x-size",{},"integer",3],["x-list",{"x-a":"1"},"unknown","a","b"]],[]]`)
			convey.So(err, convey.ShouldBeNil)
			raws := cal.PropertiesOf(ical.TypeRaw)
			convey.So(len(raws), convey.ShouldEqual, 2)
			size := raws[0].(*ical.Raw)
			convey.So(size.DataType, convey.ShouldEqual, ical.DataTypeInteger)
			convey.So(size.Value, convey.ShouldEqual, "3")
			list := raws[1].(*ical.Raw)
			convey.So(list.DataType, convey.ShouldEqual, ical.DataTypeNone)
			convey.So(list.Value, convey.ShouldEqual, "a,b")
			convey.So(list.Params.Get("X-A"), convey.ShouldEqual, "1")
		})

		convey.Convey("a bad value is skipped with a warning", func() {
			r := NewReader(strings.NewReader(`["vcalendar",[],[["vevent",[["geo",{},"float",["north",1]]],[]]]]`))
			cal, err := r.ReadNext()
			convey.So(err, convey.ShouldBeNil)
			convey.So(cal.Components()[0].Property(ical.TypeGeo), convey.ShouldBeNil)
			convey.So(len(r.Warnings()), convey.ShouldEqual, 1)
		})

		convey.Convey("the fail policy stops reading", func() {
			_, err := ParseString(`["vcalendar",[["geo",{},"float",["north",1]]],[]]`, stream.WithParseErrorPolicy(ical.ParseErrorFail))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("malformed structure is rejected", func() {
			for _, doc := range []string{
				`["vcalendar",{},[]]`,
				`["vcalendar",[["summary"]],[]]`,
				`["vcalendar",[[1,{},"text","x"]],[]]`,
				`["vcalendar",[["summary",[],"text","x"]],[]]`,
				`[1,2]`,
			} {
				_, err := ParseString(doc)
				convey.So(errors.Is(err, ErrMalformed), convey.ShouldBeTrue)
			}
		})

		convey.Convey("invalid JSON is an error", func() {
			_, err := ParseString(`["vcalendar",`)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, ErrMalformed), convey.ShouldBeFalse)
		})
	})
}
