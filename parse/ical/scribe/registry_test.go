package scribe

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/ical/parse/ical"
)

func TestRegistry(t *testing.T) {
	convey.Convey("registry", t, func() {
		r := NewRegistry()

		convey.Convey("resolves by type and by versioned name", func() {
			s, ok := r.Property(ical.TypeGeo)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(s.PropertyName(nil, ical.V2_0), convey.ShouldEqual, "GEO")

			s, ok = r.PropertyByName("dcreated", ical.V1_0)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(s.PropertyType(), convey.ShouldEqual, ical.TypeCreated)
			_, ok = r.PropertyByName("DCREATED", ical.V2_0)
			convey.So(ok, convey.ShouldBeFalse)

			c, ok := r.ComponentByName("vevent")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(c.Type, convey.ShouldEqual, ical.ComponentEvent)
		})

		convey.Convey("unknown types fall back to raw", func() {
			s := r.PropertyOrRaw(ical.PropertyType("X-Thing"))
			convey.So(s.PropertyType(), convey.ShouldEqual, ical.TypeRaw)
			convey.So(s.PropertyName(ical.NewRaw("X-WR-CALNAME", "x"), ical.V2_0), convey.ShouldEqual, "X-WR-CALNAME")
		})

		convey.Convey("registering replaces the scribe and its names", func() {
			r.RegisterProperty(TextScribe(ical.TypeSummary, "X-SUMMARY"))
			_, ok := r.PropertyByName("SUMMARY", ical.V2_0)
			convey.So(ok, convey.ShouldBeFalse)
			s, ok := r.PropertyByName("X-SUMMARY", ical.V2_0)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(s.PropertyType(), convey.ShouldEqual, ical.TypeSummary)
		})

		convey.Convey("unscribed lists missing types sorted, never raw", func() {
			empty := NewEmptyRegistry()
			cal := ical.NewCalendar()
			ev := ical.NewComponent(ical.ComponentEvent)
			ev.AddProperty(ical.NewText(ical.TypeSummary, "x"))
			ev.AddProperty(ical.NewRaw("X-FOO", "y"))
			cal.AddComponent(ev)
			cal.AddComponent(ical.NewRawComponent("X-BLOCK"))
			convey.So(empty.Unscribed(cal), convey.ShouldResemble, []string{"Calendar", "Event", "Summary"})
			convey.So(r.Unscribed(cal), convey.ShouldBeEmpty)
		})

		convey.Convey("type lists are sorted", func() {
			types := r.ComponentTypes()
			convey.So(len(types), convey.ShouldEqual, 9)
			convey.So(types[0], convey.ShouldEqual, ical.ComponentAlarm)
		})
	})
}
