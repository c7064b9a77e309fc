package ical

import (
	"errors"
	"io"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestParameters(t *testing.T) {
	convey.Convey("Parameters", t, func() {
		p := NewParameters("cn", "Jane", "DELEGATED-TO", "a", "delegated-to", "b")

		convey.Convey("names are case-insensitive and keep insertion order", func() {
			convey.So(p.Get("CN"), convey.ShouldEqual, "Jane")
			convey.So(p.GetAll("Delegated-To"), convey.ShouldResemble, []string{"a", "b"})
			convey.So(p.Names(), convey.ShouldResemble, []string{"CN", "DELEGATED-TO"})
			convey.So(p.Get("RSVP"), convey.ShouldEqual, "")
			convey.So(p.Has("rsvp"), convey.ShouldBeFalse)
		})

		convey.Convey("Replace and Remove", func() {
			p.Replace("delegated-to", "c")
			convey.So(p.GetAll("DELEGATED-TO"), convey.ShouldResemble, []string{"c"})
			convey.So(p.Names(), convey.ShouldResemble, []string{"CN", "DELEGATED-TO"})
			p.Replace("CN")
			convey.So(p.Has("CN"), convey.ShouldBeFalse)
			p.Remove("missing")
			convey.So(p.Len(), convey.ShouldEqual, 1)
		})

		convey.Convey("Clone is independent", func() {
			c := p.Clone()
			convey.So(c.Equal(&p), convey.ShouldBeTrue)
			c.Put("CN", "Bob")
			convey.So(c.Equal(&p), convey.ShouldBeFalse)
			convey.So(p.GetAll("CN"), convey.ShouldResemble, []string{"Jane"})
		})

		convey.Convey("GetAll returns a copy", func() {
			vs := p.GetAll("DELEGATED-TO")
			vs[0] = "changed"
			convey.So(p.Get("DELEGATED-TO"), convey.ShouldEqual, "a")
		})

		convey.Convey("VALUE and TZID helpers", func() {
			var q Parameters
			q.SetDataType(DataTypeDate)
			convey.So(q.Get(ParamValue), convey.ShouldEqual, "DATE")
			convey.So(q.DataType(), convey.ShouldEqual, DataTypeDate)
			q.SetDataType(DataTypeNone)
			convey.So(q.Has(ParamValue), convey.ShouldBeFalse)
			q.SetTzid("America/New_York")
			convey.So(q.Tzid(), convey.ShouldEqual, "America/New_York")
			q.SetTzid("")
			convey.So(q.Len(), convey.ShouldEqual, 0)
		})
	})
}

func TestComponent(t *testing.T) {
	convey.Convey("Component", t, func() {
		ev := NewComponent(ComponentEvent)
		ev.AddProperty(NewText(TypeSummary, "a"))
		ev.AddProperty(NewText(TypeUID, "1"))
		ev.AddProperty(NewText(TypeSummary, "b"))

		convey.Convey("properties are grouped by type in first-insertion order", func() {
			ps := ev.Properties()
			convey.So(len(ps), convey.ShouldEqual, 3)
			convey.So(ps[0].(*Text).Value, convey.ShouldEqual, "a")
			convey.So(ps[1].(*Text).Value, convey.ShouldEqual, "b")
			convey.So(ps[2].(*Text).Value, convey.ShouldEqual, "1")
			convey.So(ev.Text(TypeSummary), convey.ShouldEqual, "a")
			convey.So(ev.PropertyTypes(), convey.ShouldResemble, []PropertyType{TypeSummary, TypeUID})
		})

		convey.Convey("SetProperty replaces every instance", func() {
			ev.SetProperty(NewText(TypeSummary, "c"))
			convey.So(len(ev.PropertiesOf(TypeSummary)), convey.ShouldEqual, 1)
			convey.So(ev.PropertyTypes(), convey.ShouldResemble, []PropertyType{TypeUID, TypeSummary})
		})

		convey.Convey("PrependProperty moves the type to the front", func() {
			ev.PrependProperty(NewText(TypeUID, "2"))
			convey.So(ev.PropertyTypes(), convey.ShouldResemble, []PropertyType{TypeUID, TypeSummary})
			convey.So(ev.Text(TypeUID), convey.ShouldEqual, "2")
			convey.So(len(ev.PropertiesOf(TypeUID)), convey.ShouldEqual, 1)
		})

		convey.Convey("RemoveProperty drops one instance", func() {
			first := ev.Property(TypeSummary)
			ev.RemoveProperty(first)
			convey.So(ev.Text(TypeSummary), convey.ShouldEqual, "b")
			ev.RemoveProperty(ev.Property(TypeSummary))
			convey.So(ev.PropertyTypes(), convey.ShouldResemble, []PropertyType{TypeUID})
		})

		convey.Convey("children", func() {
			cal := NewCalendar()
			cal.AddComponent(ev)
			alarm := NewComponent(ComponentAlarm)
			ev.AddComponent(alarm)
			convey.So(cal.HasComponent(ev), convey.ShouldBeTrue)
			convey.So(cal.HasComponent(alarm), convey.ShouldBeFalse)
			convey.So(len(ev.ComponentsOf(ComponentAlarm)), convey.ShouldEqual, 1)

			var order []ComponentType
			cal.Walk(func(c *Component) { order = append(order, c.Type) })
			convey.So(order, convey.ShouldResemble, []ComponentType{ComponentCalendar, ComponentEvent, ComponentAlarm})

			convey.So(func() { alarm.AddComponent(cal) }, convey.ShouldPanic)
			convey.So(func() { cal.AddComponent(cal) }, convey.ShouldPanic)

			ev.RemoveComponent(alarm)
			convey.So(ev.Components(), convey.ShouldBeEmpty)
		})
	})
}

func TestRoles(t *testing.T) {
	convey.Convey("ROLE values are tied to versions", t, func() {
		convey.So(RoleOf("organizer"), convey.ShouldResemble, RoleOrganizer)
		convey.So(RoleOrganizer.Supported(V1_0), convey.ShouldBeTrue)
		convey.So(RoleOrganizer.Supported(V2_0), convey.ShouldBeFalse)
		convey.So(RoleChair.Supported(V2_0Deprecated), convey.ShouldBeTrue)

		x := RoleOf("x-observer")
		convey.So(x.Value(), convey.ShouldEqual, "X-OBSERVER")
		convey.So(x.Supported(V1_0), convey.ShouldBeTrue)
		convey.So(x.Supported(V2_0), convey.ShouldBeTrue)
		convey.So(Role{}.IsZero(), convey.ShouldBeTrue)
	})
}

func TestErrors(t *testing.T) {
	convey.Convey("error messages", t, func() {
		convey.So(CannotParse(CodeGeoLatitude, "north").Error(), convey.ShouldEqual, `ical: could not parse latitude "north"`)
		convey.So(CannotParse(CodeGeoMissing).Error(), convey.ShouldEqual, "ical: value must contain a latitude and a longitude")
		convey.So(CannotParse(99, "x").Error(), convey.ShouldEqual, "ical: cannot parse (code 99) [x]")
		convey.So(MissingElements("latitude", "longitude").Error(), convey.ShouldEqual, "ical: missing xml elements: latitude, longitude")
		convey.So((&MalformedLineError{Line: "X", LineNum: 4}).Error(), convey.ShouldEqual, `ical:4: malformed line "X"`)

		err := error(&IOError{Op: "read", Err: io.ErrUnexpectedEOF})
		convey.So(errors.Is(err, io.ErrUnexpectedEOF), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldEqual, "ical: read: unexpected EOF")
	})
}
