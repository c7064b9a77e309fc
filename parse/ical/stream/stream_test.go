package stream

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/ical/parse/ical"
	"github.com/dzjyyds666/ical/parse/ical/scribe"
)

type recorder struct {
	ical.NopObserver
	skipped   []string
	converted []string
}

func (r *recorder) PropertySkipped(name, reason string) {
	r.skipped = append(r.skipped, name+":"+reason)
}

func (r *recorder) ComponentConverted(from, to string) {
	r.converted = append(r.converted, from+">"+to)
}

func TestWriteSteps(t *testing.T) {
	convey.Convey("write-side steps", t, func() {
		cfg := NewConfig()

		convey.Convey("a calendar without VERSION gets one first", func() {
			cal := ical.NewCalendar()
			cal.AddProperty(ical.NewText(ical.TypeProductID, "x"))
			props := Properties(cal, ical.V1_0)
			convey.So(len(props), convey.ShouldEqual, 2)
			convey.So(props[0].(*ical.VersionProperty).Version, convey.ShouldEqual, ical.V1_0)

			cal.AddProperty(ical.NewVersionProperty(ical.V2_0))
			convey.So(len(Properties(cal, ical.V1_0)), convey.ShouldEqual, 2)
			convey.So(len(Properties(ical.NewComponent(ical.ComponentEvent), ical.V2_0)), convey.ShouldEqual, 0)
		})

		convey.Convey("generated timezones are added once", func() {
			tz := ical.NewComponent(ical.ComponentTimezone)
			info := ical.NewTimezoneInfo()
			info.Register(tz)
			cfg := NewConfig(WithTimezones(info))

			cal := ical.NewCalendar()
			cal.AddComponent(ical.NewComponent(ical.ComponentEvent))
			convey.So(len(cfg.Children(cal)), convey.ShouldEqual, 2)
			cal.AddComponent(tz)
			convey.So(len(cfg.Children(cal)), convey.ShouldEqual, 2)
			convey.So(len(cfg.Children(ical.NewComponent(ical.ComponentEvent))), convey.ShouldEqual, 0)
		})

		convey.Convey("the scribe check names every missing type", func() {
			cfg := NewConfig(WithRegistry(scribe.NewEmptyRegistry()))
			cal := ical.NewCalendar()
			cal.AddProperty(ical.NewText(ical.TypeSummary, "x"))
			err := cfg.CheckScribes(cal)
			var ue *ical.UnscribedTypesError
			convey.So(errors.As(err, &ue), convey.ShouldBeTrue)
			convey.So(ue.Types, convey.ShouldContain, string(ical.ComponentCalendar))
			convey.So(cfg.CheckScribes(ical.NewRawComponent("X-THING")), convey.ShouldBeNil)
		})

		convey.Convey("VALUE is explicit only when it differs from the default", func() {
			ctx := ical.NewContext(ical.V2_0, nil)
			prep, err := cfg.Prepare(ical.NewDate(ical.TypeDateStart, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)), ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(prep.Name, convey.ShouldEqual, "DTSTART")
			convey.So(prep.DataType, convey.ShouldEqual, ical.DataTypeDate)
			convey.So(prep.Explicit, convey.ShouldBeTrue)

			prep, err = cfg.Prepare(ical.NewDateTime(ical.TypeDateStart, time.Now()), ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(prep.Explicit, convey.ShouldBeFalse)
		})

		convey.Convey("Skipped recognizes only the skip signal", func() {
			rec := &recorder{}
			cfg := NewConfig(WithObserver(rec))
			convey.So(cfg.Skipped("DAYLIGHT", ical.ErrSkipProperty), convey.ShouldBeTrue)
			convey.So(cfg.Skipped("GEO", errors.New("boom")), convey.ShouldBeFalse)
			convey.So(rec.skipped, convey.ShouldResemble, []string{"DAYLIGHT:skip"})
		})

		convey.Convey("daylight years", func() {
			cal := ical.NewCalendar()
			ev := ical.NewComponent(ical.ComponentEvent)
			ev.AddProperty(ical.NewDateTime(ical.TypeDateStart, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)))
			cal.AddComponent(ev)

			from, to := cfg.DaylightYears(cal)
			convey.So([]int{from, to}, convey.ShouldResemble, []int{2021, 2021})

			fixed := NewConfig(WithDaylightYears(0, 2030))
			from, to = fixed.DaylightYears(cal)
			convey.So([]int{from, to}, convey.ShouldResemble, []int{2030, 2030})

			from, _ = addressable(NewConfig()).DaylightYears(nil)
			convey.So(from, convey.ShouldEqual, time.Now().Year())
		})
	})
}

func TestReadSteps(t *testing.T) {
	convey.Convey("read-side steps", t, func() {
		parseErr := ical.CannotParse(ical.CodeGeoLatitude, "north")

		convey.Convey("the parse policy decides the fate of a bad value", func() {
			rec := &recorder{}
			ctx := ical.NewContext(ical.V2_0, nil)
			keep, err := addressable(NewConfig(WithObserver(rec))).ParseFailed(ctx, 3, "GEO", parseErr)
			convey.So(err, convey.ShouldBeNil)
			convey.So(keep, convey.ShouldBeFalse)
			convey.So(len(ctx.Warnings()), convey.ShouldEqual, 1)
			convey.So(rec.skipped, convey.ShouldResemble, []string{"GEO:unparseable"})

			keep, err = addressable(NewConfig(WithParseErrorPolicy(ical.ParseErrorRaw))).ParseFailed(ctx, 3, "GEO", parseErr)
			convey.So(err, convey.ShouldBeNil)
			convey.So(keep, convey.ShouldBeTrue)

			_, err = addressable(NewConfig(WithParseErrorPolicy(ical.ParseErrorFail))).ParseFailed(ctx, 3, "GEO", parseErr)
			convey.So(err.Error(), convey.ShouldStartWith, "line 3: GEO: ")
			convey.So(errors.Is(err, parseErr), convey.ShouldBeTrue)

			_, err = addressable(NewConfig(WithParseErrorPolicy(ical.ParseErrorFail))).ParseFailed(ctx, 0, "GEO", parseErr)
			convey.So(err.Error(), convey.ShouldStartWith, "GEO: ")
		})

		convey.Convey("other errors always stop the read", func() {
			boom := errors.New("boom")
			_, err := addressable(NewConfig()).ParseFailed(ical.NewContext(ical.V2_0, nil), 1, "X", boom)
			convey.So(err, convey.ShouldEqual, boom)
		})

		convey.Convey("unknown component names become raw", func() {
			convey.So(addressable(NewConfig()).NewComponent("VEVENT").Type, convey.ShouldEqual, ical.ComponentEvent)
			raw := addressable(NewConfig()).NewComponent("X-WIDGET")
			convey.So(raw.Type, convey.ShouldEqual, ical.ComponentRaw)
			convey.So(raw.Name, convey.ShouldEqual, "X-WIDGET")
		})

		convey.Convey("1.0 organizers are rewritten, 2.0 attendees kept", func() {
			rec := &recorder{}
			cfg := NewConfig(WithObserver(rec))
			a := ical.NewAttendee("Jane", "jane@example.com")
			a.Role = ical.RoleOrganizer

			ev := ical.NewComponent(ical.ComponentEvent)
			cfg.AddParsed(ev, "ATTENDEE", a, ical.NewContext(ical.V1_0, nil))
			convey.So(ev.Property(ical.TypeOrganizer), convey.ShouldNotBeNil)
			convey.So(rec.converted, convey.ShouldResemble, []string{"ATTENDEE>ORGANIZER"})

			ev = ical.NewComponent(ical.ComponentEvent)
			cfg.AddParsed(ev, "ATTENDEE", a, ical.NewContext(ical.V2_0, nil))
			convey.So(ev.Property(ical.TypeAttendee), convey.ShouldEqual, a)
		})

		convey.Convey("Finish places the declared VERSION first", func() {
			cal := ical.NewCalendar()
			cal.AddProperty(ical.NewText(ical.TypeProductID, "x"))
			Finish(cal, true, ical.V1_0)
			convey.So(cal.PropertyTypes()[0], convey.ShouldEqual, ical.TypeVersion)

			other := ical.NewCalendar()
			Finish(other, false, ical.V1_0)
			convey.So(other.Property(ical.TypeVersion), convey.ShouldBeNil)
		})
	})
}

// addressable returns a pointer to c so pointer-receiver methods can be
// called on a NewConfig result.
func addressable(c Config) *Config { return &c }
