package ical

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func newYorkZone() *Component {
	tz := NewComponent(ComponentTimezone)
	tz.AddProperty(NewText(TypeTimezoneID, "America/New_York"))

	std := NewComponent(ComponentStandard)
	std.AddProperty(NewDateTime(TypeDateStart, time.Date(1970, 11, 1, 2, 0, 0, 0, time.UTC)))
	std.AddProperty(NewUTCOffset(TypeOffsetFrom, -4*time.Hour))
	std.AddProperty(NewUTCOffset(TypeOffsetTo, -5*time.Hour))
	std.AddProperty(NewText(TypeTimezoneName, "EST"))
	stdRule, _ := ParseRecurrence("FREQ=YEARLY;BYMONTH=11;BYDAY=1SU")
	std.AddProperty(NewRecurrenceRule(stdRule))

	dst := NewComponent(ComponentDaylight)
	dst.AddProperty(NewDateTime(TypeDateStart, time.Date(1970, 3, 8, 2, 0, 0, 0, time.UTC)))
	dst.AddProperty(NewUTCOffset(TypeOffsetFrom, -5*time.Hour))
	dst.AddProperty(NewUTCOffset(TypeOffsetTo, -4*time.Hour))
	dst.AddProperty(NewText(TypeTimezoneName, "EDT"))
	dstRule, _ := ParseRecurrence("FREQ=YEARLY;BYMONTH=3;BYDAY=2SU")
	dst.AddProperty(NewRecurrenceRule(dstRule))

	tz.AddComponent(std)
	tz.AddComponent(dst)
	return tz
}

func TestRecurrence(t *testing.T) {
	convey.Convey("Recurrence", t, func() {
		convey.Convey("the text form round trips, unknown parts included", func() {
			for _, s := range []string{
				"FREQ=YEARLY;BYMONTH=3;BYDAY=2SU",
				"FREQ=WEEKLY;COUNT=4;BYDAY=MO,WE",
				"FREQ=DAILY;UNTIL=20240501T000000Z;INTERVAL=2",
				"FREQ=MONTHLY;BYMONTHDAY=-1;WKST=SU",
			} {
				r, err := ParseRecurrence(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.String(), convey.ShouldEqual, s)
			}
		})

		convey.Convey("parts are typed", func() {
			r, err := ParseRecurrence("freq=yearly;byday=-1SU,2MO;bymonth=10")
			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Frequency, convey.ShouldEqual, FrequencyYearly)
			convey.So(r.ByDay, convey.ShouldResemble, []WeekdayNum{{N: -1, Day: time.Sunday}, {N: 2, Day: time.Monday}})
			convey.So(r.ByMonth, convey.ShouldResemble, []int{10})
		})

		convey.Convey("bad rules are rejected", func() {
			for _, s := range []string{"FREQ", "COUNT=x", "BYMONTH=1,a", "UNTIL=tomorrow"} {
				_, err := ParseRecurrence(s)
				convey.So(err, convey.ShouldNotBeNil)
			}
		})

		convey.Convey("yearly rules expand", func() {
			r, _ := ParseRecurrence("FREQ=YEARLY;BYMONTH=3;BYDAY=2SU")
			start := time.Date(2023, 3, 12, 2, 0, 0, 0, time.UTC)
			got := r.Occurrences(start, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
			convey.So(got, convey.ShouldResemble, []time.Time{
				start,
				time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC),
				time.Date(2025, 3, 9, 2, 0, 0, 0, time.UTC),
			})
		})

		convey.Convey("COUNT, UNTIL and negative month days bound the expansion", func() {
			start := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
			end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

			r, _ := ParseRecurrence("FREQ=YEARLY;COUNT=2")
			convey.So(len(r.Occurrences(start, end)), convey.ShouldEqual, 2)

			r, _ = ParseRecurrence("FREQ=YEARLY;UNTIL=20260101T000000Z")
			convey.So(len(r.Occurrences(start, end)), convey.ShouldEqual, 2)

			r, _ = ParseRecurrence("FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=-1;COUNT=2")
			convey.So(r.Occurrences(start, end), convey.ShouldResemble, []time.Time{
				time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC),
				time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC),
			})
		})

		convey.Convey("other frequencies yield the start only", func() {
			r, _ := ParseRecurrence("FREQ=WEEKLY")
			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			convey.So(r.Occurrences(start, start.AddDate(1, 0, 0)), convey.ShouldResemble, []time.Time{start})
			convey.So(r.Occurrences(start, start.AddDate(-1, 0, 0)), convey.ShouldBeNil)
		})
	})
}

func TestTimezone(t *testing.T) {
	convey.Convey("VTIMEZONE rules", t, func() {
		tz := newYorkZone()

		convey.Convey("onsets of a year are sorted", func() {
			onsets := TimezoneOnsets(tz, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
			convey.So(len(onsets), convey.ShouldEqual, 2)
			convey.So(onsets[0].Daylight, convey.ShouldBeTrue)
			convey.So(onsets[0].Name, convey.ShouldEqual, "EDT")
			convey.So(onsets[0].Local, convey.ShouldEqual, time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC))
			convey.So(onsets[0].Instant(), convey.ShouldEqual, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC))
			convey.So(onsets[1].Local, convey.ShouldEqual, time.Date(2024, 11, 3, 2, 0, 0, 0, time.UTC))
		})

		convey.Convey("OffsetAt resolves the observance in effect", func() {
			off, ok := OffsetAt(tz, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(off, convey.ShouldEqual, -4*time.Hour)

			off, _ = OffsetAt(tz, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
			convey.So(off, convey.ShouldEqual, -5*time.Hour)

			off, _ = OffsetAt(tz, time.Date(2024, 3, 10, 6, 59, 0, 0, time.UTC))
			convey.So(off, convey.ShouldEqual, -5*time.Hour)

			_, ok = OffsetAt(NewComponent(ComponentTimezone), time.Now())
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("TimezoneInfo tracks assignments", func() {
			info := NewTimezoneInfo()
			start := NewDateTime(TypeDateStart, time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC))
			info.Assign(start, tz)
			info.Assign(NewDateTime(TypeDateEnd, time.Now()), tz)

			got, ok := info.TimezoneFor(start)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(got, convey.ShouldEqual, tz)
			convey.So(len(info.Generated()), convey.ShouldEqual, 1)

			found, ok := info.Lookup("america/new_york")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(found, convey.ShouldEqual, tz)
			_, ok = info.Lookup("Europe/Paris")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
