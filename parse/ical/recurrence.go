package ical

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Frequency string

const (
	FrequencySecondly Frequency = "SECONDLY"
	FrequencyMinutely Frequency = "MINUTELY"
	FrequencyHourly   Frequency = "HOURLY"
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyYearly   Frequency = "YEARLY"
)

// WeekdayNum is a BYDAY entry such as "2SU" or "-1SU". N == 0 means every
// such weekday.
type WeekdayNum struct {
	N   int
	Day time.Weekday
}

var weekdayTokens = []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func (w WeekdayNum) String() string {
	if w.N == 0 {
		return weekdayTokens[w.Day]
	}
	return strconv.Itoa(w.N) + weekdayTokens[w.Day]
}

// RecurPart is a rule part kept verbatim because it has no typed field.
type RecurPart struct {
	Name   string
	Values []string
}

// Recurrence is the subset of an RRULE value this codec models. Parts it
// does not model are preserved in Extra.
type Recurrence struct {
	Frequency    Frequency
	Interval     int
	Count        int
	Until        time.Time
	UntilHasTime bool
	ByMonth      []int
	ByMonthDay   []int
	ByDay        []WeekdayNum
	Extra        []RecurPart
}

// Parts returns the rule as ordered name/value pairs, the shape shared by the
// text, xCal and jCal forms.
func (r Recurrence) Parts(extended bool) []RecurPart {
	var parts []RecurPart
	if r.Frequency != "" {
		parts = append(parts, RecurPart{Name: "FREQ", Values: []string{string(r.Frequency)}})
	}
	if !r.Until.IsZero() {
		parts = append(parts, RecurPart{Name: "UNTIL", Values: []string{FormatDate(r.Until, r.UntilHasTime, false, extended)}})
	}
	if r.Count > 0 {
		parts = append(parts, RecurPart{Name: "COUNT", Values: []string{strconv.Itoa(r.Count)}})
	}
	if r.Interval > 0 {
		parts = append(parts, RecurPart{Name: "INTERVAL", Values: []string{strconv.Itoa(r.Interval)}})
	}
	if len(r.ByMonth) > 0 {
		parts = append(parts, RecurPart{Name: "BYMONTH", Values: itoaAll(r.ByMonth)})
	}
	if len(r.ByMonthDay) > 0 {
		parts = append(parts, RecurPart{Name: "BYMONTHDAY", Values: itoaAll(r.ByMonthDay)})
	}
	if len(r.ByDay) > 0 {
		vals := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			vals[i] = d.String()
		}
		parts = append(parts, RecurPart{Name: "BYDAY", Values: vals})
	}
	return append(parts, r.Extra...)
}

// String returns the text form, e.g. "FREQ=YEARLY;BYMONTH=3;BYDAY=2SU".
func (r Recurrence) String() string {
	var b strings.Builder
	for i, p := range r.Parts(false) {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(strings.Join(p.Values, ","))
	}
	return b.String()
}

// ParseRecurrence reads the text form of an RRULE value.
func ParseRecurrence(s string) (Recurrence, error) {
	var parts []RecurPart
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		eq := strings.IndexByte(seg, '=')
		if eq <= 0 {
			return Recurrence{}, fmt.Errorf("invalid rule part %q", seg)
		}
		parts = append(parts, RecurPart{
			Name:   strings.ToUpper(seg[:eq]),
			Values: strings.Split(seg[eq+1:], ","),
		})
	}
	return RecurrenceFromParts(parts)
}

// RecurrenceFromParts builds a Recurrence from name/value pairs.
func RecurrenceFromParts(parts []RecurPart) (Recurrence, error) {
	var r Recurrence
	for _, p := range parts {
		name := strings.ToUpper(p.Name)
		if len(p.Values) == 0 {
			continue
		}
		first := strings.TrimSpace(p.Values[0])
		var err error
		switch name {
		case "FREQ":
			r.Frequency = Frequency(strings.ToUpper(first))
		case "UNTIL":
			r.Until, r.UntilHasTime, _, err = ParseDate(first)
		case "COUNT":
			r.Count, err = strconv.Atoi(first)
		case "INTERVAL":
			r.Interval, err = strconv.Atoi(first)
		case "BYMONTH":
			r.ByMonth, err = atoiAll(p.Values)
		case "BYMONTHDAY":
			r.ByMonthDay, err = atoiAll(p.Values)
		case "BYDAY":
			r.ByDay, err = parseWeekdays(p.Values)
		default:
			r.Extra = append(r.Extra, RecurPart{Name: name, Values: append([]string(nil), p.Values...)})
		}
		if err != nil {
			return Recurrence{}, fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return r, nil
}

func parseWeekdays(vals []string) ([]WeekdayNum, error) {
	out := make([]WeekdayNum, 0, len(vals))
	for _, v := range vals {
		v = strings.ToUpper(strings.TrimSpace(v))
		if len(v) < 2 {
			return nil, fmt.Errorf("invalid weekday %q", v)
		}
		tok := v[len(v)-2:]
		day := -1
		for i, t := range weekdayTokens {
			if t == tok {
				day = i
				break
			}
		}
		if day < 0 {
			return nil, fmt.Errorf("invalid weekday %q", v)
		}
		n := 0
		if num := v[:len(v)-2]; num != "" {
			var err error
			n, err = strconv.Atoi(num)
			if err != nil {
				return nil, fmt.Errorf("invalid weekday %q", v)
			}
		}
		out = append(out, WeekdayNum{N: n, Day: time.Weekday(day)})
	}
	return out, nil
}

func itoaAll(vs []int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func atoiAll(vs []string) ([]int, error) {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// =========================
// Expansion
// =========================

// Occurrences expands the rule from start (inclusive) through end (inclusive).
// Only YEARLY rules with BYMONTH/BYMONTHDAY/BYDAY are expanded; any other
// frequency yields start alone when it falls in range.
func (r Recurrence) Occurrences(start, end time.Time) []time.Time {
	if start.After(end) {
		return nil
	}
	if r.Frequency != FrequencyYearly {
		return []time.Time{start}
	}
	interval := r.Interval
	if interval <= 0 {
		interval = 1
	}
	months := r.ByMonth
	if len(months) == 0 {
		months = []int{int(start.Month())}
	}

	var out []time.Time
	for year := start.Year(); year <= end.Year(); year += interval {
		var inYear []time.Time
		for _, m := range months {
			inYear = append(inYear, r.daysInMonth(start, year, time.Month(m))...)
		}
		sort.Slice(inYear, func(i, j int) bool { return inYear[i].Before(inYear[j]) })
		for _, t := range inYear {
			if t.Before(start) || t.After(end) {
				continue
			}
			if !r.Until.IsZero() && t.After(r.Until) {
				return out
			}
			out = append(out, t)
			if r.Count > 0 && len(out) >= r.Count {
				return out
			}
		}
	}
	return out
}

func (r Recurrence) daysInMonth(start time.Time, year int, month time.Month) []time.Time {
	at := func(day int) time.Time {
		return time.Date(year, month, day, start.Hour(), start.Minute(), start.Second(), 0, start.Location())
	}
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var out []time.Time
	switch {
	case len(r.ByDay) > 0:
		for _, wd := range r.ByDay {
			var days []int
			for d := 1; d <= last; d++ {
				if at(d).Weekday() == wd.Day {
					days = append(days, d)
				}
			}
			switch {
			case wd.N == 0:
				for _, d := range days {
					out = append(out, at(d))
				}
			case wd.N > 0 && wd.N <= len(days):
				out = append(out, at(days[wd.N-1]))
			case wd.N < 0 && -wd.N <= len(days):
				out = append(out, at(days[len(days)+wd.N]))
			}
		}
	case len(r.ByMonthDay) > 0:
		for _, d := range r.ByMonthDay {
			if d < 0 {
				d = last + d + 1
			}
			if d >= 1 && d <= last {
				out = append(out, at(d))
			}
		}
	default:
		if start.Day() <= last {
			out = append(out, at(start.Day()))
		}
	}
	return out
}
