package ical

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate          = "20060102"
	layoutFloating      = "20060102T150405"
	layoutUTC           = "20060102T150405Z"
	layoutExtendedDate  = "2006-01-02"
	layoutExtendedFloat = "2006-01-02T15:04:05"
	layoutExtendedUTC   = "2006-01-02T15:04:05Z"
)

// FormatDate writes t in basic (text format) or extended (xCal/jCal) form.
// Floating times are written from their wall clock without a zone marker.
func FormatDate(t time.Time, hasTime, floating, extended bool) string {
	switch {
	case !hasTime && extended:
		return t.Format(layoutExtendedDate)
	case !hasTime:
		return t.Format(layoutDate)
	case floating && extended:
		return t.Format(layoutExtendedFloat)
	case floating:
		return t.Format(layoutFloating)
	case extended:
		return t.UTC().Format(layoutExtendedUTC)
	default:
		return t.UTC().Format(layoutUTC)
	}
}

// ParseDate reads a DATE or DATE-TIME value in basic or extended form.
// Values without a "Z" suffix are floating and land in time.UTC by wall clock.
func ParseDate(s string) (t time.Time, hasTime, floating bool, err error) {
	s = strings.TrimSpace(s)
	layouts := []struct {
		layout   string
		hasTime  bool
		floating bool
	}{
		{layoutUTC, true, false},
		{layoutFloating, true, true},
		{layoutDate, false, false},
		{layoutExtendedUTC, true, false},
		{layoutExtendedFloat, true, true},
		{layoutExtendedDate, false, false},
	}
	for _, l := range layouts {
		if len(s) != len(l.layout) {
			continue
		}
		if v, perr := time.ParseInLocation(l.layout, s, time.UTC); perr == nil {
			return v, l.hasTime, l.floating, nil
		}
	}
	return time.Time{}, false, false, fmt.Errorf("invalid date %q", s)
}

// FormatOffset writes a UTC offset. Basic form is "+HHMM", extended "+HH:MM".
func FormatOffset(d time.Duration, extended bool) string {
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if extended {
		return fmt.Sprintf("%c%02d:%02d", sign, h, m)
	}
	return fmt.Sprintf("%c%02d%02d", sign, h, m)
}

// ParseOffset reads "+HH", "+HHMM", "+HH:MM" and their negative forms.
func ParseOffset(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimSpace(strings.Replace(s, "−", "-", 1))
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid utc offset %q", orig)
	}
	sign := time.Duration(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	s = strings.Replace(s, ":", "", 1)
	var h, m int
	switch len(s) {
	case 1, 2:
		if _, err := fmt.Sscanf(s, "%d", &h); err != nil {
			return 0, fmt.Errorf("invalid utc offset %q", orig)
		}
	case 4:
		if _, err := fmt.Sscanf(s, "%2d%2d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid utc offset %q", orig)
		}
	default:
		return 0, fmt.Errorf("invalid utc offset %q", orig)
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid utc offset %q", orig)
		}
	}
	return sign * (time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), nil
}
