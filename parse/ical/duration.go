package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is an RFC 5545 duration value ("-P1DT2H", "PT15M", "P2W").
type Duration struct {
	Negative bool
	Weeks    int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
}

// DurationOf converts a time.Duration, keeping whole seconds.
func DurationOf(d time.Duration) Duration {
	var out Duration
	if d < 0 {
		out.Negative = true
		d = -d
	}
	secs := int64(d / time.Second)
	out.Days = int(secs / 86400)
	secs %= 86400
	out.Hours = int(secs / 3600)
	secs %= 3600
	out.Minutes = int(secs / 60)
	out.Seconds = int(secs % 60)
	return out
}

// Std returns the equivalent time.Duration.
func (d Duration) Std() time.Duration {
	total := time.Duration(d.Weeks)*7*24*time.Hour +
		time.Duration(d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
	if d.Negative {
		return -total
	}
	return total
}

func (d Duration) IsZero() bool {
	return d.Weeks == 0 && d.Days == 0 && d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

func (d Duration) String() string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if d.Weeks > 0 {
		b.WriteString(strconv.Itoa(d.Weeks))
		b.WriteByte('W')
	}
	if d.Days > 0 {
		b.WriteString(strconv.Itoa(d.Days))
		b.WriteByte('D')
	}
	if d.Hours > 0 || d.Minutes > 0 || d.Seconds > 0 {
		b.WriteByte('T')
		if d.Hours > 0 {
			b.WriteString(strconv.Itoa(d.Hours))
			b.WriteByte('H')
		}
		if d.Minutes > 0 {
			b.WriteString(strconv.Itoa(d.Minutes))
			b.WriteByte('M')
		}
		if d.Seconds > 0 {
			b.WriteString(strconv.Itoa(d.Seconds))
			b.WriteByte('S')
		}
	}
	if d.IsZero() {
		b.WriteString("T0S")
	}
	return b.String()
}

// ParseDuration parses an RFC 5545 duration.
func ParseDuration(s string) (Duration, error) {
	var d Duration
	orig := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if strings.HasPrefix(s, "-") {
		d.Negative = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 2 {
		return Duration{}, fmt.Errorf("invalid duration %q", orig)
	}
	s = s[1:]
	inTime := false
	num := -1
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			if num < 0 {
				num = 0
			}
			num = num*10 + int(ch-'0')
			continue
		}
		if ch == 'T' {
			if inTime || num >= 0 {
				return Duration{}, fmt.Errorf("invalid duration %q", orig)
			}
			inTime = true
			continue
		}
		if num < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q", orig)
		}
		switch {
		case ch == 'W' && !inTime:
			d.Weeks = num
		case ch == 'D' && !inTime:
			d.Days = num
		case ch == 'H' && inTime:
			d.Hours = num
		case ch == 'M' && inTime:
			d.Minutes = num
		case ch == 'S' && inTime:
			d.Seconds = num
		default:
			return Duration{}, fmt.Errorf("invalid duration %q", orig)
		}
		num = -1
	}
	if num >= 0 {
		return Duration{}, fmt.Errorf("invalid duration %q", orig)
	}
	return d, nil
}
