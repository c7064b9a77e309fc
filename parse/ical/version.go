package ical

import "strings"

// Version identifies an iCalendar wire generation.
type Version int

const (
	VersionUnknown Version = iota
	// V1_0 is the legacy vCalendar 1.0 format.
	V1_0
	// V2_0Deprecated is iCalendar as defined by RFC 2445.
	V2_0Deprecated
	// V2_0 is iCalendar as defined by RFC 5545.
	V2_0
)

// String returns the value written in the VERSION property.
func (v Version) String() string {
	switch v {
	case V1_0:
		return "1.0"
	case V2_0Deprecated, V2_0:
		return "2.0"
	default:
		return ""
	}
}

// IsLegacy reports whether v uses the vCalendar 1.0 rules.
func (v Version) IsLegacy() bool {
	return v == V1_0
}

// ParseVersion resolves a VERSION value. "2.0" resolves to V2_0.
func ParseVersion(s string) (Version, bool) {
	switch strings.TrimSpace(s) {
	case "1.0":
		return V1_0, true
	case "2.0":
		return V2_0, true
	default:
		return VersionUnknown, false
	}
}

// Versions lists every known version.
func Versions() []Version {
	return []Version{V1_0, V2_0Deprecated, V2_0}
}
