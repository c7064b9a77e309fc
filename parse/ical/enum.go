package ical

import "strings"

// versionSet is a bitmask of versions a parameter value belongs to.
type versionSet uint8

func versionsOf(vs ...Version) versionSet {
	if len(vs) == 0 {
		return versionSet(0xFF)
	}
	var s versionSet
	for _, v := range vs {
		s |= 1 << uint(v)
	}
	return s
}

// VersionedEnum is an enumerated parameter value that only some versions define.
type VersionedEnum struct {
	value    string
	versions versionSet
}

func newVersionedEnum(value string, vs ...Version) VersionedEnum {
	return VersionedEnum{value: value, versions: versionsOf(vs...)}
}

func (e VersionedEnum) Value() string {
	return e.value
}

// Supported reports whether the value exists in version v.
func (e VersionedEnum) Supported(v Version) bool {
	return e.versions&(1<<uint(v)) != 0
}

func (e VersionedEnum) IsZero() bool {
	return e.value == ""
}

// Role is the value of the ROLE parameter.
type Role struct {
	VersionedEnum
}

var (
	RoleChair          = Role{newVersionedEnum("CHAIR", V2_0Deprecated, V2_0)}
	RoleRequired       = Role{newVersionedEnum("REQ-PARTICIPANT", V2_0Deprecated, V2_0)}
	RoleOptional       = Role{newVersionedEnum("OPT-PARTICIPANT", V2_0Deprecated, V2_0)}
	RoleNonParticipant = Role{newVersionedEnum("NON-PARTICIPANT", V2_0Deprecated, V2_0)}
	RoleAttendee       = Role{newVersionedEnum("ATTENDEE", V1_0)}
	RoleOrganizer      = Role{newVersionedEnum("ORGANIZER", V1_0)}
	RoleOwner          = Role{newVersionedEnum("OWNER", V1_0)}
	RoleDelegate       = Role{newVersionedEnum("DELEGATE", V1_0)}
)

var knownRoles = []Role{
	RoleChair, RoleRequired, RoleOptional, RoleNonParticipant,
	RoleAttendee, RoleOrganizer, RoleOwner, RoleDelegate,
}

// RoleOf returns the known role matching value, or a role valid in every
// version for experimental values.
func RoleOf(value string) Role {
	for _, r := range knownRoles {
		if strings.EqualFold(r.value, value) {
			return r
		}
	}
	return Role{newVersionedEnum(strings.ToUpper(value))}
}
