// Package access derives an actor's access level from group membership.
//
// Group extraction from raw token claims is messy (Cognito emits the
// cognito:groups claim as either a comma-joined string or a native list),
// so the claim parsing lives here at the boundary and the rest of the
// system only ever sees a normalized []string and a Level.
package access

// Level is an ordered access level. The zero value means no access, which
// is distinct from read access: an actor with LevelNone is not a member of
// any flow-config group at all.
type Level int

const (
	LevelNone Level = iota
	LevelRead
	LevelEdit
	LevelFull
)

// String returns the API representation of the level.
// LevelNone has no API representation; it renders as an empty string.
func (l Level) String() string {
	switch l {
	case LevelRead:
		return "Read"
	case LevelEdit:
		return "Edit"
	case LevelFull:
		return "Full"
	default:
		return ""
	}
}

// AtLeast reports whether the level grants at least the given capability.
func (l Level) AtLeast(min Level) bool {
	return l >= min
}

// Groups holds the well-known group names that map onto access levels.
type Groups struct {
	Admin string
	Edit  string
	Read  string
}

// DefaultGroups are the group names provisioned by the stock deployment.
func DefaultGroups() Groups {
	return Groups{
		Admin: "FlowConfigAdmin",
		Edit:  "FlowConfigEdit",
		Read:  "FlowConfigRead",
	}
}

// DeriveLevel maps a normalized set of group memberships to an access level.
// Groups are checked in strict priority order (admin, then edit, then read)
// and the first match wins: an actor in both the admin and read groups gets
// LevelFull, not a union of capabilities. Actors in none of the three groups
// get LevelNone.
func DeriveLevel(memberships []string, groups Groups) Level {
	has := func(name string) bool {
		for _, m := range memberships {
			if m == name {
				return true
			}
		}
		return false
	}

	switch {
	case has(groups.Admin):
		return LevelFull
	case has(groups.Edit):
		return LevelEdit
	case has(groups.Read):
		return LevelRead
	default:
		return LevelNone
	}
}
