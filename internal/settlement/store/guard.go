package store

// GuardMode selects how a transaction holds the settled-ranges guard.
// Movement writers share it; a report creator holds it alone, so a movement
// is either netted by the report or sees the report and is refused.
type GuardMode int

const (
	GuardShared GuardMode = iota
	GuardExclusive
)

func (m GuardMode) String() string {
	if m == GuardExclusive {
		return "exclusive"
	}
	return "shared"
}
