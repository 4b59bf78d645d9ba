package scoreboard

import "strings"

// Team is one side of a match. It is a value: a score change yields a new Team.
type Team struct {
	name  string
	score int
}

func NewTeam(name string) Team {
	return Team{name: strings.TrimSpace(name)}
}

func (t Team) Name() string { return t.name }
func (t Team) Score() int   { return t.score }

// Is reports whether both values name the same team. Names are compared
// case-sensitively and the score is ignored.
func (t Team) Is(other Team) bool {
	return t.name == other.name
}

func (t Team) WithScore(score int) Team {
	t.score = score
	return t
}

// normName is the form used by every case-insensitive lookup.
func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
