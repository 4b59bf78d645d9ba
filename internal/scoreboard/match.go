package scoreboard

import (
	"fmt"
	"time"
)

type MatchID int64

// Match is an in-progress fixture. Values are never mutated after they are
// handed out; the service swaps in a replacement on every score change.
type Match struct {
	id        MatchID
	home      Team
	away      Team
	startedAt time.Time
}

func newMatch(id MatchID, home, away string, startedAt time.Time) Match {
	return Match{
		id:        id,
		home:      NewTeam(home),
		away:      NewTeam(away),
		startedAt: startedAt,
	}
}

func (m Match) ID() MatchID          { return m.id }
func (m Match) Home() Team           { return m.home }
func (m Match) Away() Team           { return m.away }
func (m Match) StartedAt() time.Time { return m.startedAt }

func (m Match) TotalScore() int {
	return m.home.score + m.away.score
}

func (m Match) Fixture() FixtureKey {
	return NewFixtureKey(m.home.name, m.away.name)
}

// Involves reports whether name (case-insensitive) plays home or away.
func (m Match) Involves(name string) bool {
	n := normName(name)
	return normName(m.home.name) == n || normName(m.away.name) == n
}

func (m Match) String() string {
	return fmt.Sprintf("%s %d - %s %d", m.home.name, m.home.score, m.away.name, m.away.score)
}

func (m Match) withScores(home, away int) Match {
	m.home = m.home.WithScore(home)
	m.away = m.away.WithScore(away)
	return m
}

// FixtureKey identifies a pairing regardless of which side plays at home.
type FixtureKey struct {
	a, b string
}

func NewFixtureKey(teamA, teamB string) FixtureKey {
	a, b := normName(teamA), normName(teamB)
	if b < a {
		a, b = b, a
	}
	return FixtureKey{a: a, b: b}
}

func (k FixtureKey) String() string {
	return k.a + "|" + k.b
}
