package scoreboard

import "time"

// MatchView is the serializable form of a Match.
type MatchView struct {
	ID         MatchID   `json:"id"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	HomeScore  int       `json:"homeScore"`
	AwayScore  int       `json:"awayScore"`
	TotalScore int       `json:"totalScore"`
	StartedAt  time.Time `json:"startedAt"`
}

// BoardSnapshot is the serializable form of a Board, as published to Redis
// and to live feed clients.
type BoardSnapshot struct {
	Version uint64      `json:"version"`
	Matches []MatchView `json:"matches"`
}

func (m Match) View() MatchView {
	return MatchView{
		ID:         m.id,
		HomeTeam:   m.home.name,
		AwayTeam:   m.away.name,
		HomeScore:  m.home.score,
		AwayScore:  m.away.score,
		TotalScore: m.TotalScore(),
		StartedAt:  m.startedAt,
	}
}

func Views(ms []Match) []MatchView {
	out := make([]MatchView, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.View())
	}
	return out
}

func (b Board) Snapshot() BoardSnapshot {
	return BoardSnapshot{Version: b.Version, Matches: Views(b.Matches)}
}
