package scoreboard

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, policy Policy) (*Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 14, 19, 0, 0, 0, time.UTC))
	return NewService(Config{Policy: policy}, nil, nil, clock, nil), clock
}

func mustStart(t *testing.T, s *Service, home, away string) MatchID {
	t.Helper()
	id, err := s.StartNewMatch(home, away)
	require.NoError(t, err)
	return id
}

func summaryNames(ms []Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, fmt.Sprintf("%s-%s %d", m.Home().Name(), m.Away().Name(), m.TotalScore()))
	}
	return out
}

func TestService_SummaryScenario(t *testing.T) {
	s, clock := newTestService(t, ExclusiveTeams)

	games := []struct {
		home, away string
		hs, as     int
	}{
		{"Mexico", "Canada", 0, 5},
		{"Spain", "Brazil", 10, 2},
		{"Germany", "France", 2, 2},
		{"Uruguay", "Italy", 6, 6},
		{"Argentina", "Australia", 3, 1},
	}
	for _, g := range games {
		id := mustStart(t, s, g.home, g.away)
		require.NoError(t, s.UpdateScore(id, g.hs, g.as))
		clock.Advance(time.Minute)
	}

	want := []string{
		"Uruguay-Italy 12",
		"Spain-Brazil 12",
		"Mexico-Canada 5",
		"Argentina-Australia 4",
		"Germany-France 4",
	}
	assert.Equal(t, want, summaryNames(s.Summary()))
}

func TestService_StartNewMatch(t *testing.T) {
	cases := []struct {
		name       string
		policy     Policy
		existing   [][2]string
		home, away string
		wantErr    error
	}{
		{name: "ok", home: "Spain", away: "Brazil"},
		{name: "blank home", home: "", away: "USA", wantErr: ErrInvalidInput},
		{name: "whitespace away", home: "USA", away: " \t", wantErr: ErrInvalidInput},
		{name: "same team", home: "USA", away: "USA", wantErr: ErrInvalidInput},
		{name: "same team any case", home: "usa", away: " USA ", wantErr: ErrInvalidInput},
		{name: "duplicate fixture", existing: [][2]string{{"Spain", "Brazil"}}, home: "Spain", away: "Brazil", wantErr: ErrConflict},
		{name: "reversed fixture", existing: [][2]string{{"Spain", "Brazil"}}, home: "Brazil", away: "Spain", wantErr: ErrConflict},
		{name: "fixture differs only in case", existing: [][2]string{{"Spain", "Brazil"}}, home: "BRAZIL", away: "spain", wantErr: ErrConflict},
		{name: "home team busy", existing: [][2]string{{"Spain", "Brazil"}}, home: "Spain", away: "Italy", wantErr: ErrNotAllowed},
		{name: "away team busy", existing: [][2]string{{"Spain", "Brazil"}}, home: "Italy", away: "brazil", wantErr: ErrNotAllowed},
		{name: "busy team allowed under fixture policy", policy: FixtureOnly, existing: [][2]string{{"Spain", "Brazil"}}, home: "Spain", away: "Italy"},
		{name: "duplicate still rejected under fixture policy", policy: FixtureOnly, existing: [][2]string{{"Spain", "Brazil"}}, home: "Brazil", away: "Spain", wantErr: ErrConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestService(t, tc.policy)
			for _, e := range tc.existing {
				mustStart(t, s, e[0], e[1])
			}
			before := s.Len()

			id, err := s.StartNewMatch(tc.home, tc.away)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Zero(t, id)
				assert.Equal(t, before, s.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before+1, s.Len())

			m, ok := s.FindByID(id)
			require.True(t, ok)
			assert.Equal(t, 0, m.Home().Score())
			assert.Equal(t, 0, m.Away().Score())
		})
	}
}

func TestService_StartNewMatch_AssignsIncreasingIDs(t *testing.T) {
	s, clock := newTestService(t, ExclusiveTeams)

	first := mustStart(t, s, "Mexico", "Canada")
	assert.Equal(t, MatchID(1), first)
	require.NoError(t, s.FinishMatch(first))

	second := mustStart(t, s, "Mexico", "Canada")
	assert.Equal(t, MatchID(2), second)

	m, ok := s.FindByID(second)
	require.True(t, ok)
	assert.Equal(t, clock.Now(), m.StartedAt())
	assert.Equal(t, "Mexico", m.Home().Name())
	assert.Equal(t, "Canada", m.Away().Name())
}

func TestService_StartNewMatch_TrimsNames(t *testing.T) {
	s, _ := newTestService(t, ExclusiveTeams)
	id := mustStart(t, s, "  Spain ", "Brazil\n")

	m, _ := s.FindByID(id)
	assert.Equal(t, "Spain", m.Home().Name())
	assert.Equal(t, "Brazil", m.Away().Name())
}

func TestService_UpdateScore(t *testing.T) {
	cases := []struct {
		name    string
		start   [2]int
		id      func(MatchID) MatchID
		hs, as  int
		wantErr error
	}{
		{name: "first goal", hs: 1, as: 0},
		{name: "both move", start: [2]int{1, 1}, hs: 2, as: 3},
		{name: "zero id", id: func(MatchID) MatchID { return 0 }, hs: 1, wantErr: ErrInvalidInput},
		{name: "negative id", id: func(MatchID) MatchID { return -3 }, hs: 1, wantErr: ErrInvalidInput},
		{name: "unknown id", id: func(id MatchID) MatchID { return id + 100 }, hs: 1, wantErr: ErrNotFound},
		{name: "negative home", hs: -1, as: 0, wantErr: ErrInvalidInput},
		{name: "negative away", hs: 0, as: -1, wantErr: ErrInvalidInput},
		{name: "no-op on 0-0", hs: 0, as: 0, wantErr: ErrInvalidInput},
		{name: "no-op on 2-1", start: [2]int{2, 1}, hs: 2, as: 1, wantErr: ErrInvalidInput},
		{name: "home goes down", start: [2]int{2, 1}, hs: 1, as: 2, wantErr: ErrInvalidInput},
		{name: "away goes down", start: [2]int{2, 1}, hs: 3, as: 0, wantErr: ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestService(t, ExclusiveTeams)
			id := mustStart(t, s, "Germany", "France")
			if tc.start != [2]int{} {
				require.NoError(t, s.UpdateScore(id, tc.start[0], tc.start[1]))
			}
			target := id
			if tc.id != nil {
				target = tc.id(id)
			}

			err := s.UpdateScore(target, tc.hs, tc.as)
			m, ok := s.FindByID(id)
			require.True(t, ok)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.start[0], m.Home().Score())
				assert.Equal(t, tc.start[1], m.Away().Score())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hs, m.Home().Score())
			assert.Equal(t, tc.as, m.Away().Score())
		})
	}
}

func TestService_FinishMatch(t *testing.T) {
	s, _ := newTestService(t, ExclusiveTeams)
	id := mustStart(t, s, "Argentina", "Australia")
	other := mustStart(t, s, "Uruguay", "Italy")

	require.ErrorIs(t, s.FinishMatch(0), ErrInvalidInput)
	require.ErrorIs(t, s.FinishMatch(99), ErrNotFound)

	require.NoError(t, s.FinishMatch(id))
	_, ok := s.FindByID(id)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	require.ErrorIs(t, s.FinishMatch(id), ErrNotFound)
	require.ErrorIs(t, s.UpdateScore(id, 1, 0), ErrNotFound)

	// both teams are free again
	_, err := s.StartNewMatch("Argentina", "Germany")
	require.NoError(t, err)

	_, ok = s.FindByID(other)
	assert.True(t, ok)
}

func TestService_SummarySnapshotIsDetached(t *testing.T) {
	s, _ := newTestService(t, ExclusiveTeams)
	a := mustStart(t, s, "Mexico", "Canada")
	mustStart(t, s, "Spain", "Brazil")

	first := s.Summary()
	require.Len(t, first, 2)
	assert.Equal(t, first, s.Summary())

	first[0] = Match{}
	require.NoError(t, s.UpdateScore(a, 0, 5))
	require.NoError(t, s.FinishMatch(a))

	again := s.Summary()
	require.Len(t, again, 1)
	assert.Equal(t, "Spain", again[0].Home().Name())
	assert.Len(t, first, 2)
}

func TestService_ListenersSeeEveryMutation(t *testing.T) {
	s, _ := newTestService(t, ExclusiveTeams)

	var boards []Board
	s.Subscribe(ListenerFunc(func(b Board) { boards = append(boards, b) }))

	id := mustStart(t, s, "Mexico", "Canada")
	require.NoError(t, s.UpdateScore(id, 1, 0))
	_, err := s.StartNewMatch("Canada", "Mexico")
	require.Error(t, err)
	require.NoError(t, s.FinishMatch(id))

	require.Len(t, boards, 3)
	for i, b := range boards {
		assert.Equal(t, uint64(i+1), b.Version)
	}
	assert.Equal(t, 1, boards[1].Matches[0].TotalScore())
	assert.Empty(t, boards[2].Matches)
	assert.Equal(t, uint64(3), s.Board().Version)
}

func TestService_ConcurrentWriters(t *testing.T) {
	s, _ := newTestService(t, ExclusiveTeams)

	const n = 50
	ids := make([]MatchID, n)
	for i := range n {
		ids[i] = mustStart(t, s, fmt.Sprintf("home-%d", i), fmt.Sprintf("away-%d", i))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id MatchID) {
			defer wg.Done()
			for g := 1; g <= 10; g++ {
				_ = s.UpdateScore(id, g, g-1)
				_ = s.Summary()
			}
		}(id)
	}
	// contenders for the same fixture: exactly one wins
	var (
		mu   sync.Mutex
		wins int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.StartNewMatch("Spain", "Brazil"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	for _, id := range ids {
		m, ok := s.FindByID(id)
		require.True(t, ok)
		assert.Equal(t, 19, m.TotalScore())
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": ExclusiveTeams, "exclusive": ExclusiveTeams, " Fixture ": FixtureOnly} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("lenient")
	assert.Error(t, err)
}
