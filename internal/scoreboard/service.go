package scoreboard

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
)

// Policy decides which teams may be booked into a new match.
type Policy int

const (
	// ExclusiveTeams rejects a new match when either team already plays in
	// any active match.
	ExclusiveTeams Policy = iota
	// FixtureOnly rejects only a repeat of an active fixture, in either order.
	FixtureOnly
)

func (p Policy) String() string {
	switch p {
	case ExclusiveTeams:
		return "exclusive"
	case FixtureOnly:
		return "fixture"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclusive":
		return ExclusiveTeams, nil
	case "fixture":
		return FixtureOnly, nil
	}
	return 0, fmt.Errorf("unknown team policy %q (want exclusive|fixture)", s)
}

type Config struct {
	Policy Policy
}

// Service is the only way in to the scoreboard. Each operation runs under a
// single lock, so callers never see a half-applied change.
type Service struct {
	mu        sync.RWMutex
	cfg       Config
	reg       Registry
	ids       IDAllocator
	clock     clockwork.Clock
	log       *slog.Logger
	version   uint64
	listeners []Listener
}

// NewService wires a Service. Nil dependencies fall back to an in-memory
// registry, a counter starting at 1, the real clock and slog.Default().
func NewService(cfg Config, reg Registry, ids IDAllocator, clock clockwork.Clock, log *slog.Logger) *Service {
	if reg == nil {
		reg = NewMemoryRegistry()
	}
	if ids == nil {
		ids = &Counter{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:   cfg,
		reg:   reg,
		ids:   ids,
		clock: clock,
		log:   log,
	}
}

// Subscribe registers l for every board produced after this call.
func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Service) StartNewMatch(homeTeam, awayTeam string) (MatchID, error) {
	if err := validateTeamName("home team", homeTeam); err != nil {
		return 0, err
	}
	if err := validateTeamName("away team", awayTeam); err != nil {
		return 0, err
	}
	if normName(homeTeam) == normName(awayTeam) {
		return 0, fmt.Errorf("%w: team %q cannot play itself", ErrInvalidInput, strings.TrimSpace(homeTeam))
	}

	s.mu.Lock()
	if existing, ok := s.reg.FindByFixture(homeTeam, awayTeam); ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s and %s already play in match %d",
			ErrConflict, existing.home.name, existing.away.name, existing.id)
	}
	if s.cfg.Policy == ExclusiveTeams {
		for _, name := range []string{homeTeam, awayTeam} {
			if other, ok := s.reg.FindByTeamName(name); ok {
				s.mu.Unlock()
				return 0, fmt.Errorf("%w: %s is already playing in match %d",
					ErrNotAllowed, strings.TrimSpace(name), other.id)
			}
		}
	}

	m := newMatch(s.ids.Next(), homeTeam, awayTeam, s.clock.Now())
	if err := s.reg.Add(m); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	board, listeners := s.bumpLocked()
	s.mu.Unlock()

	s.log.Info("match started", "match_id", m.id, "home", m.home.name, "away", m.away.name)
	notify(listeners, board)
	return m.id, nil
}

func (s *Service) UpdateScore(id MatchID, homeScore, awayScore int) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	m, ok := s.reg.FindByID(id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err := validateScores(m, homeScore, awayScore); err != nil {
		s.mu.Unlock()
		return err
	}
	updated := m.withScores(homeScore, awayScore)
	if err := s.reg.Replace(updated); err != nil {
		s.mu.Unlock()
		return err
	}
	board, listeners := s.bumpLocked()
	s.mu.Unlock()

	s.log.Debug("score updated", "match_id", id, "score", updated.String())
	notify(listeners, board)
	return nil
}

func (s *Service) FinishMatch(id MatchID) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	m, ok := s.reg.FindByID(id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err := s.reg.Remove(id); err != nil {
		s.mu.Unlock()
		return err
	}
	board, listeners := s.bumpLocked()
	s.mu.Unlock()

	s.log.Info("match finished", "match_id", id, "final", m.String())
	notify(listeners, board)
	return nil
}

// Summary returns the active matches, most interesting first. The slice is
// the caller's own.
func (s *Service) Summary() []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rankedLocked()
}

// Board returns the current summary together with its version.
func (s *Service) Board() Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Board{Version: s.version, Matches: s.rankedLocked()}
}

func (s *Service) FindByID(id MatchID) (Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.FindByID(id)
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Len()
}

func (s *Service) rankedLocked() []Match {
	ms := s.reg.List()
	Rank(ms)
	return ms
}

func (s *Service) bumpLocked() (Board, []Listener) {
	s.version++
	if len(s.listeners) == 0 {
		return Board{}, nil
	}
	b := Board{Version: s.version, Matches: s.rankedLocked()}
	return b, append([]Listener(nil), s.listeners...)
}

func notify(listeners []Listener, b Board) {
	for _, l := range listeners {
		l.BoardChanged(b)
	}
}

func validateTeamName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name must not be blank", ErrInvalidInput, field)
	}
	return nil
}

func validateID(id MatchID) error {
	if id <= 0 {
		return fmt.Errorf("%w: match id must be positive, got %d", ErrInvalidInput, id)
	}
	return nil
}

func validateScores(m Match, home, away int) error {
	if home < 0 || away < 0 {
		return fmt.Errorf("%w: scores must not be negative (%d-%d)", ErrInvalidInput, home, away)
	}
	if home < m.home.score || away < m.away.score {
		return fmt.Errorf("%w: scores cannot go down from %d-%d to %d-%d",
			ErrInvalidInput, m.home.score, m.away.score, home, away)
	}
	if home == m.home.score && away == m.away.score {
		return fmt.Errorf("%w: score is already %d-%d", ErrInvalidInput, home, away)
	}
	return nil
}
