package scoreboard

import (
	"fmt"
	"sync"
)

// Registry is the storage contract for active matches. All mutation is
// replace-by-id; callers never change a stored Match in place.
type Registry interface {
	Add(m Match) error
	Replace(m Match) error
	Remove(id MatchID) error
	FindByID(id MatchID) (Match, bool)
	FindByFixture(teamA, teamB string) (Match, bool)
	FindByTeamName(name string) (Match, bool)
	List() []Match
	Len() int
}

// MemoryRegistry keeps matches in process memory, indexed by id, by fixture
// and by team name.
type MemoryRegistry struct {
	mu       sync.RWMutex
	byID     map[MatchID]Match
	fixtures map[FixtureKey]MatchID
	teams    map[string]map[MatchID]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byID:     make(map[MatchID]Match),
		fixtures: make(map[FixtureKey]MatchID),
		teams:    make(map[string]map[MatchID]struct{}),
	}
}

func (r *MemoryRegistry) Add(m Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.id]; ok {
		return fmt.Errorf("%w: match id %d already registered", ErrConflict, m.id)
	}
	r.byID[m.id] = m
	r.fixtures[m.Fixture()] = m.id
	r.indexTeamLocked(m.home.name, m.id)
	r.indexTeamLocked(m.away.name, m.id)
	return nil
}

func (r *MemoryRegistry) Replace(m Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[m.id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, m.id)
	}
	// teams are fixed for the life of a match, so the indexes stay valid
	if old.Fixture() != m.Fixture() {
		return fmt.Errorf("%w: match %d cannot change teams", ErrInvalidInput, m.id)
	}
	r.byID[m.id] = m
	return nil
}

func (r *MemoryRegistry) Remove(id MatchID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	delete(r.byID, id)
	if r.fixtures[m.Fixture()] == id {
		delete(r.fixtures, m.Fixture())
	}
	r.unindexTeamLocked(m.home.name, id)
	r.unindexTeamLocked(m.away.name, id)
	return nil
}

func (r *MemoryRegistry) FindByID(id MatchID) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

func (r *MemoryRegistry) FindByFixture(teamA, teamB string) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.fixtures[NewFixtureKey(teamA, teamB)]
	if !ok {
		return Match{}, false
	}
	m, ok := r.byID[id]
	return m, ok
}

// FindByTeamName returns the lowest-id match the team plays in.
func (r *MemoryRegistry) FindByTeamName(name string) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.teams[normName(name)]
	var (
		found Match
		ok    bool
	)
	for id := range ids {
		if !ok || id < found.id {
			found, ok = r.byID[id], true
		}
	}
	return found, ok
}

func (r *MemoryRegistry) List() []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Match, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryRegistry) indexTeamLocked(name string, id MatchID) {
	n := normName(name)
	ids, ok := r.teams[n]
	if !ok {
		ids = make(map[MatchID]struct{})
		r.teams[n] = ids
	}
	ids[id] = struct{}{}
}

func (r *MemoryRegistry) unindexTeamLocked(name string, id MatchID) {
	n := normName(name)
	ids := r.teams[n]
	delete(ids, id)
	if len(ids) == 0 {
		delete(r.teams, n)
	}
}
