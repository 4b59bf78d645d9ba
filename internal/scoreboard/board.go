package scoreboard

// Board is the ranked summary as it stood right after a mutation. Version
// grows by one with every successful mutation of the service that produced it.
type Board struct {
	Version uint64
	Matches []Match
}

// Listener is told about every new Board. BoardChanged runs on the caller's
// goroutine after the service lock is released, so it must not block. Boards
// may arrive out of order under concurrent writers; compare versions.
type Listener interface {
	BoardChanged(b Board)
}

type ListenerFunc func(b Board)

func (f ListenerFunc) BoardChanged(b Board) { f(b) }
