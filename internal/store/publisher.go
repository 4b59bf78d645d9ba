package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"example.com/scoreboard/internal/scoreboard"
)

// BoardSaver is the write side of a board mirror.
type BoardSaver interface {
	Save(ctx context.Context, snap scoreboard.BoardSnapshot) error
}

// Publisher is a scoreboard.Listener that hands boards to a single writer
// loop. Only the newest pending board is kept; older versions are dropped.
type Publisher struct {
	saver   BoardSaver
	timeout time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	pending *scoreboard.Board
	latest  uint64 // highest version accepted
	wake    chan struct{}
}

func NewPublisher(saver BoardSaver, timeout time.Duration, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Publisher{
		saver:   saver,
		timeout: timeout,
		log:     log,
		wake:    make(chan struct{}, 1),
	}
}

func (p *Publisher) BoardChanged(b scoreboard.Board) {
	p.mu.Lock()
	if b.Version <= p.latest {
		p.mu.Unlock()
		return
	}
	p.latest = b.Version
	p.pending = &b
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run saves pending boards until ctx is done. A final pending board is
// flushed on the way out.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush(context.WithoutCancel(ctx))
			return nil
		case <-p.wake:
			p.flush(ctx)
		}
	}
}

func (p *Publisher) flush(ctx context.Context) {
	p.mu.Lock()
	b := p.pending
	p.pending = nil
	p.mu.Unlock()
	if b == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.saver.Save(saveCtx, b.Snapshot()); err != nil {
		p.log.Error("board publish failed", "version", b.Version, "err", err)
		return
	}
	p.log.Debug("board published", "version", b.Version, "matches", len(b.Matches))
}
