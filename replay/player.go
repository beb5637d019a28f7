package replay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/CaliLuke/go-kuzu/gograph"
)

// ErrNotRecorded is returned by a strict Player for queries the cassette
// has no recording of.
var ErrNotRecorded = errors.New("query not recorded")

// ErrPlayerClosed is returned when a closed Player is used.
var ErrPlayerClosed = errors.New("player is closed")

// Player serves recorded query results as a gograph.Conn. Repeated
// executions of the same query replay takes in recording order.
type Player struct {
	cassette *Cassette

	mu       sync.Mutex
	ordinals map[string]int
	lenient  bool
	closed   bool
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithLenient makes the Player answer unrecorded queries with empty
// rows instead of ErrNotRecorded.
func WithLenient() PlayerOption {
	return func(p *Player) { p.lenient = true }
}

// NewPlayer creates a Player over a cassette. The caller retains
// ownership of the cassette.
func NewPlayer(cassette *Cassette, opts ...PlayerOption) *Player {
	p := &Player{
		cassette: cassette,
		ordinals: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Query replays the next recorded take of the query.
func (p *Player) Query(query string) ([]map[string]any, error) {
	return p.QueryWithContext(context.Background(), query)
}

// QueryWithContext replays the next recorded take of the query.
func (p *Player) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPlayerClosed
	}

	norm := normalizeQuery(query)
	ordinal := p.ordinals[norm]
	rows, ok, err := p.cassette.Load(norm, ordinal)
	if err != nil {
		return nil, err
	}
	if !ok {
		if p.lenient {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("%w: %q (take %d)", ErrNotRecorded, norm, ordinal)
	}
	p.ordinals[norm] = ordinal + 1
	return rows, nil
}

// Begin returns a pass-through transaction. Recorded commit and rollback
// markers are ignored; transactional queries replay exactly like
// auto-commit ones.
func (p *Player) Begin(readOnly bool) (gograph.Tx, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPlayerClosed
	}
	return &playerTx{player: p, open: true}, nil
}

// Rewind resets replay positions so every query starts again from its
// first recorded take.
func (p *Player) Rewind() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ordinals = make(map[string]int)
}

// Close marks the Player closed. The cassette stays open.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// IsOpen reports whether the Player accepts queries.
func (p *Player) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

type playerTx struct {
	player *Player
	open   bool
}

func (t *playerTx) Query(query string) ([]map[string]any, error) {
	return t.QueryWithContext(context.Background(), query)
}

func (t *playerTx) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	if !t.open {
		return nil, errors.New("transaction is closed")
	}
	return t.player.QueryWithContext(ctx, query)
}

func (t *playerTx) Commit() error {
	t.open = false
	return nil
}

func (t *playerTx) Rollback() error {
	t.open = false
	return nil
}

func (t *playerTx) Close() {
	t.open = false
}

func (t *playerTx) IsOpen() bool {
	return t.open
}
