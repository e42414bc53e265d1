package table

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/Gumball-code/ggpoker/internal/poker"
	"github.com/Gumball-code/ggpoker/internal/randutil"
)

// NumSeats is the number of seat slots at the table.
const NumSeats = 6

// Default table stakes and limits, also the values exposed in state.
const (
	DefaultSmallBlind = 10
	DefaultBigBlind   = 20
	DefaultMinBuyIn   = 100
	DefaultMaxBuyIn   = 1_000_000
)

// DefaultShowdownDelay is how long showdown results stay on screen before
// the table returns to idle.
const DefaultShowdownDelay = 2500 * time.Millisecond

// Config holds the table stakes and timing.
type Config struct {
	SmallBlind    int
	BigBlind      int
	MinBuyIn      int
	MaxBuyIn      int
	ShowdownDelay time.Duration
}

// DefaultConfig returns the standard table configuration.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    DefaultSmallBlind,
		BigBlind:      DefaultBigBlind,
		MinBuyIn:      DefaultMinBuyIn,
		MaxBuyIn:      DefaultMaxBuyIn,
		ShowdownDelay: DefaultShowdownDelay,
	}
}

// Table is the single shared poker table. It is the only mutable shared
// object in the system: every command handler serializes on the table mutex,
// so no two commands ever interleave. The post-showdown timer re-enters
// through the same lock like any other command.
type Table struct {
	mu      sync.Mutex
	logger  *log.Logger
	clock   quartz.Clock
	rng     *rand.Rand
	newDeck func() *poker.Deck
	cfg     Config

	seats   [NumSeats]Seat
	owner   string
	dealer  int
	hand    *Hand
	handNum int

	notify func(*Snapshot)
}

// Option configures a Table during creation.
type Option func(*Table)

// WithClock injects a clock; tests use quartz.NewMock to drive the
// showdown-to-idle transition.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRand injects the shuffle RNG for deterministic play.
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) {
		t.rng = rng
		t.newDeck = func() *poker.Deck { return poker.NewDeck(rng) }
	}
}

// WithDeckSource replaces the shuffled deck with an arbitrary source,
// letting scenario tests script exact hands.
func WithDeckSource(fn func() *poker.Deck) Option {
	return func(t *Table) { t.newDeck = fn }
}

// New creates an empty table.
func New(logger *log.Logger, cfg Config, opts ...Option) *Table {
	t := &Table{
		logger: logger.WithPrefix("table"),
		clock:  quartz.NewReal(),
		cfg:    cfg,
		dealer: -1,
	}
	t.rng = randutil.NewSecure()
	t.newDeck = func() *poker.Deck { return poker.NewDeck(t.rng) }
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetNotify registers the broadcast hook. The hook receives an immutable
// snapshot and is invoked outside the table lock after every successful
// mutation; the transport fans it out per viewer.
func (t *Table) SetNotify(fn func(*Snapshot)) {
	t.mu.Lock()
	t.notify = fn
	t.mu.Unlock()
}

// Config returns the table configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// run executes fn under the table lock and broadcasts the resulting state
// when it succeeds.
func (t *Table) run(fn func() error) error {
	t.mu.Lock()
	err := fn()
	var snap *Snapshot
	if err == nil && t.notify != nil {
		snap = t.snapshotLocked()
	}
	notify := t.notify
	t.mu.Unlock()
	if snap != nil && notify != nil {
		notify(snap)
	}
	return err
}

// ClaimOwner makes the caller the table owner, displacing any previous one.
func (t *Table) ClaimOwner(clientID string) error {
	return t.run(func() error {
		if t.owner != clientID {
			t.logger.Info("owner changed", "client", clientID)
		}
		t.owner = clientID
		return nil
	})
}

// StartHand begins a new hand. Owner only; needs two seats with chips and
// no hand in flight (a pending showdown timer counts as in flight).
func (t *Table) StartHand(clientID string) error {
	return t.run(func() error {
		return t.startHandLocked(clientID)
	})
}

// Action submits a betting action for the caller's seat.
func (t *Table) Action(clientID, kind string, amount int) error {
	return t.run(func() error {
		return t.actionLocked(clientID, kind, amount)
	})
}

// Disconnect handles a client going away: the owner role is released and
// any held seat is vacated (folding it first when mid-hand).
func (t *Table) Disconnect(clientID string) {
	_ = t.run(func() error {
		if t.owner == clientID {
			t.owner = ""
			t.logger.Info("owner disconnected", "client", clientID)
		}
		if seat := t.seatOfLocked(clientID); seat >= 0 {
			t.vacateLocked(seat)
		}
		return nil
	})
}

// finishHand is the timer command that returns the table to idle after the
// showdown display delay.
func (t *Table) finishHand() {
	_ = t.run(func() error {
		if t.hand != nil && t.hand.phase == PhaseShowdown {
			t.hand = nil
			t.logger.Info("table idle", "hand", t.handNum)
		}
		return nil
	})
}

func (t *Table) scheduleIdleLocked() {
	t.clock.AfterFunc(t.cfg.ShowdownDelay, t.finishHand)
}
