package table

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/Gumball-code/ggpoker/internal/poker"
	"github.com/Gumball-code/ggpoker/internal/randutil"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// newTestTable creates a table on a mock clock with a seeded RNG. A nil
// deck leaves the shuffled deck source in place.
func newTestTable(t *testing.T, deck func() *poker.Deck) (*Table, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	opts := []Option{
		WithClock(clock),
		WithRand(randutil.New(42)),
	}
	if deck != nil {
		opts = append(opts, WithDeckSource(deck))
	}
	return New(testLogger(), DefaultConfig(), opts...), clock
}

// clientFor maps a seat index to the test client id used by seatPlayers.
func clientFor(seat int) string {
	return fmt.Sprintf("c%d", seat)
}

// seatPlayers seats one client per stack, client c<i> in seat i, bypassing
// the buy-in clamp so tests can use sub-minimum stacks. Client c0 is made
// the owner.
func seatPlayers(t *testing.T, tbl *Table, stacks ...int) {
	t.Helper()
	if len(stacks) > NumSeats {
		t.Fatalf("too many players: %d", len(stacks))
	}
	for i, stack := range stacks {
		tbl.seats[i] = Seat{
			ClientID: clientFor(i),
			Name:     fmt.Sprintf("p%d", i),
			Stack:    stack,
			Occupied: true,
		}
	}
	if err := tbl.ClaimOwner(clientFor(0)); err != nil {
		t.Fatalf("claim owner: %v", err)
	}
}

// stackedDeck builds a deck source dealing the listed cards first.
func stackedDeck(cards ...string) func() *poker.Deck {
	parsed := make([]poker.Card, len(cards))
	for i, s := range cards {
		parsed[i] = poker.MustParseCard(s)
	}
	return func() *poker.Deck {
		return poker.NewStackedDeck(parsed...)
	}
}

// act submits an action and fails the test on rejection.
func act(t *testing.T, tbl *Table, seat int, kind string, amount int) {
	t.Helper()
	if err := tbl.Action(clientFor(seat), kind, amount); err != nil {
		t.Fatalf("seat %d %s %d rejected: %v", seat, kind, amount, err)
	}
}

// totalChips sums every seated stack plus the live pot.
func totalChips(tbl *Table) int {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	total := 0
	for i := range tbl.seats {
		if tbl.seats[i].Occupied {
			total += tbl.seats[i].Stack
		}
	}
	if tbl.hand != nil {
		total += tbl.hand.pot
	}
	return total
}

func stackOf(tbl *Table, seat int) int {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	return tbl.seats[seat].Stack
}

func currentPhase(tbl *Table) Phase {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if tbl.hand == nil {
		return PhaseIdle
	}
	return tbl.hand.phase
}

func currentTurn(tbl *Table) int {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if tbl.hand == nil {
		return -1
	}
	return tbl.hand.turn
}
