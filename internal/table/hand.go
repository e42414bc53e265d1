package table

import (
	"github.com/Gumball-code/ggpoker/internal/poker"
)

// Phase is the hand lifecycle stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Betting reports whether the phase is a betting street.
func (p Phase) Betting() bool {
	return p >= PhasePreflop && p <= PhaseRiver
}

// Hand is the ephemeral per-hand state. Per-seat arrays are indexed by slot;
// dealt marks the seats that received cards when the hand began and is fixed
// from then on.
type Hand struct {
	deck      *poker.Deck
	community []poker.Card
	phase     Phase

	hole   [NumSeats]poker.Hand
	dealt  [NumSeats]bool
	folded [NumSeats]bool
	order  []int // dealt seats, clockwise starting left of the button

	contrib [NumSeats]int // cumulative chips committed this hand
	bets    [NumSeats]int // chips committed this street
	pot     int

	turn   int // seat to act, -1 when none
	round  bettingRound
	sbSeat int
	bbSeat int

	// reveal is false when the hand ended with everyone folding: the phase
	// still passes through showdown for the display delay, but no hole
	// cards are exposed.
	reveal bool

	// Pre-hand accounting for the conservation invariant and for abort
	// recovery.
	preStacks  [NumSeats]int
	preClients [NumSeats]string
	preTotal   int
}

func (t *Table) startHandLocked(clientID string) error {
	if clientID == "" || t.owner != clientID {
		return ErrNotOwner
	}
	if t.hand != nil {
		return ErrHandInProgress
	}
	if t.occupiedWithChipsLocked() < 2 {
		return ErrNotEnoughPlayers
	}

	t.handNum++
	h := &Hand{
		deck:  t.newDeck(),
		phase: PhasePreflop,
		turn:  -1,
	}
	for i := range t.seats {
		if t.seats[i].Occupied {
			h.preStacks[i] = t.seats[i].Stack
			h.preClients[i] = t.seats[i].ClientID
			h.preTotal += t.seats[i].Stack
		}
	}
	t.hand = h

	// Button moves to the next occupied seat with chips; blinds follow the
	// ring from there.
	t.dealer = t.nextSeatWithChipsLocked(t.dealer + 1)
	h.sbSeat = t.nextSeatWithChipsLocked(t.dealer + 1)
	h.bbSeat = t.nextSeatWithChipsLocked(h.sbSeat + 1)

	// Two hole cards per seat, dealt clockwise starting left of the button.
	for i := 1; i <= NumSeats; i++ {
		s := (t.dealer + i) % NumSeats
		if !t.seats[s].Occupied || t.seats[s].Stack <= 0 {
			continue
		}
		cards := h.deck.DrawN(2)
		if cards == nil {
			t.abortHandLocked("deck exhausted while dealing")
			return nil
		}
		h.hole[s] = poker.NewHand(cards...)
		h.dealt[s] = true
		h.order = append(h.order, s)
	}

	// Blinds are capped by the stack; short stacks are all-in from the
	// start but stay eligible for the pots they funded.
	t.commitLocked(h.sbSeat, min(t.cfg.SmallBlind, t.seats[h.sbSeat].Stack))
	t.commitLocked(h.bbSeat, min(t.cfg.BigBlind, t.seats[h.bbSeat].Stack))

	h.round.reset(t.cfg.BigBlind)
	h.turn = t.nextActionableLocked(h.bbSeat + 1)

	t.logger.Info("hand started",
		"hand", t.handNum,
		"dealer", t.dealer,
		"smallBlind", h.sbSeat,
		"bigBlind", h.bbSeat,
		"players", len(h.order))

	if h.turn == -1 || t.roundCompleteLocked() {
		t.advanceStreetLocked()
	}
	return nil
}

// commitLocked moves n chips from a seat's stack into the pot, updating the
// street bet and the hand contribution together.
func (t *Table) commitLocked(seat, n int) {
	if n <= 0 {
		return
	}
	h := t.hand
	t.seats[seat].Stack -= n
	h.bets[seat] += n
	h.contrib[seat] += n
	h.pot += n
}

// nextActionableLocked scans clockwise from the given seat for a dealt,
// non-folded seat that still has chips. All-in seats are skipped for action
// but keep their pot eligibility.
func (t *Table) nextActionableLocked(from int) int {
	h := t.hand
	for i := 0; i < NumSeats; i++ {
		s := ((from+i)%NumSeats + NumSeats) % NumSeats
		if h.dealt[s] && !h.folded[s] && t.seats[s].Occupied && t.seats[s].Stack > 0 {
			return s
		}
	}
	return -1
}

func (t *Table) inHandCountLocked() int {
	h := t.hand
	n := 0
	for s := 0; s < NumSeats; s++ {
		if h.dealt[s] && !h.folded[s] {
			n++
		}
	}
	return n
}

func (t *Table) actionableCountLocked() int {
	h := t.hand
	n := 0
	for s := 0; s < NumSeats; s++ {
		if h.dealt[s] && !h.folded[s] && t.seats[s].Occupied && t.seats[s].Stack > 0 {
			n++
		}
	}
	return n
}

// advanceStreetLocked closes the current betting round and opens the next
// street, running straight through to showdown when nobody can act.
func (t *Table) advanceStreetLocked() {
	h := t.hand
	for s := range h.bets {
		h.bets[s] = 0
	}
	h.round.reset(t.cfg.BigBlind)
	h.turn = -1

	switch h.phase {
	case PhasePreflop:
		if !t.dealBoardLocked(3) {
			return
		}
		h.phase = PhaseFlop
	case PhaseFlop:
		if !t.dealBoardLocked(1) {
			return
		}
		h.phase = PhaseTurn
	case PhaseTurn:
		if !t.dealBoardLocked(1) {
			return
		}
		h.phase = PhaseRiver
	case PhaseRiver:
		t.showdownLocked()
		return
	default:
		return
	}

	t.logger.Info("street dealt", "hand", t.handNum, "phase", h.phase, "board", poker.NewHand(h.community...).Strings())

	h.turn = t.nextActionableLocked(t.dealer + 1)
	if h.turn == -1 || t.roundCompleteLocked() {
		t.advanceStreetLocked()
	}
}

// dealBoardLocked burns one card and deals n to the board. Reports false
// after aborting the hand on an exhausted deck.
func (t *Table) dealBoardLocked(n int) bool {
	h := t.hand
	if !h.deck.Burn() {
		t.abortHandLocked("deck exhausted at burn")
		return false
	}
	cards := h.deck.DrawN(n)
	if cards == nil {
		t.abortHandLocked("deck exhausted on board")
		return false
	}
	h.community = append(h.community, cards...)
	return true
}

// earlyWinLocked ends the hand when a single non-folded seat remains: the
// pot moves to them with no evaluation and no card reveal.
func (t *Table) earlyWinLocked() {
	h := t.hand
	winner := -1
	for s := 0; s < NumSeats; s++ {
		if h.dealt[s] && !h.folded[s] {
			winner = s
			break
		}
	}
	if winner == -1 {
		t.abortHandLocked("no seats left in hand")
		return
	}

	amount := h.pot
	if t.seats[winner].Occupied {
		t.seats[winner].Stack += amount
	}
	h.pot = 0
	h.turn = -1
	h.phase = PhaseShowdown
	h.reveal = false

	t.logger.Info("hand won uncontested",
		"hand", t.handNum,
		"seat", winner,
		"name", t.seats[winner].Name,
		"amount", amount)

	t.verifyConservationLocked(0)
	if t.hand != nil {
		t.scheduleIdleLocked()
	}
}

// showdownLocked evaluates every live seat, builds the layered pots from
// the hand contributions and pays them out.
func (t *Table) showdownLocked() {
	h := t.hand
	h.phase = PhaseShowdown
	h.turn = -1
	h.reveal = true

	board := poker.NewHand(h.community...)
	var eligible [NumSeats]bool
	for s := 0; s < NumSeats; s++ {
		eligible[s] = h.dealt[s] && !h.folded[s]
	}

	pots := buildPots(h.contrib, eligible)
	carry := 0
	for i, pot := range pots {
		amount := pot.Amount + carry
		carry = 0
		if len(pot.Eligible) == 0 {
			carry = amount
			continue
		}

		winners, best := t.bestSeatsLocked(pot.Eligible, board)
		share := amount / len(winners)
		rem := amount % len(winners)
		for _, w := range winners {
			t.seats[w].Stack += share
		}
		if rem > 0 {
			t.seats[t.oddChipSeatLocked(winners)].Stack += rem
		}

		t.logger.Info("pot awarded",
			"hand", t.handNum,
			"pot", i,
			"amount", amount,
			"winners", winners,
			"with", best.Describe())
	}
	if carry > 0 {
		// Top layer had no live seat left to contest it.
		t.logger.Warn("pot forfeited", "hand", t.handNum, "amount", carry)
	}
	h.pot = 0

	t.verifyConservationLocked(carry)
	if t.hand != nil {
		t.scheduleIdleLocked()
	}
}

// bestSeatsLocked returns the seats holding the strongest hand among the
// given ones, with the winning score.
func (t *Table) bestSeatsLocked(seats []int, board poker.Hand) ([]int, poker.Score) {
	h := t.hand
	var winners []int
	var best poker.Score
	for _, s := range seats {
		score := poker.Evaluate(h.hole[s] | board)
		switch poker.Compare(score, best) {
		case 1:
			best = score
			winners = winners[:0]
			winners = append(winners, s)
		case 0:
			winners = append(winners, s)
		}
	}
	return winners, best
}

// oddChipSeatLocked picks the winner closest clockwise from the button to
// receive an indivisible remainder.
func (t *Table) oddChipSeatLocked(winners []int) int {
	for i := 1; i <= NumSeats; i++ {
		s := (t.dealer + i) % NumSeats
		for _, w := range winners {
			if w == s {
				return s
			}
		}
	}
	return winners[0]
}

// verifyConservationLocked checks that no chips appeared or vanished over
// the hand. A violation is a programming error: the hand aborts and stacks
// roll back to the pre-hand snapshot.
func (t *Table) verifyConservationLocked(forfeited int) {
	h := t.hand
	total := h.pot + forfeited
	for i := range t.seats {
		if t.seats[i].Occupied {
			total += t.seats[i].Stack
		}
	}
	if total != h.preTotal {
		t.logger.Error("chip conservation violated",
			"hand", t.handNum,
			"expected", h.preTotal,
			"actual", total)
		t.abortHandLocked("chip conservation violated")
	}
}

// abortHandLocked handles internal invariant breaches: pre-hand stacks are
// restored for seats still held by the same client and the table returns to
// idle.
func (t *Table) abortHandLocked(reason string) {
	h := t.hand
	if h == nil {
		return
	}
	t.logger.Error("hand aborted", "hand", t.handNum, "reason", reason)
	for i := range t.seats {
		if t.seats[i].Occupied && t.seats[i].ClientID == h.preClients[i] {
			t.seats[i].Stack = h.preStacks[i]
		}
	}
	t.hand = nil
}

// forceFoldLocked folds a seat out of turn (stand, kick, disconnect) and
// keeps the hand moving.
func (t *Table) forceFoldLocked(seat int) {
	h := t.hand
	if h == nil || !h.phase.Betting() || !h.dealt[seat] || h.folded[seat] {
		return
	}
	h.folded[seat] = true
	h.round.acted[seat] = true
	if h.phase == PhasePreflop && seat == h.bbSeat {
		h.round.bbActed = true
	}
	if h.round.lastAggressor == seat {
		h.round.lastAggressor = -1
	}

	switch t.inHandCountLocked() {
	case 0:
		// Everyone left mid-hand; nothing to award the pot to.
		t.logger.Warn("pot forfeited, no seats left", "hand", t.handNum, "amount", h.pot)
		t.hand = nil
		return
	case 1:
		t.earlyWinLocked()
		return
	}
	if seat == h.turn {
		h.turn = t.nextActionableLocked(seat + 1)
	}
	if h.turn == -1 || t.roundCompleteLocked() {
		t.advanceStreetLocked()
	}
}
