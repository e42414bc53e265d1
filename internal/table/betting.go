package table

// bettingRound carries the state that resets on every street.
type bettingRound struct {
	minRaise      int
	lastAggressor int
	acted         [NumSeats]bool

	// bbActed tracks the big blind's preflop option: even when every bet
	// matches the blind, preflop is not over until the big blind has acted
	// once.
	bbActed bool
}

func (r *bettingRound) reset(bigBlind int) {
	r.minRaise = bigBlind
	r.lastAggressor = -1
	r.acted = [NumSeats]bool{}
}

// reopen clears acted flags after a full raise so everyone gets another
// turn.
func (r *bettingRound) reopen(aggressor int) {
	r.acted = [NumSeats]bool{}
	r.acted[aggressor] = true
}

func (h *Hand) maxBet() int {
	max := 0
	for _, b := range h.bets {
		if b > max {
			max = b
		}
	}
	return max
}

// actionLocked validates and applies one player action. Illegal actions
// return their protocol kind and leave every piece of state untouched.
func (t *Table) actionLocked(clientID, kind string, amount int) error {
	seat := t.seatOfLocked(clientID)
	if seat < 0 {
		return ErrNotSeated
	}
	h := t.hand
	if h == nil || !h.phase.Betting() {
		return ErrNotInBettingPhase
	}
	if !h.dealt[seat] {
		return ErrNotYourTurn
	}
	if h.folded[seat] {
		return ErrAlreadyFolded
	}
	if h.turn != seat {
		return ErrNotYourTurn
	}

	stack := t.seats[seat].Stack
	maxBet := h.maxBet()
	toCall := maxBet - h.bets[seat]

	switch kind {
	case "fold":
		h.folded[seat] = true

	case "check":
		if toCall != 0 {
			return ErrCannotCheck
		}

	case "call":
		if toCall <= 0 {
			return ErrInvalidAmount
		}
		t.commitLocked(seat, min(toCall, stack))

	case "bet", "raise":
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if amount < h.round.minRaise {
			return ErrRaiseBelowMin
		}
		if toCall+amount > stack {
			return ErrInsufficientChips
		}
		t.commitLocked(seat, toCall+amount)
		if amount > h.round.minRaise {
			h.round.minRaise = amount
		}
		h.round.lastAggressor = seat
		h.round.reopen(seat)

	case "allin":
		if stack <= 0 {
			return ErrInsufficientChips
		}
		t.commitLocked(seat, stack)
		if newBet := h.bets[seat]; newBet > maxBet {
			// Only a full raise reopens the action; a short all-in leaves
			// already-acted players with just a call to make.
			if incr := newBet - maxBet; incr >= h.round.minRaise {
				h.round.minRaise = incr
				h.round.lastAggressor = seat
				h.round.reopen(seat)
			}
		}

	default:
		return ErrUnknownAction
	}

	h.round.acted[seat] = true
	if h.phase == PhasePreflop && seat == h.bbSeat {
		h.round.bbActed = true
	}

	t.logger.Debug("action applied",
		"hand", t.handNum,
		"seat", seat,
		"action", kind,
		"amount", amount,
		"pot", h.pot)

	if t.inHandCountLocked() == 1 {
		t.earlyWinLocked()
		return nil
	}
	if t.roundCompleteLocked() {
		t.advanceStreetLocked()
		return nil
	}
	h.turn = t.nextActionableLocked(h.turn + 1)
	if h.turn == -1 {
		t.advanceStreetLocked()
	}
	return nil
}

// roundCompleteLocked decides whether the current street's betting is over:
// every seat still able to act has matched the high bet and has had a turn,
// with the big blind's preflop option honoured. One or zero live seats ends
// the round trivially; a single seat left with chips only needs to match.
func (t *Table) roundCompleteLocked() bool {
	h := t.hand
	if t.inHandCountLocked() <= 1 {
		return true
	}

	maxBet := h.maxBet()
	actionable := t.actionableCountLocked()
	if actionable == 0 {
		return true
	}
	if actionable == 1 {
		for s := 0; s < NumSeats; s++ {
			if h.dealt[s] && !h.folded[s] && t.seats[s].Occupied && t.seats[s].Stack > 0 {
				return h.bets[s] == maxBet
			}
		}
		return true
	}

	for s := 0; s < NumSeats; s++ {
		if !h.dealt[s] || h.folded[s] || !t.seats[s].Occupied || t.seats[s].Stack <= 0 {
			continue
		}
		if h.bets[s] != maxBet || !h.round.acted[s] {
			return false
		}
	}

	if h.phase == PhasePreflop && !h.round.bbActed {
		bb := h.bbSeat
		if h.dealt[bb] && !h.folded[bb] && t.seats[bb].Occupied && t.seats[bb].Stack > 0 {
			return false
		}
	}
	return true
}
