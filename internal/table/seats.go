package table

// Seat is one of the table's fixed slots. Slot index is stable for the
// lifetime of occupancy; Stack is mutated only by the engine during hand
// processing and at (re-)seating.
type Seat struct {
	ClientID string
	Name     string
	Stack    int
	Occupied bool
}

// Sit occupies an empty seat. The buy-in is clamped into the configured
// range; non-positive amounts are rejected.
func (t *Table) Sit(clientID, name string, seat, buyIn int) error {
	return t.run(func() error {
		if seat < 0 || seat >= NumSeats {
			return ErrInvalidSeat
		}
		if name == "" {
			return ErrNoUsername
		}
		if t.seatOfLocked(clientID) >= 0 {
			return ErrSeatOccupied
		}
		if t.seats[seat].Occupied {
			return ErrSeatOccupied
		}
		if buyIn <= 0 {
			return ErrInvalidAmount
		}
		if buyIn < t.cfg.MinBuyIn {
			buyIn = t.cfg.MinBuyIn
		}
		if buyIn > t.cfg.MaxBuyIn {
			buyIn = t.cfg.MaxBuyIn
		}
		t.seats[seat] = Seat{
			ClientID: clientID,
			Name:     name,
			Stack:    buyIn,
			Occupied: true,
		}
		if t.hand != nil {
			// Chips arriving mid-hand extend the conservation baseline; the
			// new occupant is not dealt in until the next hand.
			t.hand.preTotal += buyIn
		}
		t.logger.Info("seat taken", "seat", seat, "name", name, "buyIn", buyIn)
		return nil
	})
}

// Stand frees the caller's seat. Mid-hand the seat is folded for the
// remainder; chips already committed stay in the pot.
func (t *Table) Stand(clientID string) error {
	return t.run(func() error {
		seat := t.seatOfLocked(clientID)
		if seat < 0 {
			return ErrNotSeated
		}
		t.vacateLocked(seat)
		return nil
	})
}

// Kick is the owner-only equivalent of Stand for another seat.
func (t *Table) Kick(clientID string, seat int) error {
	return t.run(func() error {
		if t.owner != clientID {
			return ErrNotOwner
		}
		if seat < 0 || seat >= NumSeats {
			return ErrInvalidSeat
		}
		if !t.seats[seat].Occupied {
			return ErrInvalidSeat
		}
		t.logger.Info("seat kicked", "seat", seat, "name", t.seats[seat].Name)
		t.vacateLocked(seat)
		return nil
	})
}

// Rename updates the display name of a seated client.
func (t *Table) Rename(clientID, name string) error {
	return t.run(func() error {
		if seat := t.seatOfLocked(clientID); seat >= 0 && name != "" {
			t.seats[seat].Name = name
		}
		return nil
	})
}

func (t *Table) seatOfLocked(clientID string) int {
	if clientID == "" {
		return -1
	}
	for i := range t.seats {
		if t.seats[i].Occupied && t.seats[i].ClientID == clientID {
			return i
		}
	}
	return -1
}

// vacateLocked frees a slot. The occupant's remaining stack leaves the
// table with them; a dealt seat is force-folded first so the hand can
// settle without them.
func (t *Table) vacateLocked(seat int) {
	if h := t.hand; h != nil && h.dealt[seat] && !h.folded[seat] && h.phase.Betting() {
		t.forceFoldLocked(seat)
	}
	if h := t.hand; h != nil {
		// Departing chips are no longer part of the hand's conservation
		// baseline.
		h.preTotal -= t.seats[seat].Stack
	}
	t.logger.Info("seat freed", "seat", seat, "name", t.seats[seat].Name, "stack", t.seats[seat].Stack)
	t.seats[seat] = Seat{}
}

// occupiedWithChipsLocked counts seats able to play the next hand.
func (t *Table) occupiedWithChipsLocked() int {
	n := 0
	for i := range t.seats {
		if t.seats[i].Occupied && t.seats[i].Stack > 0 {
			n++
		}
	}
	return n
}

// nextSeatWithChipsLocked scans clockwise from the given seat (inclusive,
// modulo the ring) for an occupied seat with a positive stack.
func (t *Table) nextSeatWithChipsLocked(from int) int {
	for i := 0; i < NumSeats; i++ {
		s := ((from+i)%NumSeats + NumSeats) % NumSeats
		if t.seats[s].Occupied && t.seats[s].Stack > 0 {
			return s
		}
	}
	return -1
}
