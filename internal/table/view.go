package table

// SeatView is the per-seat slice of a state snapshot. Hole is nil for seats
// without cards this hand, opaque placeholders for cards the viewer may not
// see, and the real cards otherwise.
type SeatView struct {
	Name         string   `json:"name"`
	Stack        int      `json:"stack"`
	CurrentBet   int      `json:"currentBet"`
	Contribution int      `json:"contribution"`
	Folded       bool     `json:"folded"`
	Hole         []string `json:"hole,omitempty"`
}

// View is the state snapshot projected for one viewer.
type View struct {
	Seats        []*SeatView `json:"seats"`
	Phase        string      `json:"phase"`
	Community    []string    `json:"community"`
	PotTotal     int         `json:"potTotal"`
	TurnSeat     int         `json:"turnSeat"`
	MinRaise     int         `json:"minRaise"`
	DealerButton int         `json:"dealerButton"`
	SmallBlind   int         `json:"smallBlind"`
	BigBlind     int         `json:"bigBlind"`
	MinBuyIn     int         `json:"minBuyIn"`
	MaxBuyIn     int         `json:"maxBuyIn"`
	OwnerPresent bool        `json:"ownerPresent"`
	YourSeat     int         `json:"yourSeat"`
}

const hiddenCard = "??"

// Snapshot is an immutable copy of the table state, taken under the table
// lock. Projections for individual viewers are derived from it without
// touching the live table, so the transport can fan out off the lock.
type Snapshot struct {
	seats        [NumSeats]Seat
	hole         [NumSeats][]string
	dealt        [NumSeats]bool
	folded       [NumSeats]bool
	bets         [NumSeats]int
	contrib      [NumSeats]int
	phase        Phase
	reveal       bool
	community    []string
	pot          int
	turn         int
	minRaise     int
	dealer       int
	cfg          Config
	ownerPresent bool
}

func (t *Table) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		seats:        t.seats,
		phase:        PhaseIdle,
		turn:         -1,
		dealer:       t.dealer,
		cfg:          t.cfg,
		ownerPresent: t.owner != "",
	}
	if h := t.hand; h != nil {
		snap.phase = h.phase
		snap.reveal = h.reveal
		snap.dealt = h.dealt
		snap.folded = h.folded
		snap.bets = h.bets
		snap.contrib = h.contrib
		snap.pot = h.pot
		snap.turn = h.turn
		snap.minRaise = h.round.minRaise
		for _, c := range h.community {
			snap.community = append(snap.community, c.String())
		}
		for s := 0; s < NumSeats; s++ {
			if h.dealt[s] {
				snap.hole[s] = h.hole[s].Strings()
			}
		}
	}
	return snap
}

// Snapshot returns a copy of the current table state.
func (t *Table) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Phase returns the snapshot's hand phase.
func (s *Snapshot) Phase() Phase {
	return s.phase
}

// ViewFor projects the snapshot for one viewer. A seat's hole cards are
// real only for their owner, or for everyone once a contested showdown
// reveals the non-folded hands; any other dealt seat shows placeholders.
func (s *Snapshot) ViewFor(viewerID string) *View {
	v := &View{
		Seats:        make([]*SeatView, NumSeats),
		Phase:        s.phase.String(),
		Community:    s.community,
		PotTotal:     s.pot,
		TurnSeat:     s.turn,
		MinRaise:     s.minRaise,
		DealerButton: s.dealer,
		SmallBlind:   s.cfg.SmallBlind,
		BigBlind:     s.cfg.BigBlind,
		MinBuyIn:     s.cfg.MinBuyIn,
		MaxBuyIn:     s.cfg.MaxBuyIn,
		OwnerPresent: s.ownerPresent,
		YourSeat:     -1,
	}
	if v.Community == nil {
		v.Community = []string{}
	}

	for i := 0; i < NumSeats; i++ {
		if !s.seats[i].Occupied {
			continue
		}
		sv := &SeatView{
			Name:         s.seats[i].Name,
			Stack:        s.seats[i].Stack,
			CurrentBet:   s.bets[i],
			Contribution: s.contrib[i],
			Folded:       s.folded[i],
		}
		if s.dealt[i] {
			switch {
			case viewerID != "" && s.seats[i].ClientID == viewerID:
				sv.Hole = s.hole[i]
			case s.phase == PhaseShowdown && s.reveal && !s.folded[i]:
				sv.Hole = s.hole[i]
			default:
				sv.Hole = []string{hiddenCard, hiddenCard}
			}
		}
		if viewerID != "" && s.seats[i].ClientID == viewerID {
			v.YourSeat = i
		}
		v.Seats[i] = sv
	}
	return v
}
