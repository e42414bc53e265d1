package poker

import (
	rand "math/rand/v2"
)

// Deck is a standard 52-card deck. Cards are drawn from the front of the
// shuffled order; Burn discards one card before the post-flop streets.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck using the provided random source.
// The RNG is required so shuffles are reproducible in tests and opaque in
// production.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("poker: deck requires a random source")
	}
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.Shuffle()
	return d
}

// NewStackedDeck creates a deck that deals the given cards in the given
// order, followed by the rest of the 52 in a fixed order. Used by tests to
// script exact hands.
func NewStackedDeck(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	seen := Hand(0)
	for _, c := range cards {
		if seen.HasCard(c) {
			panic("poker: duplicate card in stacked deck")
		}
		seen.AddCard(c)
		d.cards = append(d.cards, c)
	}
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := NewCard(rank, suit)
			if !seen.HasCard(c) {
				d.cards = append(d.cards, c)
			}
		}
	}
	return d
}

// Shuffle reshuffles the full deck using Fisher-Yates.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the next card. The second return is false when
// the deck is exhausted, which never happens in a legal hand.
func (d *Deck) Draw() (Card, bool) {
	if d.next >= len(d.cards) {
		return 0, false
	}
	c := d.cards[d.next]
	d.next++
	return c, true
}

// DrawN draws n cards, or nil if the deck cannot supply them.
func (d *Deck) DrawN(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// Burn discards the next card. Reports false if the deck is exhausted.
func (d *Deck) Burn() bool {
	_, ok := d.Draw()
	return ok
}

// Remaining returns the number of cards left.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
