package poker

import (
	"testing"

	oracle "github.com/paulhankin/poker"

	"github.com/Gumball-code/ggpoker/internal/randutil"
)

func evalStrings(t *testing.T, cards ...string) Score {
	t.Helper()
	var h Hand
	for _, s := range cards {
		h.AddCard(MustParseCard(s))
	}
	if h.CountCards() != len(cards) {
		t.Fatalf("duplicate card in %v", cards)
	}
	return Evaluate(h)
}

func TestStraightFlushDetection(t *testing.T) {
	t.Parallel()

	s := evalStrings(t, "As", "Ks", "Qs", "Js", "Ts", "2h", "3d")
	if s.Category() != StraightFlush {
		t.Fatalf("category = %s, want Straight Flush", s)
	}
	if s.TieBreak(0) != Ace {
		t.Errorf("high card = %d, want %d (ace)", s.TieBreak(0), Ace)
	}
}

func TestWheelStraight(t *testing.T) {
	t.Parallel()

	s := evalStrings(t, "Ah", "2c", "3d", "4s", "5h", "9c", "Kd")
	if s.Category() != Straight {
		t.Fatalf("category = %s, want Straight", s)
	}
	if s.TieBreak(0) != Five {
		t.Errorf("high card = %d, want %d (the five)", s.TieBreak(0), Five)
	}

	// The wheel loses to a six-high straight and beats any non-straight.
	sixHigh := evalStrings(t, "2h", "3c", "4d", "5s", "6h", "9c", "Kd")
	if Compare(sixHigh, s) != 1 {
		t.Error("six-high straight should beat the wheel")
	}
	trips := evalStrings(t, "Ah", "Ac", "Ad", "9s", "7h", "5c", "2d")
	if Compare(s, trips) != 1 {
		t.Error("wheel should beat three of a kind")
	}
}

func TestWheelStraightFlush(t *testing.T) {
	t.Parallel()

	s := evalStrings(t, "Ah", "2h", "3h", "4h", "5h", "9c", "Kd")
	if s.Category() != StraightFlush {
		t.Fatalf("category = %s, want Straight Flush", s)
	}
	if s.TieBreak(0) != Five {
		t.Errorf("high card = %d, want %d", s.TieBreak(0), Five)
	}
}

func TestKickerDecidesOnePair(t *testing.T) {
	t.Parallel()

	a := evalStrings(t, "As", "Ad", "Kh", "7c", "5d", "4s", "2c")
	b := evalStrings(t, "As", "Ad", "Qh", "Jc", "9d", "4s", "2c")
	if a.Category() != Pair || b.Category() != Pair {
		t.Fatalf("categories = %s, %s, want Pair", a, b)
	}
	if Compare(a, b) != 1 {
		t.Error("king kicker should beat queen kicker")
	}
}

func TestCategoryDominance(t *testing.T) {
	t.Parallel()

	// One representative hand per category, weakest first. Every hand must
	// beat all hands of strictly lower categories.
	hands := []struct {
		name  string
		cards []string
		cat   Score
	}{
		{"high card", []string{"As", "Kh", "Qd", "9c", "7s", "5h", "3d"}, HighCard},
		{"pair", []string{"As", "Ad", "Kh", "Qc", "9s", "7h", "3d"}, Pair},
		{"two pair", []string{"As", "Ad", "Kh", "Kc", "9s", "7h", "3d"}, TwoPair},
		{"trips", []string{"As", "Ad", "Ah", "Kc", "9s", "7h", "3d"}, ThreeOfAKind},
		{"straight", []string{"9s", "8h", "7d", "6c", "5s", "Kh", "2d"}, Straight},
		{"flush", []string{"As", "Ks", "9s", "7s", "3s", "Qh", "Jd"}, Flush},
		{"full house", []string{"As", "Ad", "Ah", "Kc", "Ks", "7h", "3d"}, FullHouse},
		{"quads", []string{"As", "Ad", "Ah", "Ac", "Ks", "7h", "3d"}, FourOfAKind},
		{"straight flush", []string{"9s", "8s", "7s", "6s", "5s", "Kh", "2d"}, StraightFlush},
	}

	scores := make([]Score, len(hands))
	for i, h := range hands {
		scores[i] = evalStrings(t, h.cards...)
		if scores[i].Category() != h.cat {
			t.Fatalf("%s: category = %s", h.name, scores[i])
		}
	}
	for i := 0; i < len(hands); i++ {
		for j := 0; j < i; j++ {
			if Compare(scores[i], scores[j]) != 1 {
				t.Errorf("%s should beat %s", hands[i].name, hands[j].name)
			}
		}
	}
}

func TestTieBreakPacking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []string
		cat   Score
		ranks []uint8
	}{
		{
			"quads with kicker",
			[]string{"As", "Ad", "Ah", "Ac", "Ks", "7h", "3d"},
			FourOfAKind, []uint8{Ace, King},
		},
		{
			"full house from double trips",
			[]string{"As", "Ad", "Ah", "Kc", "Ks", "Kh", "Qd"},
			FullHouse, []uint8{Ace, King},
		},
		{
			"flush takes top five of the suit",
			[]string{"As", "Ks", "9s", "7s", "3s", "2s", "Jd"},
			Flush, []uint8{Ace, King, Nine, Seven, Three},
		},
		{
			"two pair from three pairs keeps queen kicker",
			[]string{"As", "Ad", "Kh", "Kc", "Qs", "Qh", "Jd"},
			TwoPair, []uint8{Ace, King, Queen},
		},
		{
			"trips with two kickers",
			[]string{"As", "Ad", "Ah", "Kc", "Qs", "7h", "3d"},
			ThreeOfAKind, []uint8{Ace, King, Queen},
		},
		{
			"high card top five",
			[]string{"As", "Kh", "Qd", "9c", "7s", "5h", "3d"},
			HighCard, []uint8{Ace, King, Queen, Nine, Seven},
		},
	}

	for _, tt := range tests {
		s := evalStrings(t, tt.cards...)
		if s.Category() != tt.cat {
			t.Errorf("%s: category = %s", tt.name, s)
			continue
		}
		for i, want := range tt.ranks {
			if got := s.TieBreak(i); got != want {
				t.Errorf("%s: tiebreak %d = %d, want %d", tt.name, i, got, want)
			}
		}
	}
}

func TestEvaluateFiveAndSixCards(t *testing.T) {
	t.Parallel()

	five := evalStrings(t, "As", "Ad", "Kh", "7c", "5d")
	if five.Category() != Pair {
		t.Errorf("five-card category = %s, want Pair", five)
	}
	six := evalStrings(t, "As", "Ad", "Ah", "Kc", "Ks", "2d")
	if six.Category() != FullHouse {
		t.Errorf("six-card category = %s, want Full House", six)
	}
	if Evaluate(NewHand(MustParseCard("As"))) != 0 {
		t.Error("fewer than five cards should evaluate to zero")
	}
}

func randomSevenCards(d *Deck) Hand {
	d.Shuffle()
	return NewHand(d.DrawN(7)...)
}

func TestCompareIsTotalOrder(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(42))
	for i := 0; i < 200; i++ {
		a := Evaluate(randomSevenCards(d))
		b := Evaluate(randomSevenCards(d))
		c := Evaluate(randomSevenCards(d))

		if Compare(a, a) != 0 {
			t.Fatalf("compare not reflexive for %v", a)
		}
		if Compare(a, b) != -Compare(b, a) {
			t.Fatalf("compare not antisymmetric for %v, %v", a, b)
		}
		if Compare(a, b) >= 0 && Compare(b, c) >= 0 && Compare(a, c) < 0 {
			t.Fatalf("compare not transitive for %v, %v, %v", a, b, c)
		}
	}
}

func oracleCard(t *testing.T, c Card) oracle.Card {
	t.Helper()
	rank := int(c.Rank()) + 2
	if rank == 14 {
		rank = 1 // oracle aces are rank 1
	}
	oc, err := oracle.MakeCard(oracle.Suit(c.Suit()), oracle.Rank(rank))
	if err != nil {
		t.Fatalf("oracle rejected card %s: %v", c, err)
	}
	return oc
}

// TestEvaluatorAgainstOracle cross-checks our ranking order against an
// independent evaluator on random boards.
func TestEvaluatorAgainstOracle(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1337))
	for i := 0; i < 500; i++ {
		d.Shuffle()
		cardsA := append([]Card(nil), d.DrawN(7)...)
		cardsB := append([]Card(nil), d.DrawN(7)...)

		ours := Compare(Evaluate(NewHand(cardsA...)), Evaluate(NewHand(cardsB...)))

		var oa, ob [7]oracle.Card
		for j := 0; j < 7; j++ {
			oa[j] = oracleCard(t, cardsA[j])
			ob[j] = oracleCard(t, cardsB[j])
		}
		sa, sb := oracle.Eval7(&oa), oracle.Eval7(&ob)
		theirs := 0
		if sa > sb {
			theirs = 1
		} else if sa < sb {
			theirs = -1
		}

		if ours != theirs {
			t.Fatalf("iteration %d: ordering mismatch for %v vs %v: ours %d, oracle %d",
				i, NewHand(cardsA...).Strings(), NewHand(cardsB...).Strings(), ours, theirs)
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards []string
		want  string
	}{
		{[]string{"As", "Ks", "Qs", "Js", "Ts", "2h", "3d"}, "Straight Flush, Ace high"},
		{[]string{"As", "Ad", "Kh", "Kc", "9s", "7h", "3d"}, "Two Pair, Aces and Kings"},
		{[]string{"As", "Ad", "Kh", "7c", "5d", "4s", "2c"}, "Pair of Aces"},
		{[]string{"Ah", "2c", "3d", "4s", "5h", "9c", "Kd"}, "Straight, Five high"},
	}
	for _, tt := range tests {
		if got := evalStrings(t, tt.cards...).Describe(); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.cards, got, tt.want)
		}
	}
}
