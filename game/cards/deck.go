package cards

import "math/rand"

// Randomizer is the source of shuffle and code-generation randomness.
// *rand.Rand satisfies it; it is not required to be cryptographically secure.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRandomizer struct{}

func (globalRandomizer) Intn(n int) int                     { return rand.Intn(n) }
func (globalRandomizer) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRandomizer returns a Randomizer backed by the auto-seeded global
// math/rand source, which is safe for concurrent use.
func DefaultRandomizer() Randomizer {
	return globalRandomizer{}
}

// BuildDeck expands the catalog into an unshuffled deck.
func BuildDeck() []Card {
	deck := make([]Card, 0, CatalogTotal())
	for _, e := range Catalog() {
		for i := 0; i < e.Count; i++ {
			deck = append(deck, e.Card)
		}
	}
	return deck
}

// Shuffle returns a uniformly permuted full deck
func Shuffle(r Randomizer) []Card {
	if r == nil {
		r = DefaultRandomizer()
	}
	deck := BuildDeck()
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Deck is a draw pile consumed from its tail
type Deck struct {
	cards []Card
}

// NewDeck creates a shuffled full deck
func NewDeck(r Randomizer) *Deck {
	return &Deck{cards: Shuffle(r)}
}

// NewDeckFrom creates a deck from the given cards; the last card is drawn first.
func NewDeckFrom(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw removes and returns the top card, or false if the deck is empty
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]
	return card, true
}

// Len returns the number of cards left
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}
