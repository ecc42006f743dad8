// Package cards defines the Monopoly Deal card model and the canonical deck.
//
// A Card is an immutable value discriminated by its Type. Only the fields
// relevant to a variant are populated: money and action cards carry a name
// and value, properties carry a single Color, wilds and rent cards carry an
// ordered list of eligible Colors or the AnyColor marker.
//
// The catalog is static. BuildDeck expands it into the full 111-card
// multiset and NewDeck shuffles that multiset with a Randomizer:
//
//	deck := cards.NewDeck(cards.DefaultRandomizer())
//	card, ok := deck.Draw()
//
// Draw consumes from the tail of the deck and reports false once the deck
// is exhausted. There is no reshuffle of discarded cards.
package cards
