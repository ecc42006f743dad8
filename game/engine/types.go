package engine

import (
	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/rules"
)

// Phase is a game's lifecycle stage
type Phase string

const (
	NotStarted Phase = "not_started"
	InProgress Phase = "in_progress"
	Finished   Phase = "finished"
)

// WinRule selects the victory condition
type WinRule string

const (
	// WinByPropertyCount ends the game once a player has WinTarget
	// properties on the table, regardless of color.
	WinByPropertyCount WinRule = "property_count"

	// WinByCompleteSets ends the game once a player holds WinTarget
	// complete color sets.
	WinByCompleteSets WinRule = "complete_sets"
)

const (
	WinTarget = 3
	HandSize  = 5
)

// Options configure a game at start
type Options struct {
	Flags             rules.Flags
	Limits            rules.TurnLimits
	EnforceTurnLimits bool
	WinRule           WinRule
	Randomizer        cards.Randomizer

	// StackedDeck replaces the shuffled deck when non-nil. The last card is
	// dealt first.
	StackedDeck []cards.Card
}

// DefaultOptions returns the official flags, standard turn limits without
// enforcement, and the property-count win rule.
func DefaultOptions() Options {
	return Options{
		Limits:  rules.DefaultTurnLimits(),
		WinRule: WinByPropertyCount,
	}
}

// PlacedProperty is a property or wild card on the table, counted toward Color
type PlacedProperty struct {
	Card  cards.Card  `json:"card"`
	Color cards.Color `json:"color"`
}

// Player is one seat at the table
type Player struct {
	Name       string               `json:"name"`
	Hand       []cards.Card         `json:"hand"`
	Properties []PlacedProperty     `json:"properties"`
	Bank       int                  `json:"bank"`
	Houses     map[cards.Color]bool `json:"houses"`
	Hotels     map[cards.Color]bool `json:"hotels"`

	// Left marks a seat whose player walked away mid-game. The seat keeps
	// its cards but never takes a turn or answers an action again.
	Left bool `json:"left,omitempty"`
}

func newPlayer(name string) *Player {
	return &Player{
		Name:       name,
		Hand:       []cards.Card{},
		Properties: []PlacedProperty{},
		Houses:     make(map[cards.Color]bool),
		Hotels:     make(map[cards.Color]bool),
	}
}

// OwnedInColor counts properties placed toward color
func (p *Player) OwnedInColor(color cards.Color) int {
	n := 0
	for _, prop := range p.Properties {
		if prop.Color == color {
			n++
		}
	}
	return n
}

// HasFullSet reports whether the color set is complete
func (p *Player) HasFullSet(color cards.Color) bool {
	return rules.IsFullSet(color, p.OwnedInColor(color))
}

// CompleteSets counts distinct complete color sets
func (p *Player) CompleteSets() int {
	n := 0
	for _, color := range cards.AllColors {
		if p.HasFullSet(color) {
			n++
		}
	}
	return n
}

// PropertyValues lists the value of every tabled property
func (p *Player) PropertyValues() []int {
	values := make([]int, len(p.Properties))
	for i, prop := range p.Properties {
		values[i] = prop.Card.Value
	}
	return values
}

// Rent returns what this player may charge for color with doubleCount doublings
func (p *Player) Rent(flags rules.Flags, color cards.Color, doubleCount int) int {
	owned := p.OwnedInColor(color)
	if owned == 0 {
		return 0
	}
	return flags.ComputeRent(color, owned, p.Houses[color], p.Hotels[color], doubleCount)
}

func (p *Player) handIndex(name string) int {
	for i, c := range p.Hand {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (p *Player) removeFromHand(i int) cards.Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return card
}

// PlayRequest describes a card play by the current player
type PlayRequest struct {
	Index int `json:"card_index"`

	// AsMoney banks a non-property card for its value instead of using it.
	AsMoney bool `json:"as_money,omitempty"`

	// Color chooses the set for a wild, the set charged by a rent card, the
	// set built on by House/Hotel, or the set stolen by Deal Breaker.
	Color cards.Color `json:"color,omitempty"`

	Target         string `json:"target,omitempty"`
	TargetProperty int    `json:"target_property,omitempty"`
	OfferProperty  int    `json:"offer_property,omitempty"`
}

// PendingAction is a targeted action awaiting responses
type PendingAction struct {
	Actor          int              `json:"-"`
	Card           cards.Card       `json:"card"`
	Kind           rules.TargetKind `json:"kind"`
	Color          cards.Color      `json:"color,omitempty"`
	Amount         int              `json:"amount,omitempty"`
	Targets        []int            `json:"-"`
	Responses      []string         `json:"responses"`
	Responder      int              `json:"-"`
	TargetProperty int              `json:"-"`
	OfferProperty  int              `json:"-"`
}

// Event is one entry in a game's history
type Event struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Player  string `json:"player"`
	Action  string `json:"action"`
	Message string `json:"message"`
}
