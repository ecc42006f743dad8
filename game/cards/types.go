package cards

import (
	"slices"
	"strings"
)

// Type discriminates card variants
type Type string

const (
	Money    Type = "money"
	Property Type = "property"
	Wild     Type = "wild"
	Action   Type = "action"
	Rent     Type = "rent"
)

// Color names a property set
type Color string

const (
	Brown     Color = "Brown"
	LightBlue Color = "Light Blue"
	Pink      Color = "Pink"
	Orange    Color = "Orange"
	Red       Color = "Red"
	Yellow    Color = "Yellow"
	Green     Color = "Green"
	DarkBlue  Color = "Dark Blue"
	Railroads Color = "Railroads"
	Utilities Color = "Utilities"
)

// AllColors lists every color set in board order
var AllColors = []Color{
	Brown, LightBlue, Pink, Orange, Red, Yellow, Green, DarkBlue, Railroads, Utilities,
}

// ParseColor resolves a color by name, ignoring case.
func ParseColor(name string) (Color, bool) {
	for _, c := range AllColors {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return "", false
}

// Action card names
const (
	DealBreaker   = "Deal Breaker"
	SlyDeal       = "Sly Deal"
	ForcedDeal    = "Forced Deal"
	DebtCollector = "Debt Collector"
	Birthday      = "It's My Birthday"
	PassGo        = "Pass Go"
	DoubleTheRent = "Double the Rent"
	House         = "House"
	Hotel         = "Hotel"
	JustSayNo     = "Just Say No"
)

// Rent card names
const (
	RentBrownLightBlue  = "Rent Brown/Light Blue"
	RentPinkOrange      = "Rent Pink/Orange"
	RentRedYellow       = "Rent Red/Yellow"
	RentGreenDarkBlue   = "Rent Green/Dark Blue"
	RentRailroadUtility = "Rent Railroad/Utility"
	RentAnyColor        = "Rent Wild (Any Color)"
)

// Card is an immutable card value. Duplicates are interchangeable.
type Card struct {
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	Value    int     `json:"value"`
	Color    Color   `json:"color,omitempty"`
	Colors   []Color `json:"colors,omitempty"`
	AnyColor bool    `json:"any_color,omitempty"`
}

// NewMoney creates a money card
func NewMoney(name string, value int) Card {
	return Card{Name: name, Type: Money, Value: value}
}

// NewProperty creates a property card belonging to exactly one color set
func NewProperty(name string, value int, color Color) Card {
	return Card{Name: name, Type: Property, Value: value, Color: color}
}

// NewWild creates a property wildcard eligible for the given colors
func NewWild(name string, value int, colors ...Color) Card {
	return Card{Name: name, Type: Wild, Value: value, Colors: colors}
}

// NewAnyWild creates a property wildcard eligible for every color
func NewAnyWild(name string, value int) Card {
	return Card{Name: name, Type: Wild, Value: value, AnyColor: true}
}

// NewAction creates an action card
func NewAction(name string, value int) Card {
	return Card{Name: name, Type: Action, Value: value}
}

// NewRent creates a rent card naming the colors it charges for
func NewRent(name string, value int, colors ...Color) Card {
	return Card{Name: name, Type: Rent, Value: value, Colors: colors}
}

// NewAnyRent creates a rent card valid for any color
func NewAnyRent(name string, value int) Card {
	return Card{Name: name, Type: Rent, Value: value, AnyColor: true}
}

// IsProperty reports whether the card can be laid down as a property
func (c Card) IsProperty() bool {
	return c.Type == Property || c.Type == Wild
}

// EligibleColors returns the colors this card may count toward or charge rent for.
func (c Card) EligibleColors() []Color {
	switch {
	case c.Type == Property:
		return []Color{c.Color}
	case c.AnyColor:
		return slices.Clone(AllColors)
	default:
		return slices.Clone(c.Colors)
	}
}

// Allows reports whether color is one of the card's eligible colors
func (c Card) Allows(color Color) bool {
	if c.Type == Property {
		return c.Color == color
	}
	if c.AnyColor {
		return slices.Contains(AllColors, color)
	}
	return slices.Contains(c.Colors, color)
}
