package rules

import "github.com/wricardo/monopoly-deal/game/cards"

const (
	HouseBonus = 3
	HotelBonus = 4

	DebtCollectorAmount = 5
	BirthdayAmount      = 2
	PassGoDraw          = 2

	// MaxDoubleRent is the number of Double the Rent cards in the deck
	MaxDoubleRent = 3
)

var setSizes = map[cards.Color]int{
	cards.Brown:     2,
	cards.LightBlue: 3,
	cards.Pink:      3,
	cards.Orange:    3,
	cards.Red:       3,
	cards.Yellow:    3,
	cards.Green:     3,
	cards.DarkBlue:  2,
	cards.Railroads: 4,
	cards.Utilities: 2,
}

// index = number owned - 1
var rentTable = map[cards.Color][]int{
	cards.Brown:     {1, 2},
	cards.LightBlue: {1, 2, 3},
	cards.Pink:      {1, 2, 4},
	cards.Orange:    {1, 3, 5},
	cards.Red:       {2, 3, 6},
	cards.Yellow:    {2, 4, 6},
	cards.Green:     {2, 4, 7},
	cards.DarkBlue:  {3, 8},
	cards.Railroads: {1, 2, 3, 4},
	cards.Utilities: {1, 2},
}

var actionKinds = map[string]TargetKind{
	cards.SlyDeal:       TargetSingle,
	cards.DebtCollector: TargetSingle,
	cards.ForcedDeal:    TargetSingle,
	cards.Birthday:      TargetAll,
	cards.DealBreaker:   TargetStealSet,
}

var rentCardColors = map[string][]cards.Color{
	cards.RentBrownLightBlue:  {cards.Brown, cards.LightBlue},
	cards.RentPinkOrange:      {cards.Pink, cards.Orange},
	cards.RentRedYellow:       {cards.Red, cards.Yellow},
	cards.RentGreenDarkBlue:   {cards.Green, cards.DarkBlue},
	cards.RentRailroadUtility: {cards.Railroads, cards.Utilities},
	cards.RentAnyColor:        cards.AllColors,
}

// SetSize returns the number of properties that complete a color set, or 0
// for an unknown color.
func SetSize(color cards.Color) int {
	return setSizes[color]
}

// RentTable returns a copy of the rent ladder for a color
func RentTable(color cards.Color) []int {
	return append([]int(nil), rentTable[color]...)
}

// BuildEligible reports whether houses and hotels may be built on a color
func BuildEligible(color cards.Color) bool {
	_, known := setSizes[color]
	return known && color != cards.Railroads && color != cards.Utilities
}

// RentColors returns the colors a rent card charges for
func RentColors(cardName string) []cards.Color {
	return append([]cards.Color(nil), rentCardColors[cardName]...)
}

// IsDoubleRent reports whether the card is Double the Rent
func IsDoubleRent(cardName string) bool {
	return cardName == cards.DoubleTheRent
}

// IsJustSayNo reports whether the card is Just Say No
func IsJustSayNo(cardName string) bool {
	return cardName == cards.JustSayNo
}
