package rules

import (
	"slices"

	"github.com/wricardo/monopoly-deal/game/cards"
)

// Flags are optional rule variations. The zero value is the official rule set.
type Flags struct {
	LimitDoubleRentToOne bool `json:"limit_double_rent_to_one" yaml:"limit_double_rent_to_one"`
	SlyDealOnFullSets    bool `json:"sly_deal_on_full_sets" yaml:"sly_deal_on_full_sets"`
	ForcedDealOnFullSets bool `json:"forced_deal_on_full_sets" yaml:"forced_deal_on_full_sets"`
}

// TargetKind classifies how an action card selects its targets
type TargetKind string

const (
	TargetSingle   TargetKind = "single"
	TargetAll      TargetKind = "all"
	TargetStealSet TargetKind = "steal_set"
	TargetRent     TargetKind = "rent"
	TargetNone     TargetKind = "none"
)

// IsFullSet reports whether ownedCount completes the color set
func IsFullSet(color cards.Color, ownedCount int) bool {
	size := SetSize(color)
	return size > 0 && ownedCount >= size
}

// CanBuildHouse reports whether a house may be added to the set
func CanBuildHouse(color cards.Color, ownedCount int, hasHouse, hasHotel bool) bool {
	if !BuildEligible(color) || !IsFullSet(color, ownedCount) {
		return false
	}
	return !hasHouse && !hasHotel
}

// CanBuildHotel reports whether a hotel may be added to the set
func CanBuildHotel(color cards.Color, ownedCount int, hasHouse, hasHotel bool) bool {
	if !BuildEligible(color) || !IsFullSet(color, ownedCount) {
		return false
	}
	return hasHouse && !hasHotel
}

// BaseRent looks up the rent for ownedCount properties of a color.
// ownedCount is clamped to [1, SetSize(color)].
func BaseRent(color cards.Color, ownedCount int) int {
	table := rentTable[color]
	if len(table) == 0 {
		return 0
	}
	owned := max(1, min(ownedCount, SetSize(color)))
	return table[owned-1]
}

// ApplyBuildBonus adds house and hotel bonuses when the set is full and buildable.
func ApplyBuildBonus(color cards.Color, ownedCount int, hasHouse, hasHotel bool, rent int) int {
	if !IsFullSet(color, ownedCount) || !BuildEligible(color) {
		return rent
	}
	if hasHouse {
		rent += HouseBonus
	}
	if hasHotel {
		rent += HotelBonus
	}
	return rent
}

// CapDoubleRent returns how many Double the Rent cards are honored. No more
// than MaxDoubleRent can ever be in play.
func (f Flags) CapDoubleRent(doubleCount int) int {
	n := min(max(0, doubleCount), MaxDoubleRent)
	if f.LimitDoubleRentToOne {
		return min(1, n)
	}
	return n
}

// ComputeRent returns the rent owed for a set, including building bonuses
// and each honored Double the Rent.
func (f Flags) ComputeRent(color cards.Color, ownedCount int, hasHouse, hasHotel bool, doubleCount int) int {
	rent := ApplyBuildBonus(color, ownedCount, hasHouse, hasHotel, BaseRent(color, ownedCount))
	for i := 0; i < f.CapDoubleRent(doubleCount); i++ {
		rent *= 2
	}
	return rent
}

// ComputeRent computes rent under the official rules (no doubling cap).
func ComputeRent(color cards.Color, ownedCount int, hasHouse, hasHotel bool, doubleCount int) int {
	return Flags{}.ComputeRent(color, ownedCount, hasHouse, hasHotel, doubleCount)
}

// ActionTargetKind classifies an action or rent card by name
func ActionTargetKind(cardName string) TargetKind {
	if kind, ok := actionKinds[cardName]; ok {
		return kind
	}
	if _, ok := rentCardColors[cardName]; ok {
		return TargetRent
	}
	return TargetNone
}

// ResolveJustSayNoStack reports whether a pending action takes effect given
// the responses played against it in order. Each Just Say No negates the
// one before it, so the action stands iff the count is even.
func ResolveJustSayNoStack(responsesInOrder []string) bool {
	jsn := 0
	for _, r := range responsesInOrder {
		if IsJustSayNo(r) {
			jsn++
		}
	}
	return jsn%2 == 0
}

// Payment is the outcome of settling a debt
type Payment struct {
	BankUsed        int   `json:"bank_used"`
	PropertiesTaken []int `json:"properties_taken"`
	TotalPaid       int   `json:"total_paid"`
}

// PaymentOptions returns the bank total and property values largest first
func PaymentOptions(bankTotal int, propertyValues []int) (int, []int) {
	sorted := slices.Clone(propertyValues)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	return bankTotal, sorted
}

// ChoosePayment settles amountDue greedily: bank first, then properties in
// descending value until nothing remains owed. Overpaying with a property is
// allowed and no change is given.
func ChoosePayment(amountDue, bankTotal int, propertyValues []int) Payment {
	p := Payment{PropertiesTaken: []int{}}
	if amountDue <= 0 {
		return p
	}

	p.BankUsed = min(max(0, bankTotal), amountDue)
	p.TotalPaid = p.BankUsed
	remaining := amountDue - p.BankUsed

	_, sorted := PaymentOptions(bankTotal, propertyValues)
	for _, v := range sorted {
		if remaining <= 0 {
			break
		}
		p.PropertiesTaken = append(p.PropertiesTaken, v)
		remaining -= v
		p.TotalPaid += v
	}
	return p
}

// TurnLimits bounds what a player may do in one turn
type TurnLimits struct {
	DrawDefault int `json:"draw_default" yaml:"draw_default"`
	DrawIfEmpty int `json:"draw_if_empty" yaml:"draw_if_empty"`
	MaxPlays    int `json:"max_plays" yaml:"max_plays"`
	HandLimit   int `json:"hand_limit" yaml:"hand_limit"`
}

// DefaultTurnLimits returns the standard limits
func DefaultTurnLimits() TurnLimits {
	return TurnLimits{DrawDefault: 2, DrawIfEmpty: 5, MaxPlays: 3, HandLimit: 7}
}

// DrawCount returns how many cards to draw at the start of a turn
func (l TurnLimits) DrawCount(handSize int) int {
	if handSize == 0 {
		return l.DrawIfEmpty
	}
	return l.DrawDefault
}

// MustDiscard reports whether the hand exceeds the limit after plays
func (l TurnLimits) MustDiscard(handSizeAfterPlays int) bool {
	return handSizeAfterPlays > l.HandLimit
}
