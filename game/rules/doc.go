// Package rules implements the stateless Monopoly Deal rules: set sizes,
// rent tables, house and hotel eligibility, rent computation, action-card
// targeting, Just Say No resolution and debt payment allocation.
//
// Every function is pure and safe for concurrent use. Rule variations are
// expressed through Flags rather than package state:
//
//	rent := rules.ComputeRent(cards.DarkBlue, 2, true, true, 0) // 15
//	capped := rules.Flags{LimitDoubleRentToOne: true}.ComputeRent(cards.Red, 3, false, false, 2) // 12
package rules
