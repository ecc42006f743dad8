package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/gameerr"
	"github.com/wricardo/monopoly-deal/game/rules"
)

// Play plays the card at req.Index from the current player's hand. The
// card is only removed once the play is known to be legal.
func (g *Game) Play(req PlayRequest) (string, error) {
	if err := g.requireTurnAction(); err != nil {
		return "", err
	}
	p := g.CurrentPlayer()

	if g.opts.EnforceTurnLimits {
		if !g.drawnThisTurn {
			return "", gameerr.New(gameerr.InvalidState, "%s must draw before playing", p.Name)
		}
		if g.playsThisTurn >= g.opts.Limits.MaxPlays {
			return "", gameerr.New(gameerr.InvalidState, "%s already played %d cards this turn",
				p.Name, g.opts.Limits.MaxPlays)
		}
	}
	if req.Index < 0 || req.Index >= len(p.Hand) {
		return "", gameerr.New(gameerr.InvalidInput, "Invalid card index.")
	}
	card := p.Hand[req.Index]

	if req.AsMoney {
		if card.IsProperty() {
			return "", gameerr.New(gameerr.InvalidInput, "%s is a property and cannot be banked", card.Name)
		}
		return g.bank(p, req.Index), nil
	}

	switch card.Type {
	case cards.Money:
		return g.bank(p, req.Index), nil
	case cards.Property, cards.Wild:
		return g.playProperty(p, req)
	case cards.Action:
		return g.playAction(p, req)
	case cards.Rent:
		return g.playRent(p, req)
	}
	return "", gameerr.New(gameerr.InvalidInput, "Unknown card type %q", card.Type)
}

func (g *Game) bank(p *Player, index int) string {
	card := p.removeFromHand(index)
	p.Bank += card.Value
	g.playsThisTurn++

	msg := fmt.Sprintf("%s played %s as money.", p.Name, card.Name)
	g.record(p.Name, "bank", msg)
	return msg
}

func (g *Game) playProperty(p *Player, req PlayRequest) (string, error) {
	card := p.Hand[req.Index]

	color := req.Color
	switch {
	case card.Type == cards.Property:
		color = card.Color
	case color == "":
		color = firstOpenColor(p, card)
		if color == "" {
			return "", gameerr.New(gameerr.InvalidInput, "No open color set for %s", card.Name)
		}
	case !card.Allows(color):
		return "", gameerr.New(gameerr.InvalidInput, "%s cannot be placed in %s", card.Name, color)
	}
	if p.HasFullSet(color) {
		return "", gameerr.New(gameerr.InvalidInput, "%s set is already complete", color)
	}

	p.removeFromHand(req.Index)
	p.Properties = append(p.Properties, PlacedProperty{Card: card, Color: color})
	g.playsThisTurn++

	if g.checkWinner(p) {
		msg := fmt.Sprintf("%s wins!", p.Name)
		g.record(p.Name, "win", msg)
		return msg, nil
	}

	msg := fmt.Sprintf("%s played %s as property.", p.Name, card.Name)
	if card.Type == cards.Wild {
		msg = fmt.Sprintf("%s played %s as %s property.", p.Name, card.Name, color)
	}
	g.record(p.Name, "property", msg)
	return msg, nil
}

func (g *Game) playAction(p *Player, req PlayRequest) (string, error) {
	card := p.Hand[req.Index]
	actor := g.CurrentPlayerIndex

	switch card.Name {
	case cards.JustSayNo:
		return "", gameerr.New(gameerr.InvalidInput, "Just Say No can only be played in response to an action")

	case cards.PassGo:
		g.consume(p, req.Index)
		drawn := g.drawInto(p, rules.PassGoDraw)
		msg := fmt.Sprintf("%s played Pass Go and drew %d cards.", p.Name, drawn)
		g.record(p.Name, "action", msg)
		return msg, nil

	case cards.DoubleTheRent:
		g.consume(p, req.Index)
		g.doubleRent++
		msg := fmt.Sprintf("%s played Double the Rent; the next rent this turn is doubled.", p.Name)
		g.record(p.Name, "action", msg)
		return msg, nil

	case cards.House, cards.Hotel:
		return g.build(p, req)

	case cards.DebtCollector:
		target, err := g.singleTarget(req.Target)
		if err != nil {
			return "", err
		}
		return g.begin(p, req.Index, &PendingAction{
			Actor: actor, Kind: rules.TargetSingle, Amount: rules.DebtCollectorAmount, Targets: []int{target},
		}), nil

	case cards.Birthday:
		return g.begin(p, req.Index, &PendingAction{
			Actor: actor, Kind: rules.TargetAll, Amount: rules.BirthdayAmount, Targets: g.opponents(),
		}), nil

	case cards.SlyDeal, cards.ForcedDeal:
		target, err := g.singleTarget(req.Target)
		if err != nil {
			return "", err
		}
		allowFull := g.opts.Flags.SlyDealOnFullSets
		if card.Name == cards.ForcedDeal {
			allowFull = g.opts.Flags.ForcedDealOnFullSets
		}
		if err := checkTakeable(g.Players[target], req.TargetProperty, allowFull); err != nil {
			return "", err
		}
		if card.Name == cards.ForcedDeal {
			if err := checkTakeable(p, req.OfferProperty, allowFull); err != nil {
				return "", err
			}
		}
		return g.begin(p, req.Index, &PendingAction{
			Actor: actor, Kind: rules.TargetSingle, Targets: []int{target},
			TargetProperty: req.TargetProperty, OfferProperty: req.OfferProperty,
		}), nil

	case cards.DealBreaker:
		target, err := g.singleTarget(req.Target)
		if err != nil {
			return "", err
		}
		if !g.Players[target].HasFullSet(req.Color) {
			return "", gameerr.New(gameerr.InvalidInput, "%s has no complete %s set",
				g.Players[target].Name, displayColor(req.Color))
		}
		return g.begin(p, req.Index, &PendingAction{
			Actor: actor, Kind: rules.TargetStealSet, Color: req.Color, Targets: []int{target},
		}), nil
	}

	return "", gameerr.New(gameerr.InvalidInput, "Unknown action card %s", card.Name)
}

func (g *Game) playRent(p *Player, req PlayRequest) (string, error) {
	card := p.Hand[req.Index]

	color := req.Color
	if color == "" {
		color = bestRentColor(p, card, g.opts.Flags)
	}
	if color == "" || !card.Allows(color) {
		return "", gameerr.New(gameerr.InvalidInput, "%s cannot charge for %s", card.Name, displayColor(color))
	}
	if p.OwnedInColor(color) == 0 {
		return "", gameerr.New(gameerr.InvalidInput, "%s owns no %s properties", p.Name, color)
	}

	targets := g.opponents()
	if card.AnyColor {
		target, err := g.singleTarget(req.Target)
		if err != nil {
			return "", err
		}
		targets = []int{target}
	}

	amount := p.Rent(g.opts.Flags, color, g.doubleRent)
	g.doubleRent = 0
	return g.begin(p, req.Index, &PendingAction{
		Actor: g.CurrentPlayerIndex, Kind: rules.TargetRent, Color: color, Amount: amount, Targets: targets,
	}), nil
}

func (g *Game) build(p *Player, req PlayRequest) (string, error) {
	card := p.Hand[req.Index]
	color := req.Color
	owned := p.OwnedInColor(color)

	if card.Name == cards.House {
		if !rules.CanBuildHouse(color, owned, p.Houses[color], p.Hotels[color]) {
			return "", gameerr.New(gameerr.InvalidInput, "Cannot build a house on %s", displayColor(color))
		}
		p.Houses[color] = true
	} else {
		if !rules.CanBuildHotel(color, owned, p.Houses[color], p.Hotels[color]) {
			return "", gameerr.New(gameerr.InvalidInput, "Cannot build a hotel on %s", displayColor(color))
		}
		p.Hotels[color] = true
	}
	p.removeFromHand(req.Index)
	g.playsThisTurn++

	msg := fmt.Sprintf("%s built a %s on %s.", p.Name, strings.ToLower(card.Name), color)
	g.record(p.Name, "build", msg)
	return msg, nil
}

// consume moves an action card from hand to the discard pile and counts the play
func (g *Game) consume(p *Player, index int) cards.Card {
	card := p.removeFromHand(index)
	g.DiscardPile = append(g.DiscardPile, card)
	g.playsThisTurn++
	return card
}

// begin consumes the card and opens a pending action against its targets
func (g *Game) begin(p *Player, index int, pending *PendingAction) string {
	card := g.consume(p, index)
	pending.Card = card
	pending.Responses = []string{}

	if len(pending.Targets) == 0 {
		msg := fmt.Sprintf("%s played %s but there is no one to target.", p.Name, card.Name)
		g.record(p.Name, "action", msg)
		return msg
	}

	pending.Responder = pending.Targets[0]
	g.Pending = pending

	names := make([]string, len(pending.Targets))
	for i, t := range pending.Targets {
		names[i] = g.Players[t].Name
	}
	msg := fmt.Sprintf("%s played %s against %s; waiting for %s to respond.",
		p.Name, describe(pending), strings.Join(names, ", "), g.Responder())
	g.record(p.Name, "action", msg)
	return msg
}

func (g *Game) singleTarget(name string) (int, error) {
	if name == "" {
		return 0, gameerr.New(gameerr.InvalidInput, "A target player is required")
	}
	i := g.playerIndex(name)
	if i < 0 {
		return 0, gameerr.New(gameerr.InvalidInput, "Unknown player %s", name)
	}
	if i == g.CurrentPlayerIndex {
		return 0, gameerr.New(gameerr.InvalidInput, "You cannot target yourself")
	}
	if g.Players[i].Left {
		return 0, gameerr.New(gameerr.InvalidInput, "%s has left the game", name)
	}
	return i, nil
}

func (g *Game) opponents() []int {
	out := make([]int, 0, len(g.Players)-1)
	for i, p := range g.Players {
		if i != g.CurrentPlayerIndex && !p.Left {
			out = append(out, i)
		}
	}
	return out
}

func checkTakeable(p *Player, index int, allowFullSet bool) error {
	if index < 0 || index >= len(p.Properties) {
		return gameerr.New(gameerr.InvalidInput, "Invalid property index for %s", p.Name)
	}
	color := p.Properties[index].Color
	if !allowFullSet && p.HasFullSet(color) {
		return gameerr.New(gameerr.InvalidInput, "%s's %s set is complete and cannot be broken", p.Name, color)
	}
	return nil
}

func firstOpenColor(p *Player, card cards.Card) cards.Color {
	for _, color := range card.EligibleColors() {
		if !p.HasFullSet(color) {
			return color
		}
	}
	return ""
}

func bestRentColor(p *Player, card cards.Card, flags rules.Flags) cards.Color {
	var best cards.Color
	bestRent := 0
	for _, color := range card.EligibleColors() {
		if rent := p.Rent(flags, color, 0); rent > bestRent {
			best, bestRent = color, rent
		}
	}
	return best
}

func describe(pending *PendingAction) string {
	switch {
	case pending.Kind == rules.TargetRent:
		return fmt.Sprintf("%s (%s, %dM)", pending.Card.Name, pending.Color, pending.Amount)
	case pending.Amount > 0:
		return fmt.Sprintf("%s (%dM)", pending.Card.Name, pending.Amount)
	case pending.Kind == rules.TargetStealSet:
		return fmt.Sprintf("%s (%s)", pending.Card.Name, pending.Color)
	}
	return pending.Card.Name
}

func displayColor(c cards.Color) string {
	if c == "" {
		return "an unspecified set"
	}
	return string(c)
}
