package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/gameerr"
	"github.com/wricardo/monopoly-deal/game/rules"
)

// Respond answers the pending action on behalf of player. With justSayNo
// the player spends a Just Say No from their hand and the other side may
// counter. Without it the current chain closes: the action is applied to
// the current target iff the chain holds an even number of Just Say No
// cards, and the next target (if any) becomes the responder.
func (g *Game) Respond(player string, justSayNo bool) (string, error) {
	if err := g.requireInProgress(); err != nil {
		return "", err
	}
	pending := g.Pending
	if pending == nil {
		return "", gameerr.New(gameerr.InvalidState, "No action is waiting for a response")
	}
	idx := g.playerIndex(player)
	if idx < 0 {
		return "", gameerr.New(gameerr.NotFound, "Unknown player %s", player)
	}
	if idx != pending.Responder {
		return "", gameerr.New(gameerr.InvalidState, "It is %s's turn to respond", g.Responder())
	}

	p := g.Players[idx]
	if justSayNo {
		i := p.handIndex(cards.JustSayNo)
		if i < 0 {
			return "", gameerr.New(gameerr.InvalidInput, "%s has no Just Say No card", p.Name)
		}
		g.DiscardPile = append(g.DiscardPile, p.removeFromHand(i))
		pending.Responses = append(pending.Responses, cards.JustSayNo)
		if idx == pending.Actor {
			pending.Responder = pending.Targets[0]
		} else {
			pending.Responder = pending.Actor
		}

		msg := fmt.Sprintf("%s said Just Say No! %s may respond.", p.Name, g.Responder())
		g.record(p.Name, "respond", msg)
		if extra := g.settleAbsent(); extra != "" {
			msg += " " + extra
		}
		return msg, nil
	}

	msg := g.respond(p)
	if extra := g.settleAbsent(); extra != "" {
		msg += " " + extra
	}
	return msg, nil
}

// respond closes the current chain of the pending action for p without a
// Just Say No and moves on to the next target.
func (g *Game) respond(p *Player) string {
	pending := g.Pending
	target := pending.Targets[0]

	var msg string
	if rules.ResolveJustSayNoStack(pending.Responses) {
		msg = g.apply(pending, target)
	} else {
		msg = fmt.Sprintf("%s against %s was cancelled.", pending.Card.Name, g.Players[target].Name)
	}

	pending.Targets = pending.Targets[1:]
	pending.Responses = []string{}
	if len(pending.Targets) == 0 || g.Phase == Finished {
		g.Pending = nil
	} else {
		pending.Responder = pending.Targets[0]
		msg += fmt.Sprintf(" Waiting for %s to respond.", g.Responder())
	}

	g.record(p.Name, "resolve", msg)
	return msg
}

func (g *Game) apply(pending *PendingAction, targetIdx int) string {
	actor := g.Players[pending.Actor]
	target := g.Players[targetIdx]

	var msg string
	switch pending.Card.Name {
	case cards.SlyDeal:
		card := g.removeProperty(target, pending.TargetProperty)
		g.receiveProperty(actor, card)
		msg = fmt.Sprintf("%s stole %s from %s.", actor.Name, card.Card.Name, target.Name)

	case cards.ForcedDeal:
		taken := g.removeProperty(target, pending.TargetProperty)
		given := g.removeProperty(actor, pending.OfferProperty)
		g.receiveProperty(actor, taken)
		g.receiveProperty(target, given)
		msg = fmt.Sprintf("%s swapped %s for %s's %s.", actor.Name, given.Card.Name, target.Name, taken.Card.Name)

	case cards.DealBreaker:
		msg = g.stealSet(actor, target, pending.Color)

	default:
		msg = g.collect(target, actor, pending.Amount)
	}

	for _, p := range []*Player{actor, target} {
		if g.checkWinner(p) {
			msg += fmt.Sprintf(" %s wins!", p.Name)
			break
		}
	}
	return msg
}

// collect settles a debt from debtor to creditor with rules.ChoosePayment
func (g *Game) collect(debtor, creditor *Player, amount int) string {
	payment := rules.ChoosePayment(amount, debtor.Bank, debtor.PropertyValues())

	debtor.Bank -= payment.BankUsed
	creditor.Bank += payment.BankUsed

	names := make([]string, 0, len(payment.PropertiesTaken))
	for _, value := range payment.PropertiesTaken {
		i := slices.IndexFunc(debtor.Properties, func(pp PlacedProperty) bool { return pp.Card.Value == value })
		if i < 0 {
			continue
		}
		prop := g.removeProperty(debtor, i)
		g.receiveProperty(creditor, prop)
		names = append(names, prop.Card.Name)
	}

	if payment.TotalPaid == 0 {
		return fmt.Sprintf("%s owed %s %dM but had nothing to pay with.", debtor.Name, creditor.Name, amount)
	}
	msg := fmt.Sprintf("%s paid %s %dM", debtor.Name, creditor.Name, payment.TotalPaid)
	if len(names) > 0 {
		msg += fmt.Sprintf(" (%dM from bank, properties: %s)", payment.BankUsed, strings.Join(names, ", "))
	}
	return msg + "."
}

func (g *Game) stealSet(actor, target *Player, color cards.Color) string {
	var stolen []PlacedProperty
	for i := len(target.Properties) - 1; i >= 0; i-- {
		if target.Properties[i].Color == color {
			stolen = append(stolen, target.Properties[i])
			target.Properties = append(target.Properties[:i], target.Properties[i+1:]...)
		}
	}
	house, hotel := target.Houses[color], target.Hotels[color]
	delete(target.Houses, color)
	delete(target.Hotels, color)

	// fixed-color cards first so wilds can move aside if the set overflows
	slices.SortStableFunc(stolen, func(a, b PlacedProperty) int {
		return wildRank(a.Card) - wildRank(b.Card)
	})
	for _, prop := range stolen {
		g.receiveProperty(actor, prop)
	}

	if actor.HasFullSet(color) {
		if house && !actor.Houses[color] {
			actor.Houses[color] = true
			house = false
		}
		if hotel && actor.Houses[color] && !actor.Hotels[color] {
			actor.Hotels[color] = true
			hotel = false
		}
	}
	if house {
		g.DiscardPile = append(g.DiscardPile, mustLookup(cards.House))
	}
	if hotel {
		g.DiscardPile = append(g.DiscardPile, mustLookup(cards.Hotel))
	}

	return fmt.Sprintf("%s took %s's %s set.", actor.Name, target.Name, color)
}

// removeProperty takes a property off the table. A set that drops below
// full loses its buildings to the discard pile.
func (g *Game) removeProperty(p *Player, index int) PlacedProperty {
	prop := p.Properties[index]
	p.Properties = append(p.Properties[:index], p.Properties[index+1:]...)

	if !p.HasFullSet(prop.Color) {
		if p.Hotels[prop.Color] {
			delete(p.Hotels, prop.Color)
			g.DiscardPile = append(g.DiscardPile, mustLookup(cards.Hotel))
		}
		if p.Houses[prop.Color] {
			delete(p.Houses, prop.Color)
			g.DiscardPile = append(g.DiscardPile, mustLookup(cards.House))
		}
	}
	return prop
}

// receiveProperty places a transferred property. A wild whose color is
// already complete moves to another open eligible color, or is banked at
// its value when none is open.
func (g *Game) receiveProperty(p *Player, prop PlacedProperty) {
	if !p.HasFullSet(prop.Color) {
		p.Properties = append(p.Properties, prop)
		return
	}
	if prop.Card.Type == cards.Wild {
		if color := firstOpenColor(p, prop.Card); color != "" {
			p.Properties = append(p.Properties, PlacedProperty{Card: prop.Card, Color: color})
			return
		}
	}
	p.Bank += prop.Card.Value
}

func (g *Game) checkWinner(p *Player) bool {
	if g.Phase == Finished {
		return false
	}
	won := false
	switch g.opts.WinRule {
	case WinByCompleteSets:
		won = p.CompleteSets() >= WinTarget
	default:
		won = len(p.Properties) >= WinTarget
	}
	if won {
		g.Phase = Finished
		g.Winner = p.Name
	}
	return won
}

func wildRank(c cards.Card) int {
	if c.Type == cards.Wild {
		return 1
	}
	return 0
}

func mustLookup(name string) cards.Card {
	card, ok := cards.Lookup(name)
	if !ok {
		panic("engine: card missing from catalog: " + name)
	}
	return card
}
