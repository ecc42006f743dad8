package engine

import (
	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/rules"
)

// SetView summarizes one color a player holds properties in
type SetView struct {
	Color    cards.Color `json:"color"`
	Owned    int         `json:"owned"`
	Size     int         `json:"size"`
	Complete bool        `json:"complete"`
	House    bool        `json:"house"`
	Hotel    bool        `json:"hotel"`
	Rent     int         `json:"rent"`
}

// PlayerView is a player as seen by one viewer. Hands of other players are
// reduced to a count.
type PlayerView struct {
	Name         string           `json:"name"`
	Hand         []cards.Card     `json:"hand,omitempty"`
	HandCount    int              `json:"hand_count"`
	Properties   []PlacedProperty `json:"properties"`
	Sets         []SetView        `json:"sets"`
	Bank         int              `json:"bank"`
	CompleteSets int              `json:"complete_sets"`
	IsCurrent    bool             `json:"is_current"`
	Left         bool             `json:"left,omitempty"`
}

// PendingView describes the action waiting on a response
type PendingView struct {
	Actor     string           `json:"actor"`
	Card      string           `json:"card"`
	Kind      rules.TargetKind `json:"kind"`
	Color     cards.Color      `json:"color,omitempty"`
	Amount    int              `json:"amount,omitempty"`
	Targets   []string         `json:"targets"`
	Responder string           `json:"responder"`
	Responses []string         `json:"responses"`
}

// View is a snapshot of a game suitable for rendering
type View struct {
	ID            string       `json:"id"`
	Phase         Phase        `json:"phase"`
	Turn          int          `json:"turn"`
	CurrentPlayer string       `json:"current_player"`
	Winner        string       `json:"winner,omitempty"`
	DeckCount     int          `json:"deck_count"`
	DiscardCount  int          `json:"discard_count"`
	Players       []PlayerView `json:"players"`
	Pending       *PendingView `json:"pending,omitempty"`
	History       []Event      `json:"history"`

	// Set during a turn when turn limits are enforced.
	Drawn     bool `json:"drawn"`
	PlaysLeft int  `json:"plays_left"`
}

// View builds a snapshot for viewer. Only the viewer's own hand is included.
// The returned value shares no memory with the game.
func (g *Game) View(viewer string) View {
	v := View{
		ID:            g.ID,
		Phase:         g.Phase,
		Turn:          g.turn,
		CurrentPlayer: g.CurrentPlayerName(),
		Winner:        g.Winner,
		DeckCount:     g.Deck.Len(),
		DiscardCount:  len(g.DiscardPile),
		Players:       make([]PlayerView, 0, len(g.Players)),
		History:       append([]Event(nil), g.History...),
		Drawn:         g.drawnThisTurn,
		PlaysLeft:     max(g.opts.Limits.MaxPlays-g.playsThisTurn, 0),
	}

	for i, p := range g.Players {
		pv := PlayerView{
			Name:         p.Name,
			HandCount:    len(p.Hand),
			Properties:   append([]PlacedProperty{}, p.Properties...),
			Sets:         []SetView{},
			Bank:         p.Bank,
			CompleteSets: p.CompleteSets(),
			IsCurrent:    i == g.CurrentPlayerIndex,
			Left:         p.Left,
		}
		if p.Name == viewer {
			pv.Hand = append([]cards.Card{}, p.Hand...)
		}
		for _, color := range cards.AllColors {
			owned := p.OwnedInColor(color)
			if owned == 0 {
				continue
			}
			pv.Sets = append(pv.Sets, SetView{
				Color:    color,
				Owned:    owned,
				Size:     rules.SetSize(color),
				Complete: p.HasFullSet(color),
				House:    p.Houses[color],
				Hotel:    p.Hotels[color],
				Rent:     p.Rent(g.opts.Flags, color, 0),
			})
		}
		v.Players = append(v.Players, pv)
	}

	if pending := g.Pending; pending != nil {
		pv := &PendingView{
			Actor:     g.Players[pending.Actor].Name,
			Card:      pending.Card.Name,
			Kind:      pending.Kind,
			Color:     pending.Color,
			Amount:    pending.Amount,
			Targets:   make([]string, len(pending.Targets)),
			Responder: g.Responder(),
			Responses: append([]string{}, pending.Responses...),
		}
		for i, t := range pending.Targets {
			pv.Targets[i] = g.Players[t].Name
		}
		v.Pending = pv
	}
	return v
}
