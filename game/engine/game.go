package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/gameerr"
	"github.com/wricardo/monopoly-deal/game/rules"
)

// Game is the mutable state of one match
type Game struct {
	ID                 string
	Players            []*Player
	Deck               *cards.Deck
	DiscardPile        []cards.Card
	CurrentPlayerIndex int
	Phase              Phase
	Winner             string
	Pending            *PendingAction
	History            []Event

	turn          int
	drawnThisTurn bool
	playsThisTurn int
	doubleRent    int
	opts          Options
}

// Start creates a game for the roster, shuffles the deck and deals each
// player HandSize cards in roster order.
func Start(players []string, opts Options) (*Game, error) {
	if len(players) == 0 {
		return nil, gameerr.New(gameerr.InvalidInput, "Need at least 1 player to start")
	}
	seen := make(map[string]bool, len(players))
	for _, name := range players {
		if name == "" {
			return nil, gameerr.New(gameerr.InvalidInput, "Player name cannot be empty")
		}
		if seen[name] {
			return nil, gameerr.New(gameerr.DuplicateMember, "Player %s appears twice", name)
		}
		seen[name] = true
	}

	if opts.WinRule == "" {
		opts.WinRule = WinByPropertyCount
	}
	if opts.Limits == (rules.TurnLimits{}) {
		opts.Limits = rules.DefaultTurnLimits()
	}

	var deck *cards.Deck
	if opts.StackedDeck != nil {
		deck = cards.NewDeckFrom(opts.StackedDeck)
	} else {
		deck = cards.NewDeck(opts.Randomizer)
	}

	g := &Game{
		ID:          uuid.NewString(),
		Players:     make([]*Player, 0, len(players)),
		Deck:        deck,
		DiscardPile: []cards.Card{},
		Phase:       NotStarted,
		History:     []Event{},
		turn:        1,
		opts:        opts,
	}

	for _, name := range players {
		p := newPlayer(name)
		for i := 0; i < HandSize; i++ {
			card, ok := g.Deck.Draw()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, card)
		}
		g.Players = append(g.Players, p)
	}

	g.Phase = InProgress
	g.CurrentPlayerIndex = 0
	g.record(g.Players[0].Name, "start", fmt.Sprintf("Game started with %d players", len(players)))
	return g, nil
}

// Options returns the options the game was started with
func (g *Game) Options() Options {
	return g.opts
}

// CurrentPlayer returns the player whose turn it is. An out-of-range index
// means the game state is corrupt and panics.
func (g *Game) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		panic(fmt.Sprintf("engine: current player index %d out of range for %d players",
			g.CurrentPlayerIndex, len(g.Players)))
	}
	return g.Players[g.CurrentPlayerIndex]
}

// CurrentPlayerName returns the name of the player whose turn it is
func (g *Game) CurrentPlayerName() string {
	return g.CurrentPlayer().Name
}

// Player looks up a player by name
func (g *Game) Player(name string) (*Player, bool) {
	i := g.playerIndex(name)
	if i < 0 {
		return nil, false
	}
	return g.Players[i], true
}

// Responder returns the name of the player who must answer the pending
// action, or "" when nothing is pending.
func (g *Game) Responder() string {
	if g.Pending == nil {
		return ""
	}
	return g.Players[g.Pending.Responder].Name
}

// IsFinished reports whether someone has won
func (g *Game) IsFinished() bool {
	return g.Phase == Finished
}

// Draw moves cards from the deck to the current player's hand. Without
// turn-limit enforcement it draws exactly one card per call; with it, one
// draw of DrawCount cards is allowed per turn. An empty deck is reported
// in the message and is not an error.
func (g *Game) Draw() (string, error) {
	if err := g.requireTurnAction(); err != nil {
		return "", err
	}
	p := g.CurrentPlayer()

	n := 1
	if g.opts.EnforceTurnLimits {
		if g.drawnThisTurn {
			return "", gameerr.New(gameerr.InvalidState, "%s already drew this turn", p.Name)
		}
		n = g.opts.Limits.DrawCount(len(p.Hand))
	}

	drawn := g.drawInto(p, n)
	// An empty deck still uses up the turn's draw.
	g.drawnThisTurn = true
	if drawn == 0 {
		if g.opts.EnforceTurnLimits {
			msg := fmt.Sprintf("Deck is empty! %s's draw for this turn is used.", p.Name)
			g.record(p.Name, "draw", msg)
			return msg, nil
		}
		g.record(p.Name, "draw", "Deck is empty!")
		return "Deck is empty!", nil
	}

	msg := fmt.Sprintf("%s drew a card.", p.Name)
	if drawn > 1 {
		msg = fmt.Sprintf("%s drew %d cards.", p.Name, drawn)
	}
	g.record(p.Name, "draw", msg)
	return msg, nil
}

// Discard moves a card from the current player's hand to the discard pile.
// It is only allowed while the hand exceeds the hand limit.
func (g *Game) Discard(index int) (string, error) {
	if err := g.requireTurnAction(); err != nil {
		return "", err
	}
	p := g.CurrentPlayer()
	if !g.opts.Limits.MustDiscard(len(p.Hand)) {
		return "", gameerr.New(gameerr.InvalidState, "%s has no more than %d cards and need not discard",
			p.Name, g.opts.Limits.HandLimit)
	}
	if index < 0 || index >= len(p.Hand) {
		return "", gameerr.New(gameerr.InvalidInput, "Invalid card index.")
	}

	card := p.removeFromHand(index)
	g.DiscardPile = append(g.DiscardPile, card)
	msg := fmt.Sprintf("%s discarded %s.", p.Name, card.Name)
	g.record(p.Name, "discard", msg)
	return msg, nil
}

// EndTurn passes play to the next player in roster order
func (g *Game) EndTurn() (string, error) {
	if err := g.requireTurnAction(); err != nil {
		return "", err
	}
	p := g.CurrentPlayer()
	if g.opts.EnforceTurnLimits && g.opts.Limits.MustDiscard(len(p.Hand)) {
		return "", gameerr.New(gameerr.InvalidState, "%s must discard down to %d cards before ending the turn",
			p.Name, g.opts.Limits.HandLimit)
	}

	g.advance()
	msg := fmt.Sprintf("It is now %s's turn.", g.CurrentPlayerName())
	g.record(p.Name, "end_turn", msg)
	return msg, nil
}

// Withdraw marks name as gone from a game in progress. Their seat keeps its
// cards and bank but is skipped from then on: an action waiting on them is
// declined for them, and their turn passes to the next seat still playing.
func (g *Game) Withdraw(name string) (string, error) {
	if err := g.requireInProgress(); err != nil {
		return "", err
	}
	i := g.playerIndex(name)
	if i < 0 {
		return "", gameerr.New(gameerr.NotFound, "Unknown player %s", name)
	}
	p := g.Players[i]
	if p.Left {
		return "", gameerr.New(gameerr.InvalidState, "%s already left the game", name)
	}
	p.Left = true

	msg := fmt.Sprintf("%s left the game.", name)
	g.record(name, "leave", msg)
	if extra := g.settleAbsent(); extra != "" {
		msg += " " + extra
	}
	return msg, nil
}

// Active counts the seats still playing
func (g *Game) Active() int {
	n := 0
	for _, p := range g.Players {
		if !p.Left {
			n++
		}
	}
	return n
}

// settleAbsent moves the game past seats that have left: it declines every
// pending response owed by an absent seat and hands an absent player's turn
// on. It does nothing once no seat is active.
func (g *Game) settleAbsent() string {
	if g.Active() == 0 {
		return ""
	}
	var msgs []string
	for g.Phase == InProgress {
		if pending := g.Pending; pending != nil {
			if !g.Players[pending.Responder].Left {
				break
			}
			msgs = append(msgs, g.respond(g.Players[pending.Responder]))
			continue
		}
		if !g.CurrentPlayer().Left {
			break
		}
		from := g.CurrentPlayerName()
		g.advance()
		msg := fmt.Sprintf("It is now %s's turn.", g.CurrentPlayerName())
		g.record(from, "end_turn", msg)
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, " ")
}

// advance passes the turn to the next seat still playing
func (g *Game) advance() {
	for range g.Players {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
		if !g.CurrentPlayer().Left {
			break
		}
	}
	g.turn++
	g.drawnThisTurn = false
	g.playsThisTurn = 0
	g.doubleRent = 0
}

func (g *Game) requireInProgress() error {
	switch g.Phase {
	case InProgress:
		return nil
	case Finished:
		return gameerr.New(gameerr.InvalidState, "Game is over, %s won", g.Winner)
	default:
		return gameerr.New(gameerr.InvalidState, "Game has not started")
	}
}

func (g *Game) requireTurnAction() error {
	if err := g.requireInProgress(); err != nil {
		return err
	}
	if g.Pending != nil {
		return gameerr.New(gameerr.InvalidState, "Waiting for %s to respond to %s",
			g.Responder(), g.Pending.Card.Name)
	}
	return nil
}

func (g *Game) drawInto(p *Player, n int) int {
	drawn := 0
	for ; drawn < n; drawn++ {
		card, ok := g.Deck.Draw()
		if !ok {
			break
		}
		p.Hand = append(p.Hand, card)
	}
	return drawn
}

func (g *Game) playerIndex(name string) int {
	for i, p := range g.Players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (g *Game) record(player, action, message string) {
	g.History = append(g.History, Event{
		Seq:     len(g.History) + 1,
		Turn:    g.turn,
		Player:  player,
		Action:  action,
		Message: message,
	})
}
