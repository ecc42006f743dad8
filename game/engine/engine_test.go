package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/gameerr"
)

func mustCard(t *testing.T, name string) cards.Card {
	t.Helper()
	c, ok := cards.Lookup(name)
	if !ok {
		t.Fatalf("card %q not in catalog", name)
	}
	return c
}

func place(t *testing.T, p *Player, color cards.Color, names ...string) {
	t.Helper()
	for _, name := range names {
		p.Properties = append(p.Properties, PlacedProperty{Card: mustCard(t, name), Color: color})
	}
}

// newTestGame starts a seeded game that is won by complete sets and empties
// every hand so tests can set up exactly the cards they need.
func newTestGame(t *testing.T, players ...string) *Game {
	t.Helper()
	opts := DefaultOptions()
	opts.WinRule = WinByCompleteSets
	opts.Randomizer = rand.New(rand.NewSource(7))

	g, err := Start(players, opts)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for _, p := range g.Players {
		p.Hand = []cards.Card{}
	}
	return g
}

func give(t *testing.T, p *Player, names ...string) {
	t.Helper()
	for _, name := range names {
		p.Hand = append(p.Hand, mustCard(t, name))
	}
}

func TestStart_Validation(t *testing.T) {
	tests := []struct {
		name    string
		players []string
		kind    gameerr.Kind
	}{
		{"empty roster", nil, gameerr.InvalidInput},
		{"empty name", []string{"alice", ""}, gameerr.InvalidInput},
		{"duplicate name", []string{"alice", "alice"}, gameerr.DuplicateMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Start(tt.players, DefaultOptions())
			if !errors.Is(err, tt.kind) {
				t.Errorf("Expected %s error, got %v", tt.kind, err)
			}
		})
	}
}

func TestStart_DealsFiveCardsEach(t *testing.T) {
	g, err := Start([]string{"alice", "bob", "carol"}, DefaultOptions())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if g.Phase != InProgress {
		t.Errorf("Expected phase %s, got %s", InProgress, g.Phase)
	}
	if g.CurrentPlayerIndex != 0 || g.CurrentPlayerName() != "alice" {
		t.Errorf("Expected alice to start, got index %d", g.CurrentPlayerIndex)
	}
	if len(g.Players) != 3 {
		t.Fatalf("Expected 3 players, got %d", len(g.Players))
	}
	for _, p := range g.Players {
		if len(p.Hand) != HandSize {
			t.Errorf("Expected %s to hold %d cards, got %d", p.Name, HandSize, len(p.Hand))
		}
	}
	if want := cards.CatalogTotal() - 3*HandSize; g.Deck.Len() != want {
		t.Errorf("Expected %d cards left in deck, got %d", want, g.Deck.Len())
	}
	if g.ID == "" {
		t.Error("Expected game ID to be set")
	}
}

func TestStart_DealsInRosterOrderFromTail(t *testing.T) {
	stacked := make([]cards.Card, 0, 11)
	stacked = append(stacked, mustCard(t, "10M"))
	for i := 0; i < HandSize; i++ {
		stacked = append(stacked, mustCard(t, "2M"))
	}
	for i := 0; i < HandSize; i++ {
		stacked = append(stacked, mustCard(t, "1M"))
	}

	opts := DefaultOptions()
	opts.StackedDeck = stacked
	g, err := Start([]string{"alice", "bob"}, opts)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for _, c := range g.Players[0].Hand {
		if c.Name != "1M" {
			t.Errorf("Expected alice to be dealt 1M cards first, got %s", c.Name)
		}
	}
	for _, c := range g.Players[1].Hand {
		if c.Name != "2M" {
			t.Errorf("Expected bob to be dealt 2M cards, got %s", c.Name)
		}
	}

	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	hand := g.Players[0].Hand
	if last := hand[len(hand)-1]; last.Name != "10M" {
		t.Errorf("Expected draw to pop 10M from the tail, got %s", last.Name)
	}
}

func TestDraw_EmptyDeckIsNotAnError(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	g.Deck = cards.NewDeckFrom(nil)

	msg, err := g.Draw()
	if err != nil {
		t.Fatalf("Expected no error on empty deck, got %v", err)
	}
	if msg != "Deck is empty!" {
		t.Errorf("Expected deck empty message, got %q", msg)
	}
	if len(g.CurrentPlayer().Hand) != 0 {
		t.Errorf("Expected hand to stay empty, got %d cards", len(g.CurrentPlayer().Hand))
	}
}

func TestDraw_OneCardWithoutTurnLimits(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	before := g.Deck.Len()

	for i := 1; i <= 3; i++ {
		if _, err := g.Draw(); err != nil {
			t.Fatalf("Draw %d failed: %v", i, err)
		}
		if len(g.CurrentPlayer().Hand) != i {
			t.Errorf("Expected %d cards after %d draws, got %d", i, i, len(g.CurrentPlayer().Hand))
		}
	}
	if g.Deck.Len() != before-3 {
		t.Errorf("Expected deck to shrink by 3, got %d -> %d", before, g.Deck.Len())
	}
}

func TestPlay_InvalidIndex(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	give(t, g.CurrentPlayer(), "1M")

	for _, idx := range []int{-1, 1, 99} {
		_, err := g.Play(PlayRequest{Index: idx})
		if !errors.Is(err, gameerr.InvalidInput) {
			t.Errorf("index %d: expected InvalidInput, got %v", idx, err)
		}
	}
	if len(g.CurrentPlayer().Hand) != 1 {
		t.Error("Expected hand to be unchanged after invalid plays")
	}
}

func TestPlay_MoneyAndActionsAsMoney(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	p := g.CurrentPlayer()
	give(t, p, "5M", cards.SlyDeal, "Boardwalk")

	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Play money failed: %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, AsMoney: true}); err != nil {
		t.Fatalf("Play action as money failed: %v", err)
	}
	if p.Bank != 8 {
		t.Errorf("Expected bank 8, got %d", p.Bank)
	}

	_, err := g.Play(PlayRequest{Index: 0, AsMoney: true})
	if !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected banking a property to fail, got %v", err)
	}
}

func TestPlay_PropertyCountWinRule(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	g.opts.WinRule = WinByPropertyCount
	p := g.CurrentPlayer()
	give(t, p, "Boardwalk", "Kentucky Avenue", "Water Works")

	for i := 0; i < 2; i++ {
		if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	}
	if g.IsFinished() {
		t.Fatal("Expected game to continue after 2 properties")
	}

	msg, err := g.Play(PlayRequest{Index: 0})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if !strings.Contains(msg, "wins") {
		t.Errorf("Expected win message, got %q", msg)
	}
	if g.Phase != Finished || g.Winner != "alice" {
		t.Errorf("Expected alice to win, got phase %s winner %q", g.Phase, g.Winner)
	}

	if _, err := g.Draw(); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected InvalidState after game over, got %v", err)
	}
}

func TestPlay_CompleteSetsWinRule(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	p := g.CurrentPlayer()
	place(t, p, cards.Brown, "Mediterranean Avenue", "Baltic Avenue")
	place(t, p, cards.Utilities, "Electric Company", "Water Works")
	place(t, p, cards.DarkBlue, "Park Place")
	place(t, p, cards.Red, "Kentucky Avenue", "Indiana Avenue")
	give(t, p, "Boardwalk")

	if g.IsFinished() {
		t.Fatal("Expected no winner with 7 properties and 2 sets")
	}
	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if g.Winner != "alice" {
		t.Errorf("Expected alice to win with 3 complete sets, got %q", g.Winner)
	}
}

func TestPlay_WildPlacement(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	p := g.CurrentPlayer()
	give(t, p, "Red/Yellow Wild", "Red/Yellow Wild", "Property Wild (Any Color)")

	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.Green}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected Green to be rejected for Red/Yellow wild, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Play wild failed: %v", err)
	}
	if p.Properties[0].Color != cards.Red {
		t.Errorf("Expected wild to default to Red, got %s", p.Properties[0].Color)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.Yellow}); err != nil {
		t.Fatalf("Play wild as Yellow failed: %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.Railroads}); err != nil {
		t.Fatalf("Play any-color wild failed: %v", err)
	}
	if got := p.OwnedInColor(cards.Railroads); got != 1 {
		t.Errorf("Expected 1 Railroad, got %d", got)
	}
}

func TestPlay_PropertyIntoFullSetRejected(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	p := g.CurrentPlayer()
	place(t, p, cards.DarkBlue, "Park Place", "Boardwalk")
	give(t, p, "Dark Blue/Green Wild")

	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.DarkBlue}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected full set to reject another card, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Expected wild to fall through to Green, got %v", err)
	}
	if p.Properties[2].Color != cards.Green {
		t.Errorf("Expected Green placement, got %s", p.Properties[2].Color)
	}
}

func TestEndTurn_WrapsAround(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")

	want := []string{"bob", "carol", "alice", "bob"}
	for _, name := range want {
		msg, err := g.EndTurn()
		if err != nil {
			t.Fatalf("EndTurn failed: %v", err)
		}
		if g.CurrentPlayerName() != name {
			t.Errorf("Expected %s's turn, got %s", name, g.CurrentPlayerName())
		}
		if !strings.Contains(msg, name) {
			t.Errorf("Expected message to name %s, got %q", name, msg)
		}
	}
}

func TestCurrentPlayer_PanicsOnCorruptIndex(t *testing.T) {
	g := newTestGame(t, "alice")
	g.CurrentPlayerIndex = 3

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range current player index")
		}
	}()
	g.CurrentPlayer()
}

func TestPassGo(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	p := g.CurrentPlayer()
	give(t, p, cards.PassGo)

	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Pass Go failed: %v", err)
	}
	if len(p.Hand) != 2 {
		t.Errorf("Expected 2 cards after Pass Go, got %d", len(p.Hand))
	}
	if len(g.DiscardPile) != 1 || g.DiscardPile[0].Name != cards.PassGo {
		t.Errorf("Expected Pass Go in discard pile, got %v", g.DiscardPile)
	}
}

func TestBuildHouseAndHotel(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	p := g.CurrentPlayer()
	place(t, p, cards.Brown, "Mediterranean Avenue", "Baltic Avenue")
	place(t, p, cards.Railroads, "Reading Railroad", "Short Line", "B&O Railroad", "Pennsylvania Railroad")
	give(t, p, cards.Hotel, cards.House, cards.House)

	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.Brown}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected hotel without house to fail, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 1, Color: cards.Railroads}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected house on Railroads to fail, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 1, Color: cards.Brown}); err != nil {
		t.Fatalf("Build house failed: %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.Brown}); err != nil {
		t.Fatalf("Build hotel failed: %v", err)
	}
	if got := p.Rent(g.opts.Flags, cards.Brown, 0); got != 2+3+4 {
		t.Errorf("Expected Brown rent 9 with house and hotel, got %d", got)
	}
}

func TestRent_PaysWithBankThenLargestProperty(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	place(t, alice, cards.DarkBlue, "Boardwalk")
	give(t, alice, cards.RentGreenDarkBlue)
	bob.Bank = 1
	place(t, bob, cards.Red, "Kentucky Avenue")
	place(t, bob, cards.Green, "Pacific Avenue")

	if _, err := g.Play(PlayRequest{Index: 0, Color: cards.DarkBlue}); err != nil {
		t.Fatalf("Play rent failed: %v", err)
	}
	if g.Pending == nil || g.Pending.Amount != 3 {
		t.Fatalf("Expected pending rent of 3, got %+v", g.Pending)
	}
	if g.Responder() != "bob" {
		t.Errorf("Expected bob to respond, got %q", g.Responder())
	}

	msg, err := g.Respond("bob", false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(msg, "paid alice 5M") {
		t.Errorf("Expected payment message, got %q", msg)
	}
	if bob.Bank != 0 || alice.Bank != 1 {
		t.Errorf("Expected bank 0/1, got bob=%d alice=%d", bob.Bank, alice.Bank)
	}
	if alice.OwnedInColor(cards.Green) != 1 || bob.OwnedInColor(cards.Green) != 0 {
		t.Error("Expected Pacific Avenue to move from bob to alice")
	}
	if bob.OwnedInColor(cards.Red) != 1 {
		t.Error("Expected bob to keep Kentucky Avenue")
	}
	if g.Pending != nil {
		t.Error("Expected pending action to be cleared")
	}
}

func TestRent_RequiresOwnedColor(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	give(t, g.CurrentPlayer(), cards.RentPinkOrange)

	if _, err := g.Play(PlayRequest{Index: 0}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected rent without properties to fail, got %v", err)
	}
}

func TestRent_AnyColorNeedsTarget(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")
	alice := g.Players[0]
	place(t, alice, cards.Orange, "New York Avenue")
	give(t, alice, cards.RentAnyColor)

	if _, err := g.Play(PlayRequest{Index: 0}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected missing target to fail, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Target: "carol"}); err != nil {
		t.Fatalf("Play any-color rent failed: %v", err)
	}
	if g.Pending.Color != cards.Orange || len(g.Pending.Targets) != 1 || g.Responder() != "carol" {
		t.Errorf("Expected Orange rent against carol only, got %+v", g.View("alice").Pending)
	}
}

func TestDoubleTheRent(t *testing.T) {
	tests := []struct {
		name    string
		limit   bool
		doubles int
		want    int
	}{
		{"single double", false, 1, 6},
		{"two doubles", false, 2, 12},
		{"two doubles capped", true, 2, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, "alice", "bob")
			g.opts.Flags.LimitDoubleRentToOne = tt.limit
			alice := g.Players[0]
			place(t, alice, cards.DarkBlue, "Boardwalk")
			for i := 0; i < tt.doubles; i++ {
				give(t, alice, cards.DoubleTheRent)
			}
			give(t, alice, cards.RentGreenDarkBlue)

			for i := 0; i < tt.doubles; i++ {
				if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
					t.Fatalf("Double the Rent failed: %v", err)
				}
			}
			if _, err := g.Play(PlayRequest{Index: 0, Color: cards.DarkBlue}); err != nil {
				t.Fatalf("Rent failed: %v", err)
			}
			if g.Pending.Amount != tt.want {
				t.Errorf("Expected rent %d, got %d", tt.want, g.Pending.Amount)
			}
		})
	}
}

func TestJustSayNo_Chain(t *testing.T) {
	tests := []struct {
		name      string
		bobJSN    int
		aliceJSN  int
		wantPaid  bool
		responses []struct {
			who string
			jsn bool
		}
	}{
		{
			name: "accepted", wantPaid: true,
			responses: []struct {
				who string
				jsn bool
			}{{"bob", false}},
		},
		{
			name: "blocked", bobJSN: 1, wantPaid: false,
			responses: []struct {
				who string
				jsn bool
			}{{"bob", true}, {"alice", false}},
		},
		{
			name: "blocked then countered", bobJSN: 1, aliceJSN: 1, wantPaid: true,
			responses: []struct {
				who string
				jsn bool
			}{{"bob", true}, {"alice", true}, {"bob", false}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, "alice", "bob")
			alice, bob := g.Players[0], g.Players[1]
			give(t, alice, cards.DebtCollector)
			for i := 0; i < tt.aliceJSN; i++ {
				give(t, alice, cards.JustSayNo)
			}
			for i := 0; i < tt.bobJSN; i++ {
				give(t, bob, cards.JustSayNo)
			}
			bob.Bank = 10

			if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); err != nil {
				t.Fatalf("Debt Collector failed: %v", err)
			}
			for _, r := range tt.responses {
				if _, err := g.Respond(r.who, r.jsn); err != nil {
					t.Fatalf("Respond(%s, %v) failed: %v", r.who, r.jsn, err)
				}
			}

			if g.Pending != nil {
				t.Error("Expected chain to be resolved")
			}
			paid := bob.Bank == 5 && alice.Bank == 5
			if paid != tt.wantPaid {
				t.Errorf("Expected paid=%v, got bob=%d alice=%d", tt.wantPaid, bob.Bank, alice.Bank)
			}
			if len(alice.Hand) != 0 || len(bob.Hand) != 0 {
				t.Error("Expected every Just Say No to be spent")
			}
		})
	}
}

func TestRespond_Errors(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")
	give(t, g.Players[0], cards.DebtCollector, "1M")

	if _, err := g.Respond("bob", false); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected InvalidState with nothing pending, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Target: "alice"}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected self-target to fail, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); err != nil {
		t.Fatalf("Debt Collector failed: %v", err)
	}

	if _, err := g.Respond("carol", false); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected InvalidState for wrong responder, got %v", err)
	}
	if _, err := g.Respond("dave", false); !errors.Is(err, gameerr.NotFound) {
		t.Errorf("Expected NotFound for unknown player, got %v", err)
	}
	if _, err := g.Respond("bob", true); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected InvalidInput without a Just Say No card, got %v", err)
	}

	for name, fn := range map[string]func() (string, error){
		"draw":     g.Draw,
		"end turn": g.EndTurn,
		"play":     func() (string, error) { return g.Play(PlayRequest{Index: 0}) },
	} {
		if _, err := fn(); !errors.Is(err, gameerr.InvalidState) {
			t.Errorf("%s: expected InvalidState while pending, got %v", name, err)
		}
	}
}

func TestBirthday_CollectsFromEveryone(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")
	alice, bob, carol := g.Players[0], g.Players[1], g.Players[2]
	give(t, alice, cards.Birthday)
	bob.Bank = 3

	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Birthday failed: %v", err)
	}
	if g.Responder() != "bob" {
		t.Fatalf("Expected bob to respond first, got %q", g.Responder())
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("bob respond failed: %v", err)
	}
	if g.Responder() != "carol" {
		t.Fatalf("Expected carol to respond next, got %q", g.Responder())
	}
	msg, err := g.Respond("carol", false)
	if err != nil {
		t.Fatalf("carol respond failed: %v", err)
	}
	if !strings.Contains(msg, "nothing to pay") {
		t.Errorf("Expected carol to have nothing to pay, got %q", msg)
	}
	if alice.Bank != 2 || bob.Bank != 1 || carol.Bank != 0 {
		t.Errorf("Expected banks 2/1/0, got %d/%d/%d", alice.Bank, bob.Bank, carol.Bank)
	}
	if g.Pending != nil {
		t.Error("Expected pending action to be cleared")
	}
}

func TestSlyDeal(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	place(t, bob, cards.DarkBlue, "Park Place", "Boardwalk")
	place(t, bob, cards.Red, "Kentucky Avenue")
	give(t, alice, cards.SlyDeal)

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob", TargetProperty: 0}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected stealing from a full set to fail, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob", TargetProperty: 2}); err != nil {
		t.Fatalf("Sly Deal failed: %v", err)
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if alice.OwnedInColor(cards.Red) != 1 || bob.OwnedInColor(cards.Red) != 0 {
		t.Error("Expected Kentucky Avenue to move to alice")
	}
}

func TestSlyDeal_FullSetFlag(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	g.opts.Flags.SlyDealOnFullSets = true
	alice, bob := g.Players[0], g.Players[1]
	place(t, bob, cards.DarkBlue, "Park Place", "Boardwalk")
	bob.Houses[cards.DarkBlue] = true
	give(t, alice, cards.SlyDeal)

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob", TargetProperty: 0}); err != nil {
		t.Fatalf("Sly Deal failed: %v", err)
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if bob.Houses[cards.DarkBlue] {
		t.Error("Expected broken set to lose its house")
	}
	if g.DiscardPile[len(g.DiscardPile)-1].Name != cards.House {
		t.Error("Expected house to be discarded")
	}
}

func TestForcedDeal(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	place(t, alice, cards.Brown, "Baltic Avenue")
	place(t, bob, cards.Red, "Kentucky Avenue")
	give(t, alice, cards.ForcedDeal)

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); err != nil {
		t.Fatalf("Forced Deal failed: %v", err)
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if alice.OwnedInColor(cards.Red) != 1 || alice.OwnedInColor(cards.Brown) != 0 {
		t.Error("Expected alice to hold Kentucky Avenue only")
	}
	if bob.OwnedInColor(cards.Brown) != 1 || bob.OwnedInColor(cards.Red) != 0 {
		t.Error("Expected bob to hold Baltic Avenue only")
	}
}

func TestDealBreaker_TakesSetAndBuildings(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	place(t, bob, cards.DarkBlue, "Park Place", "Boardwalk")
	bob.Houses[cards.DarkBlue] = true
	give(t, alice, cards.DealBreaker)

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob", Color: cards.Red}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected Deal Breaker on an incomplete set to fail, got %v", err)
	}
	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob", Color: cards.DarkBlue}); err != nil {
		t.Fatalf("Deal Breaker failed: %v", err)
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !alice.HasFullSet(cards.DarkBlue) || !alice.Houses[cards.DarkBlue] {
		t.Error("Expected alice to own the Dark Blue set with its house")
	}
	if bob.OwnedInColor(cards.DarkBlue) != 0 || bob.Houses[cards.DarkBlue] {
		t.Error("Expected bob to lose the set and house")
	}
}

func TestPayment_BreakingSetDiscardsBuildings(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	place(t, bob, cards.Brown, "Mediterranean Avenue", "Baltic Avenue")
	bob.Houses[cards.Brown] = true
	give(t, alice, cards.DebtCollector)

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); err != nil {
		t.Fatalf("Debt Collector failed: %v", err)
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if len(bob.Properties) != 0 || bob.Houses[cards.Brown] {
		t.Errorf("Expected bob to lose both properties and the house, got %+v", bob)
	}
	if !alice.HasFullSet(cards.Brown) {
		t.Error("Expected alice to receive the Brown set")
	}
	if alice.Houses[cards.Brown] {
		t.Error("Expected the house not to follow a payment")
	}
	names := []string{}
	for _, c := range g.DiscardPile {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != cards.DebtCollector+","+cards.House {
		t.Errorf("Expected discard pile [Debt Collector House], got %v", names)
	}
}

func TestPayment_WildIntoFullSetIsBanked(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	place(t, alice, cards.Red, "Kentucky Avenue", "Indiana Avenue", "Illinois Avenue")
	place(t, alice, cards.Yellow, "Atlantic Avenue", "Ventnor Avenue", "Marvin Gardens")
	place(t, bob, cards.Red, "Red/Yellow Wild")
	give(t, alice, cards.Birthday)

	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Birthday failed: %v", err)
	}
	if _, err := g.Respond("bob", false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if alice.Bank != 3 {
		t.Errorf("Expected wild to be banked at 3, got bank %d", alice.Bank)
	}
	if len(alice.Properties) != 6 {
		t.Errorf("Expected alice to keep 6 properties, got %d", len(alice.Properties))
	}
}

func TestTurnLimits_Enforced(t *testing.T) {
	opts := DefaultOptions()
	opts.EnforceTurnLimits = true
	opts.Randomizer = rand.New(rand.NewSource(3))
	g, err := Start([]string{"alice", "bob"}, opts)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	p := g.CurrentPlayer()

	if _, err := g.Play(PlayRequest{Index: 0}); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected play before draw to fail, got %v", err)
	}
	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(p.Hand) != HandSize+2 {
		t.Errorf("Expected %d cards after draw, got %d", HandSize+2, len(p.Hand))
	}
	if _, err := g.Draw(); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected second draw to fail, got %v", err)
	}

	p.Hand = nil
	for i := 0; i < 11; i++ {
		give(t, p, "1M")
	}
	for i := 0; i < 3; i++ {
		if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
			t.Fatalf("Play %d failed: %v", i+1, err)
		}
	}
	if _, err := g.Play(PlayRequest{Index: 0}); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected fourth play to fail, got %v", err)
	}

	if _, err := g.EndTurn(); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected end turn with 8 cards to fail, got %v", err)
	}
	if _, err := g.Discard(0); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if _, err := g.Discard(0); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected discard at the hand limit to fail, got %v", err)
	}
	if _, err := g.EndTurn(); err != nil {
		t.Fatalf("EndTurn failed: %v", err)
	}

	bob := g.CurrentPlayer()
	bob.Hand = nil
	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(bob.Hand) != 5 {
		t.Errorf("Expected empty hand to draw 5, got %d", len(bob.Hand))
	}
}

func TestView_HidesOtherHands(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	give(t, g.Players[0], "1M", "2M")
	give(t, g.Players[1], "3M")
	place(t, g.Players[1], cards.DarkBlue, "Park Place", "Boardwalk")

	v := g.View("alice")
	if len(v.Players[0].Hand) != 2 {
		t.Errorf("Expected alice to see 2 own cards, got %d", len(v.Players[0].Hand))
	}
	if v.Players[1].Hand != nil || v.Players[1].HandCount != 1 {
		t.Errorf("Expected bob's hand hidden with count 1, got %+v", v.Players[1])
	}
	if len(v.Players[1].Sets) != 1 || !v.Players[1].Sets[0].Complete || v.Players[1].Sets[0].Rent != 8 {
		t.Errorf("Expected a complete Dark Blue set with rent 8, got %+v", v.Players[1].Sets)
	}
	if v.CurrentPlayer != "alice" || v.Phase != InProgress {
		t.Errorf("Unexpected view header: %+v", v)
	}

	v.Players[0].Hand[0].Name = "mutated"
	if g.Players[0].Hand[0].Name == "mutated" {
		t.Error("Expected view to be a copy")
	}
}

func TestDraw_EmptyDeckUsesTurnDraw(t *testing.T) {
	opts := DefaultOptions()
	opts.EnforceTurnLimits = true
	opts.StackedDeck = []cards.Card{}
	g, err := Start([]string{"alice"}, opts)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	msg, err := g.Draw()
	if err != nil {
		t.Fatalf("Expected no error on empty deck, got %v", err)
	}
	if !strings.HasPrefix(msg, "Deck is empty!") || !strings.Contains(msg, "draw for this turn is used") {
		t.Errorf("Expected message to say the draw was used, got %q", msg)
	}
	if _, err := g.Draw(); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected a second draw to fail, got %v", err)
	}
}

func TestWithdraw_CurrentPlayerPassesTurn(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")

	msg, err := g.Withdraw("alice")
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if g.CurrentPlayerName() != "bob" {
		t.Fatalf("Expected bob to take the turn, got %s", g.CurrentPlayerName())
	}
	if !strings.Contains(msg, "It is now bob's turn") {
		t.Errorf("Expected turn hand-off in message, got %q", msg)
	}
	if g.Active() != 2 {
		t.Errorf("Expected 2 active seats, got %d", g.Active())
	}

	for _, want := range []string{"carol", "bob", "carol"} {
		if _, err := g.EndTurn(); err != nil {
			t.Fatalf("EndTurn failed: %v", err)
		}
		if g.CurrentPlayerName() != want {
			t.Errorf("Expected %s to play next, got %s", want, g.CurrentPlayerName())
		}
	}
	if _, err := g.Withdraw("alice"); !errors.Is(err, gameerr.InvalidState) {
		t.Errorf("Expected a second withdraw to fail, got %v", err)
	}
	if !g.View("bob").Players[0].Left {
		t.Error("Expected view to mark alice as left")
	}
}

func TestWithdraw_PendingResponderIsDeclined(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	alice, bob := g.Players[0], g.Players[1]
	give(t, alice, cards.DebtCollector)
	bob.Bank = 5

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); err != nil {
		t.Fatalf("Debt Collector failed: %v", err)
	}
	if _, err := g.Withdraw("bob"); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if g.Pending != nil {
		t.Fatal("Expected pending action to be settled")
	}
	if alice.Bank != 5 || bob.Bank != 0 {
		t.Errorf("Expected bob to pay 5M, got alice=%d bob=%d", alice.Bank, bob.Bank)
	}
	if g.CurrentPlayerName() != "alice" {
		t.Errorf("Expected alice to keep the turn, got %s", g.CurrentPlayerName())
	}
	give(t, alice, cards.DebtCollector)
	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); !errors.Is(err, gameerr.InvalidInput) {
		t.Errorf("Expected an absent player to be untargetable, got %v", err)
	}
}

func TestWithdraw_ActorFacingJustSayNo(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")
	alice, bob := g.Players[0], g.Players[1]
	give(t, alice, cards.DebtCollector, cards.JustSayNo)
	give(t, bob, cards.JustSayNo)
	bob.Bank = 5

	if _, err := g.Play(PlayRequest{Index: 0, Target: "bob"}); err != nil {
		t.Fatalf("Debt Collector failed: %v", err)
	}
	if _, err := g.Respond("bob", true); err != nil {
		t.Fatalf("bob Just Say No failed: %v", err)
	}
	if g.Responder() != "alice" {
		t.Fatalf("Expected alice to answer, got %q", g.Responder())
	}

	msg, err := g.Withdraw("alice")
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if !strings.Contains(msg, "cancelled") {
		t.Errorf("Expected the debt to be cancelled, got %q", msg)
	}
	if bob.Bank != 5 {
		t.Errorf("Expected bob to keep 5M, got %d", bob.Bank)
	}
	if g.Pending != nil || g.CurrentPlayerName() != "bob" {
		t.Errorf("Expected bob to take the turn with nothing pending, got %s", g.CurrentPlayerName())
	}
}

func TestBirthday_SkipsAbsentPlayers(t *testing.T) {
	g := newTestGame(t, "alice", "bob", "carol")
	give(t, g.Players[0], cards.Birthday)
	g.Players[1].Left = true

	if _, err := g.Play(PlayRequest{Index: 0}); err != nil {
		t.Fatalf("Birthday failed: %v", err)
	}
	if len(g.Pending.Targets) != 1 || g.Responder() != "carol" {
		t.Errorf("Expected carol as the only target, got %+v", g.View("alice").Pending)
	}
}
