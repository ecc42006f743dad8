package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/service"
	"github.com/wricardo/monopoly-deal/game/session"
)

// recentEvents is how much history game_state shows
const recentEvents = 8

func formatSessionInfo(info *session.Info) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session %s (%s, preset %s)\n", info.Code, info.Status, info.Preset)
	fmt.Fprintf(&sb, "Players (%d/%d): %s\n", len(info.Players), info.MaxPlayers, strings.Join(info.Players, ", "))
	if info.CurrentPlayer != "" {
		fmt.Fprintf(&sb, "Current player: %s\n", info.CurrentPlayer)
	}
	if info.Winner != "" {
		fmt.Fprintf(&sb, "Winner: %s\n", info.Winner)
	}
	return sb.String()
}

func formatResult(result *service.Result, viewer string) string {
	var sb strings.Builder
	if result.Success {
		sb.WriteString("✓ " + result.Message + "\n")
	} else {
		fmt.Fprintf(&sb, "✗ %s (%s)\n", result.Message, result.Kind)
	}
	if result.Session != nil {
		sb.WriteString("\n" + formatSessionInfo(result.Session))
	}
	if result.State != nil {
		sb.WriteString("\n" + formatView(result.State, viewer))
	}
	return sb.String()
}

func formatView(view *engine.View, viewer string) string {
	var sb strings.Builder

	switch view.Phase {
	case engine.Finished:
		fmt.Fprintf(&sb, "🏆 GAME OVER - %s wins!\n", view.Winner)
	default:
		fmt.Fprintf(&sb, "Turn %d - %s to play\n", view.Turn, view.CurrentPlayer)
	}
	fmt.Fprintf(&sb, "Deck: %d | Discard: %d\n", view.DeckCount, view.DiscardCount)

	if p := view.Pending; p != nil {
		fmt.Fprintf(&sb, "\n⏳ %s played %s", p.Actor, p.Card)
		if p.Amount > 0 {
			fmt.Fprintf(&sb, " for %dM", p.Amount)
		}
		fmt.Fprintf(&sb, " against %s. Waiting on %s", strings.Join(p.Targets, ", "), p.Responder)
		if len(p.Responses) > 0 {
			fmt.Fprintf(&sb, " (%d Just Say No played)", len(p.Responses))
		}
		sb.WriteString(".\n")
	}

	for _, pv := range view.Players {
		marker := "  "
		if pv.IsCurrent {
			marker = "▶ "
		}
		name := pv.Name
		if pv.Left {
			name += " (left)"
		}
		fmt.Fprintf(&sb, "\n%s%s - bank %dM, %d cards in hand, %d complete sets\n",
			marker, name, pv.Bank, pv.HandCount, pv.CompleteSets)
		for _, set := range pv.Sets {
			fmt.Fprintf(&sb, "    %s %d/%d", set.Color, set.Owned, set.Size)
			if set.House {
				sb.WriteString(" +house")
			}
			if set.Hotel {
				sb.WriteString(" +hotel")
			}
			fmt.Fprintf(&sb, " rent %dM\n", set.Rent)
		}
		if pv.Name == viewer && len(pv.Hand) > 0 {
			sb.WriteString("    Hand:\n")
			for i, card := range pv.Hand {
				fmt.Fprintf(&sb, "      [%d] %s (%s, %dM)\n", i, card.Name, card.Type, card.Value)
			}
		}
	}

	if view.Phase == engine.InProgress && view.CurrentPlayer == viewer {
		fmt.Fprintf(&sb, "\nYour turn: drawn=%v, plays left %d\n", view.Drawn, view.PlaysLeft)
	}

	if n := len(view.History); n > 0 {
		sb.WriteString("\nRecent:\n")
		for _, e := range view.History[max(0, n-recentEvents):] {
			fmt.Fprintf(&sb, "  %d. %s\n", e.Seq, e.Message)
		}
	}
	return sb.String()
}

const instructions = `MONOPOLY DEAL

SETUP
2-5 players. Each player is dealt 5 cards. Play passes in join order.

YOUR TURN
1. draw: take a card. With turn limits on, draw once for 2 cards
   (5 if your hand is empty).
2. play_card: any number of cards, or up to 3 with turn limits on.
   - Money goes to your bank.
   - Properties go in front of you. Wilds need a "color".
   - Action and rent cards can be banked instead with "as_money".
3. discard: get down to 7 cards when turn limits are on.
4. end_turn.

ACTIONS
- Pass Go: draw 2.
- Rent: charge every opponent for one of your sets ("color"). Wild rent
  charges one "target".
- Double the Rent: doubles your next rent.
- Debt Collector: one "target" pays you 5M.
- It's My Birthday: everyone pays you 2M.
- Sly Deal: take one property ("target", "target_property") not in a full set.
- Forced Deal: swap "offer_property" for the target's "target_property".
- Deal Breaker: take a complete set ("target", "color").
- House / Hotel: +3M / +4M rent on a complete set.

RESPONDING
Targeted players answer with respond. just_say_no=true blocks the action;
the other side may answer with their own Just Say No. An even number of
Just Say No cards means the action goes through.

PAYING
Payment comes from the bank first, then from properties, largest value
first. No change is given.

WINNING
Depends on the preset (see list_presets): 3 properties (classic) or
3 complete sets of different colors.`
