// Package engine implements the Monopoly Deal game state machine.
//
// A Game owns one match: the frozen player roster, hands, the draw pile,
// tabled properties, banks, buildings and whose turn it is. It moves
// through three phases:
//
//	not_started -> in_progress -> finished
//
// Start deals the opening hands. Draw, Play, Respond, Discard and EndTurn
// are the only transitions; numeric and legality questions are delegated
// to the rules package.
//
// Targeted action cards (Debt Collector, Sly Deal, rent and so on) do not
// resolve immediately. They become a PendingAction that each target answers
// through Respond, optionally with a Just Say No that the actor may counter.
// The chain is settled with rules.ResolveJustSayNoStack. While an action is
// pending no other transition is accepted.
//
// Usage:
//
//	game, err := engine.Start([]string{"alice", "bob"}, engine.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	msg, err := game.Draw()
//	msg, err = game.Play(engine.PlayRequest{Index: 0})
//	msg, err = game.EndTurn()
//
// A Game is not safe for concurrent use. The session package serializes
// access with a per-session lock.
package engine
