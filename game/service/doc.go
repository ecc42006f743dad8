// Package service is the business layer between transports and the game.
//
// GameService combines the session registry, rule presets and the game
// engine into the operations a request handler needs: hosting, joining,
// starting and leaving lobbies, and playing turns. Every mutating call
// returns a *Result. Recoverable failures (unknown session, wrong phase,
// full lobby, duplicate member, bad input) come back as
// Result{Success: false, Kind: ...} so callers can render them; only
// unexpected failures are returned as errors.
//
// Turn order is enforced here: draw, play, discard and end-turn are only
// accepted from the player whose turn it is. Responses to a pending action
// come from the targeted player instead.
//
// Usage:
//
//	sessions := session.NewManager()
//	presets, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, presets)
//
//	res, err := svc.CreateSession(ctx, "alice", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//	code := res.Session.Code
//
//	svc.JoinSession(ctx, code, "bob")
//	svc.StartSession(ctx, code, "alice")
//	res, _ = svc.Draw(ctx, code, "alice")
package service
