// Package session tracks live Monopoly Deal lobbies and their games.
//
// A Manager is the registry of sessions keyed by a 6-character code of
// uppercase letters and digits. Each session moves through
//
//	lobby -> active -> finished
//
// Players create, join and leave lobbies; Start freezes the roster into a
// new engine.Game. A username belongs to at most one live session, which
// the manager enforces with a username index rather than by scanning.
//
// Concurrency:
//
// The registry lock guards the code map and the username index. Every
// session carries its own mutex guarding its membership and game, so
// actions on different sessions do not block each other. Game actions run
// through Manager.Do, which holds the session lock for the duration of
// the in-memory mutation only.
//
// Usage:
//
//	manager := session.NewManager(session.WithLogger(logger))
//
//	code, err := manager.Create("alice", "classic", engine.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = manager.Join(code, "bob")
//	_ = manager.Start(code)
//
//	err = manager.Do(code, "alice", func(g *engine.Game) error {
//		_, err := g.Draw()
//		return err
//	})
//
// Sessions are removed as soon as their last member leaves. CleanupIdle
// additionally drops sessions that have not been touched for a while.
package session
