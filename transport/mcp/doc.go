// Package mcp exposes Monopoly Deal to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API, so agents and HTTP players share the same sessions. Tools that act for
// a player take a username; the client logs in as that user on first use and
// caches the bearer token.
//
// Tools:
//   - create_session, join_session, start_session, leave_session, my_session
//   - get_session, list_sessions, list_presets
//   - game_state, draw, play_card, respond, discard, end_turn
//   - compute_rent, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", logger)
//	server.ServeStdio(client.GetMCPServer())
package mcp
