// Package api provides the HTTP REST API for Monopoly Deal.
//
// Players log in with a username and receive a JWT. Every endpoint that acts
// for a player reads the username from the bearer token.
//
// Endpoints:
//
// Auth:
//   - POST /api/login - Issue a token for {"username": ...}
//
// Session Management:
//   - POST /api/sessions - Host a new lobby (optional {"preset": ...})
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/mine - The caller's session
//   - GET /api/sessions/{code} - Lobby details
//   - POST /api/sessions/{code}/join
//   - POST /api/sessions/{code}/start
//   - POST /api/sessions/{code}/leave
//
// Game Operations:
//   - GET /api/sessions/{code}/state - Game as seen by the caller
//   - POST /api/sessions/{code}/draw
//   - POST /api/sessions/{code}/play - engine.PlayRequest body
//   - POST /api/sessions/{code}/respond - {"just_say_no": bool}
//   - POST /api/sessions/{code}/discard - {"card_index": n}
//   - POST /api/sessions/{code}/end-turn
//
// Reference:
//   - GET /api/presets, GET /api/catalog
//   - POST /api/rules/rent, /api/rules/just-say-no, /api/rules/payment
//   - GET /health
//
// Game operations answer with a service.Result. A failed result carries an
// error_kind and is sent with the matching status: 404 for not_found, 409 for
// invalid_state, capacity_exceeded and duplicate_member, 400 for
// invalid_input.
//
// When the business hours gate is enabled, hosting (create and start) is
// refused with 403 on weekdays between 9 AM and 5 PM Eastern.
package api
