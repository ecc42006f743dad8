package service

import (
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/gameerr"
	"github.com/wricardo/monopoly-deal/game/session"
)

// Result is the structured outcome of a lobby or game action. Recoverable
// failures are reported with Success false and the error Kind rather than
// as an error.
type Result struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Kind    gameerr.Kind  `json:"error_kind,omitempty"`
	Session *session.Info `json:"session,omitempty"`
	State   *engine.View  `json:"state,omitempty"`
}

// Failed builds an unsuccessful result from a domain error
func Failed(err *gameerr.Error) *Result {
	return &Result{Success: false, Message: err.Message, Kind: err.Kind}
}
