package session

import (
	"slices"
	"sync"
	"time"

	"github.com/wricardo/monopoly-deal/game/engine"
)

// MaxPlayers is the capacity of every session
const MaxPlayers = 5

// Status is the lifecycle stage of a session
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Session is a lobby plus, once started, its running game. All fields are
// guarded by mu; callers outside the package only ever see an Info copy.
type Session struct {
	Code           string
	Players        []string
	Started        bool
	Preset         string
	Options        engine.Options
	Game           *engine.Game
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu     sync.Mutex
	closed bool
}

// Info is a point-in-time copy of a session
type Info struct {
	Code           string    `json:"code"`
	Players        []string  `json:"players"`
	MaxPlayers     int       `json:"max_players"`
	Started        bool      `json:"started"`
	Status         Status    `json:"status"`
	Preset         string    `json:"preset"`
	CurrentPlayer  string    `json:"current_player,omitempty"`
	Winner         string    `json:"winner,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

func (s *Session) status() Status {
	switch {
	case s.Game != nil && s.Game.IsFinished():
		return StatusFinished
	case s.Started:
		return StatusActive
	default:
		return StatusLobby
	}
}

// info must be called with s.mu held
func (s *Session) info() Info {
	info := Info{
		Code:           s.Code,
		Players:        slices.Clone(s.Players),
		MaxPlayers:     MaxPlayers,
		Started:        s.Started,
		Status:         s.status(),
		Preset:         s.Preset,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
	}
	if s.Game != nil {
		info.CurrentPlayer = s.Game.CurrentPlayerName()
		info.Winner = s.Game.Winner
	}
	return info
}

func (s *Session) isMember(username string) bool {
	return slices.Contains(s.Players, username)
}
