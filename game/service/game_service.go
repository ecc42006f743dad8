package service

import (
	"context"

	"github.com/wricardo/monopoly-deal/game/config"
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/session"
)

// GameService defines all lobby and game operations available to transports
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, username, preset string) (*Result, error)
	JoinSession(ctx context.Context, code, username string) (*Result, error)
	StartSession(ctx context.Context, code, username string) (*Result, error)
	LeaveSession(ctx context.Context, code, username string) (*Result, error)
	GetSession(ctx context.Context, code string) (*session.Info, error)
	FindSession(ctx context.Context, username string) (*session.Info, error)
	ListSessions(ctx context.Context) ([]session.Info, error)

	// Game Operations
	Draw(ctx context.Context, code, username string) (*Result, error)
	Play(ctx context.Context, code, username string, req engine.PlayRequest) (*Result, error)
	Respond(ctx context.Context, code, username string, justSayNo bool) (*Result, error)
	Discard(ctx context.Context, code, username string, index int) (*Result, error)
	EndTurn(ctx context.Context, code, username string) (*Result, error)

	// Game State
	GetGameState(ctx context.Context, code, username string) (*engine.View, error)

	// Configuration
	ListPresets(ctx context.Context) ([]config.PresetInfo, error)
}

// SessionManager defines session registry operations
type SessionManager interface {
	Create(username, preset string, opts engine.Options) (string, error)
	Join(code, username string) error
	Start(code string) error
	Leave(code, username string) error
	Find(username string) (string, bool)
	Get(code string) (session.Info, error)
	List() []session.Info
	Do(code, username string, fn func(*engine.Game) error) error
}

// ConfigManager handles rule preset loading
type ConfigManager interface {
	LoadPreset(id string) (*config.Preset, error)
	ListPresets() ([]config.PresetInfo, error)
	GetDefault() *config.Preset
}
