package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/wricardo/monopoly-deal/game/config"
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/gameerr"
	"github.com/wricardo/monopoly-deal/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession opens a lobby hosted by username using the named preset
// (the default preset when empty).
func (s *gameServiceImpl) CreateSession(ctx context.Context, username, preset string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.configs.LoadPreset(preset)
	if err != nil {
		if errors.Is(err, config.ErrPresetNotFound) {
			return Failed(gameerr.New(gameerr.InvalidInput, "Preset '%s' not found. Available presets: %s",
				preset, strings.Join(s.presetIDs(), ", "))), nil
		}
		return nil, fmt.Errorf("failed to load preset %s: %w", preset, err)
	}
	if preset == "" {
		preset = config.DefaultPresetName
	}

	code, err := s.sessions.Create(username, strings.ToLower(preset), p.Options())
	if err != nil {
		return fromError(err)
	}
	return s.sessionResult(code, fmt.Sprintf("Created game session %s", code))
}

// JoinSession adds username to a lobby
func (s *gameServiceImpl) JoinSession(ctx context.Context, code, username string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.sessions.Join(code, username); err != nil {
		return fromError(err)
	}
	return s.sessionResult(code, "Successfully joined game")
}

// StartSession deals the game. Only a member may start it.
func (s *gameServiceImpl) StartSession(ctx context.Context, code, username string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := s.sessions.Get(code)
	if err != nil {
		return fromError(err)
	}
	if !slices.Contains(info.Players, username) {
		return Failed(gameerr.New(gameerr.NotFound, "You are not in game session %s", info.Code)), nil
	}

	if err := s.sessions.Start(code); err != nil {
		return fromError(err)
	}
	return s.sessionResult(code, "Game started successfully")
}

// LeaveSession removes username from the session
func (s *gameServiceImpl) LeaveSession(ctx context.Context, code, username string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.sessions.Leave(code, username); err != nil {
		return fromError(err)
	}
	return &Result{Success: true, Message: "Left the game session"}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, code string) (*session.Info, error) {
	info, err := s.sessions.Get(code)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FindSession returns the session username belongs to
func (s *gameServiceImpl) FindSession(ctx context.Context, username string) (*session.Info, error) {
	code, ok := s.sessions.Find(username)
	if !ok {
		return nil, gameerr.New(gameerr.NotFound, "You are not in any game session")
	}
	return s.GetSession(ctx, code)
}

// ListSessions returns all live sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]session.Info, error) {
	return s.sessions.List(), nil
}

// Draw draws for the current player
func (s *gameServiceImpl) Draw(ctx context.Context, code, username string) (*Result, error) {
	return s.turnAction(ctx, code, username, func(g *engine.Game) (string, error) {
		return g.Draw()
	})
}

// Play plays a card from the current player's hand
func (s *gameServiceImpl) Play(ctx context.Context, code, username string, req engine.PlayRequest) (*Result, error) {
	return s.turnAction(ctx, code, username, func(g *engine.Game) (string, error) {
		return g.Play(req)
	})
}

// Respond answers a pending action. It is not bound to the turn order: the
// engine checks that username is the expected responder.
func (s *gameServiceImpl) Respond(ctx context.Context, code, username string, justSayNo bool) (*Result, error) {
	return s.act(ctx, code, username, func(g *engine.Game) (string, error) {
		return g.Respond(username, justSayNo)
	})
}

// Discard discards a card from the current player's hand
func (s *gameServiceImpl) Discard(ctx context.Context, code, username string, index int) (*Result, error) {
	return s.turnAction(ctx, code, username, func(g *engine.Game) (string, error) {
		return g.Discard(index)
	})
}

// EndTurn passes the turn to the next player
func (s *gameServiceImpl) EndTurn(ctx context.Context, code, username string) (*Result, error) {
	return s.turnAction(ctx, code, username, func(g *engine.Game) (string, error) {
		return g.EndTurn()
	})
}

// GetGameState returns the game as seen by username
func (s *gameServiceImpl) GetGameState(ctx context.Context, code, username string) (*engine.View, error) {
	var view engine.View
	err := s.sessions.Do(code, username, func(g *engine.Game) error {
		view = g.View(username)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListPresets returns available rule presets
func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]config.PresetInfo, error) {
	return s.configs.ListPresets()
}

// turnAction runs fn only when username holds the turn
func (s *gameServiceImpl) turnAction(ctx context.Context, code, username string, fn func(*engine.Game) (string, error)) (*Result, error) {
	return s.act(ctx, code, username, func(g *engine.Game) (string, error) {
		if g.Phase == engine.InProgress && g.Pending == nil && g.CurrentPlayerName() != username {
			return "", gameerr.New(gameerr.InvalidState, "It is %s's turn", g.CurrentPlayerName())
		}
		return fn(g)
	})
}

// act runs fn under the session lock and captures the resulting view
func (s *gameServiceImpl) act(ctx context.Context, code, username string, fn func(*engine.Game) (string, error)) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		msg  string
		view engine.View
	)
	err := s.sessions.Do(code, username, func(g *engine.Game) error {
		var err error
		msg, err = fn(g)
		view = g.View(username)
		return err
	})
	if err != nil {
		return fromError(err)
	}
	return &Result{Success: true, Message: msg, State: &view}, nil
}

func (s *gameServiceImpl) sessionResult(code, msg string) (*Result, error) {
	info, err := s.sessions.Get(code)
	if err != nil {
		return fromError(err)
	}
	return &Result{Success: true, Message: msg, Session: &info}, nil
}

func (s *gameServiceImpl) presetIDs() []string {
	infos, err := s.configs.ListPresets()
	if err != nil {
		return nil
	}
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	return ids
}

// fromError turns domain errors into failed results and passes anything
// else through as an error.
func fromError(err error) (*Result, error) {
	var gerr *gameerr.Error
	if errors.As(err, &gerr) {
		return Failed(gerr), nil
	}
	return nil, err
}
