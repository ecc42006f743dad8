package session

import (
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/gameerr"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Manager is the registry of live sessions. The registry lock guards the
// code map and the username index; each session has its own lock for its
// membership and game. When both are needed the registry lock is taken
// first.
type Manager struct {
	sessions map[string]*Session
	members  map[string]string
	rng      cards.Randomizer
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// Option configures a Manager
type Option func(*Manager)

// WithRandomizer sets the source used for session codes
func WithRandomizer(r cards.Randomizer) Option {
	return func(m *Manager) { m.rng = r }
}

// WithLogger sets the logger for lifecycle events
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		members:  make(map[string]string),
		rng:      cards.DefaultRandomizer(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a new lobby with username as its only member and returns
// its code. The options are used when the session is started.
func (m *Manager) Create(username, preset string, opts engine.Options) (string, error) {
	if username == "" {
		return "", gameerr.New(gameerr.InvalidInput, "Username is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if code, ok := m.members[username]; ok {
		return "", gameerr.New(gameerr.DuplicateMember, "You are already in game session %s", code)
	}

	code := m.generateCode()
	now := m.now()
	m.sessions[code] = &Session{
		Code:           code,
		Players:        []string{username},
		Preset:         preset,
		Options:        opts,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.members[username] = code

	m.logger.Info("session created", zap.String("code", code), zap.String("user", username), zap.String("preset", preset))
	return code, nil
}

// Join adds username to the lobby identified by code
func (m *Manager) Join(code, username string) error {
	if username == "" {
		return gameerr.New(gameerr.InvalidInput, "Username is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[normalize(code)]
	if !ok {
		return gameerr.New(gameerr.NotFound, "Session not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.Started:
		return gameerr.New(gameerr.InvalidState, "Game already started")
	case len(s.Players) >= MaxPlayers:
		return gameerr.New(gameerr.CapacityExceeded, "Game is full (max %d players)", MaxPlayers)
	case s.isMember(username):
		return gameerr.New(gameerr.DuplicateMember, "You are already in this game")
	}
	if other, ok := m.members[username]; ok {
		return gameerr.New(gameerr.DuplicateMember, "You are already in game session %s", other)
	}

	s.Players = append(s.Players, username)
	s.LastAccessedAt = m.now()
	m.members[username] = s.Code

	m.logger.Info("player joined", zap.String("code", s.Code), zap.String("user", username),
		zap.Int("players", len(s.Players)))
	return nil
}

// Start freezes the roster and deals a new game
func (m *Manager) Start(code string) error {
	s, err := m.lookup(code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gameerr.New(gameerr.NotFound, "Session not found")
	}
	if s.Started {
		return gameerr.New(gameerr.InvalidState, "Game already started")
	}
	if len(s.Players) == 0 {
		return gameerr.New(gameerr.InvalidState, "Need at least 1 player to start")
	}

	game, err := engine.Start(slices.Clone(s.Players), s.Options)
	if err != nil {
		return err
	}
	s.Game = game
	s.Started = true
	s.LastAccessedAt = m.now()

	m.logger.Info("game started", zap.String("code", s.Code), zap.String("game_id", game.ID),
		zap.Strings("players", s.Players))
	return nil
}

// Leave removes username from the session. A session left empty is
// removed from the registry immediately. A started game keeps its roster
// and withdraws the player's seat so play moves on without them.
func (m *Manager) Leave(code, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[normalize(code)]
	if !ok {
		return gameerr.New(gameerr.NotFound, "Session not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.Players, username)
	if i < 0 {
		return gameerr.New(gameerr.NotFound, "You are not in game session %s", s.Code)
	}
	s.Players = slices.Delete(s.Players, i, i+1)
	s.LastAccessedAt = m.now()
	delete(m.members, username)

	m.logger.Info("player left", zap.String("code", s.Code), zap.String("user", username))

	if s.Game != nil && s.Game.Phase == engine.InProgress && len(s.Players) > 0 {
		if _, err := s.Game.Withdraw(username); err != nil {
			m.logger.Warn("withdraw failed", zap.String("code", s.Code), zap.String("user", username), zap.Error(err))
		}
	}

	if len(s.Players) == 0 {
		s.closed = true
		delete(m.sessions, s.Code)
		m.logger.Info("session deleted", zap.String("code", s.Code))
	}
	return nil
}

// Find returns the code of the session username belongs to
func (m *Manager) Find(username string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.members[username]
	return code, ok
}

// Get returns a snapshot of a session (case-insensitive code)
func (m *Manager) Get(code string) (Info, error) {
	s, err := m.lookup(code)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Info{}, gameerr.New(gameerr.NotFound, "Session not found")
	}
	return s.info(), nil
}

// List returns snapshots of all live sessions, oldest first
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	result := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		if !s.closed {
			result = append(result, s.info())
		}
		s.mu.Unlock()
	}

	slices.SortFunc(result, func(a, b Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return result
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Do runs fn against the session's game while holding the session lock.
// username must be a member and the game must have started. All game
// mutations go through Do so that actions on one session are linearized.
func (m *Manager) Do(code, username string, fn func(*engine.Game) error) error {
	s, err := m.lookup(code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gameerr.New(gameerr.NotFound, "Session not found")
	}
	if !s.isMember(username) {
		return gameerr.New(gameerr.NotFound, "You are not in game session %s", s.Code)
	}
	if !s.Started || s.Game == nil {
		return gameerr.New(gameerr.InvalidState, "Game has not started")
	}

	wasFinished := s.Game.IsFinished()
	err = fn(s.Game)
	s.LastAccessedAt = m.now()

	if !wasFinished && s.Game.IsFinished() {
		m.logger.Info("game won", zap.String("code", s.Code), zap.String("winner", s.Game.Winner))
	}
	return err
}

// CleanupIdle removes sessions not accessed within maxAge and returns how
// many were removed.
func (m *Manager) CleanupIdle(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0

	for code, s := range m.sessions {
		s.mu.Lock()
		if s.LastAccessedAt.Before(cutoff) {
			for _, username := range s.Players {
				delete(m.members, username)
			}
			s.closed = true
			delete(m.sessions, code)
			removed++
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		m.logger.Info("idle sessions removed", zap.Int("count", removed))
	}
	return removed
}

func (m *Manager) lookup(code string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[normalize(code)]
	if !ok {
		return nil, gameerr.New(gameerr.NotFound, "Session not found")
	}
	return s, nil
}

// generateCode must be called with m.mu held for writing
func (m *Manager) generateCode() string {
	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[m.rng.Intn(len(codeAlphabet))]
		}
		if _, taken := m.sessions[string(buf)]; !taken {
			return string(buf)
		}
	}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
