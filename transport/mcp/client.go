package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/monopoly-deal/game/cards"
	"github.com/wricardo/monopoly-deal/game/config"
	"github.com/wricardo/monopoly-deal/game/engine"
	"github.com/wricardo/monopoly-deal/game/service"
	"github.com/wricardo/monopoly-deal/game/session"
)

// Client is a thin MCP client that proxies to the REST API.
// It logs in once per username and reuses the bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	logger     *zap.Logger

	mu     sync.Mutex
	tokens map[string]string
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		tokens: make(map[string]string),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Monopoly Deal",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Monopoly Deal - MCP Interface

This is a thin client that proxies all requests to the REST API server.
Every tool that acts for a player takes a "username"; the client logs in
as that user on first use.

GAME OBJECTIVE:
Collect property sets. Depending on the preset, the first player to own
3 properties or 3 complete sets wins.

FLOW:
1. create_session (host) -> share the 6 character code
2. join_session (2-5 players total)
3. start_session deals 5 cards to everyone
4. On your turn: draw, play_card (up to 3 with turn limits on), discard if needed, end_turn
5. When an action targets you, answer with respond (just_say_no=true to block)

AVAILABLE TOOLS:
- create_session, join_session, start_session, leave_session, my_session
- get_session, list_sessions, list_presets
- game_state, draw, play_card, respond, discard, end_turn
- compute_rent: rent for a set without a game
- game_instructions: full rules`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	username := stringProp("Player name to act as")
	code := stringProp("6 character session code")

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Host a new game lobby. The host joins automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"username": username,
				"preset":   stringProp("Rules preset id (optional, see list_presets)"),
			},
			Required: []string{"username"},
		},
	}, c.handleCreateSession)

	for _, tool := range []struct {
		name, description string
		handler           server.ToolHandlerFunc
	}{
		{"join_session", "Join a lobby that has not started", c.handleJoinSession},
		{"start_session", "Start the game and deal opening hands", c.handleStartSession},
		{"leave_session", "Leave a session", c.handleLeaveSession},
		{"game_state", "Get the game as seen by this player, including their hand", c.handleGameState},
		{"draw", "Draw cards at the start of your turn", c.handleDraw},
		{"end_turn", "Pass the turn to the next player", c.handleEndTurn},
	} {
		c.mcpServer.AddTool(mcp.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]interface{}{"username": username, "code": code},
				Required:   []string{"username", "code"},
			},
		}, tool.handler)
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "my_session",
		Description: "Find the session this player belongs to",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"username": username},
			Required:   []string{"username"},
		},
	}, c.handleMySession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get lobby details of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"code": code},
			Required:   []string{"code"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available rules presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_card",
		Description: "Play a card from your hand by index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"username":        username,
				"code":            code,
				"card_index":      intProp("Index of the card in your hand"),
				"as_money":        boolProp("Bank an action or rent card for its value"),
				"color":           stringProp("Set color for wilds, rent, House, Hotel and Deal Breaker"),
				"target":          stringProp("Opponent for Sly Deal, Forced Deal, Deal Breaker and Debt Collector"),
				"target_property": intProp("Index into the target's properties for Sly Deal and Forced Deal"),
				"offer_property":  intProp("Index into your properties to give away with Forced Deal"),
			},
			Required: []string{"username", "code", "card_index"},
		},
	}, c.handlePlay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "respond",
		Description: "Answer the pending action aimed at you: accept it or play Just Say No",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"username":    username,
				"code":        code,
				"just_say_no": boolProp("Play a Just Say No from your hand"),
			},
			Required: []string{"username", "code"},
		},
	}, c.handleRespond)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "discard",
		Description: "Discard a card from your hand by index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"username":   username,
				"code":       code,
				"card_index": intProp("Index of the card in your hand"),
			},
			Required: []string{"username", "code", "card_index"},
		},
	}, c.handleDiscard)

	// Rules
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "compute_rent",
		Description: "Compute the rent a set charges",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"color":        stringProp("Set color"),
				"owned":        intProp("Properties owned in that color"),
				"house":        boolProp("Set has a house"),
				"hotel":        boolProp("Set has a hotel"),
				"double_count": intProp("Double the Rent cards played"),
			},
			Required: []string{"color", "owned"},
		},
	}, c.handleComputeRent)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of Monopoly Deal as played here",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

// apiError is a non-2xx reply from the REST API
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

func (c *Client) apiCall(ctx context.Context, method, path, token string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Either {"error": ...} or a failed service.Result
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = errResp.Message
		}
		return &apiError{Status: resp.StatusCode, Message: msg}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// token returns a cached bearer token for username, logging in on first use
func (c *Client) token(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username is required")
	}

	c.mu.Lock()
	tok, ok := c.tokens[username]
	c.mu.Unlock()
	if ok {
		return tok, nil
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.apiCall(ctx, "POST", "/api/login", "", map[string]string{"username": username}, &resp); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	c.mu.Lock()
	c.tokens[username] = resp.Token
	c.mu.Unlock()
	c.logger.Debug("logged in", zap.String("username", username))
	return resp.Token, nil
}

// authedCall runs apiCall as username. A rejected token is dropped and the
// call is retried once with a fresh login.
func (c *Client) authedCall(ctx context.Context, username, method, path string, body, result interface{}) error {
	tok, err := c.token(ctx, username)
	if err != nil {
		return err
	}
	err = c.apiCall(ctx, method, path, tok, body, result)
	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}

	c.mu.Lock()
	delete(c.tokens, username)
	c.mu.Unlock()
	if tok, err = c.token(ctx, username); err != nil {
		return err
	}
	return c.apiCall(ctx, method, path, tok, body, result)
}

// resultCall posts a session action and formats the returned Result
func (c *Client) resultCall(ctx context.Context, request mcp.CallToolRequest, action string, body interface{}) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	code := request.GetString("code", "")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	var result service.Result
	path := fmt.Sprintf("/api/sessions/%s/%s", code, action)
	if err := c.authedCall(ctx, username, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatResult(&result, username)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	body := map[string]string{}
	if preset := request.GetString("preset", ""); preset != "" {
		body["preset"] = preset
	}

	var result service.Result
	if err := c.authedCall(ctx, username, "POST", "/api/sessions", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatResult(&result, username)), nil
}

func (c *Client) handleJoinSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.resultCall(ctx, request, "join", nil)
}

func (c *Client) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.resultCall(ctx, request, "start", nil)
}

func (c *Client) handleLeaveSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.resultCall(ctx, request, "leave", nil)
}

func (c *Client) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.resultCall(ctx, request, "draw", nil)
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.resultCall(ctx, request, "end-turn", nil)
}

func (c *Client) handlePlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := engine.PlayRequest{
		Index:          request.GetInt("card_index", -1),
		AsMoney:        request.GetBool("as_money", false),
		Target:         request.GetString("target", ""),
		TargetProperty: request.GetInt("target_property", 0),
		OfferProperty:  request.GetInt("offer_property", 0),
	}
	if color := request.GetString("color", ""); color != "" {
		body.Color = cards.Color(color)
	}
	return c.resultCall(ctx, request, "play", body)
}

func (c *Client) handleRespond(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]bool{"just_say_no": request.GetBool("just_say_no", false)}
	return c.resultCall(ctx, request, "respond", body)
}

func (c *Client) handleDiscard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("card_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.resultCall(ctx, request, "discard", map[string]int{"card_index": index})
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")
	code := request.GetString("code", "")

	var view engine.View
	if err := c.authedCall(ctx, username, "GET", fmt.Sprintf("/api/sessions/%s/state", code), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatView(&view, username)), nil
}

func (c *Client) handleMySession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := request.GetString("username", "")

	var info session.Info
	if err := c.authedCall(ctx, username, "GET", "/api/sessions/mine", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info session.Info
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+code, "", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int            `json:"count"`
		Sessions []session.Info `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", "", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No sessions. Use create_session to host one."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sessions (%d):\n", response.Count)
	for _, info := range response.Sessions {
		fmt.Fprintf(&sb, "- %s [%s] %d/%d players: %s\n",
			info.Code, info.Status, len(info.Players), info.MaxPlayers, strings.Join(info.Players, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []config.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", "", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Presets:\n")
	for _, p := range presets {
		fmt.Fprintf(&sb, "- %s: %s (win: %s", p.ID, p.Name, p.WinRule)
		if p.EnforceTurnLimits {
			sb.WriteString(", turn limits")
		}
		sb.WriteString(")")
		if p.Description != "" {
			sb.WriteString(" - " + p.Description)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleComputeRent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color, err := request.RequireString("color")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body := map[string]interface{}{
		"color":        color,
		"owned":        request.GetInt("owned", 0),
		"house":        request.GetBool("house", false),
		"hotel":        request.GetBool("hotel", false),
		"double_count": request.GetInt("double_count", 0),
	}

	var resp struct {
		Color   string `json:"color"`
		SetSize int    `json:"set_size"`
		FullSet bool   `json:"full_set"`
		Base    int    `json:"base"`
		Rent    int    `json:"rent"`
	}
	if err := c.apiCall(ctx, "POST", "/api/rules/rent", "", body, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	full := "incomplete"
	if resp.FullSet {
		full = "complete"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (%s set of %d): base rent %dM, total rent %dM",
		resp.Color, full, resp.SetSize, resp.Base, resp.Rent)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}
