package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
	"github.com/wricardo/domination/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Domination Arena",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Domination Arena - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Capture as many tiles as possible. Enemies walk queued routes one step per tick;
you steer them with set_route or plan_route and stun them to freeze them.

TILES: . normal, R rush, G gold, P power, # wall. Captured tiles show as *.
Enemies are drawn with their list number (1-9).

AVAILABLE TOOLS:
- list_configs: List arenas
- create_match: Start a match on an arena
- list_matches: List live matches
- match_state: Grid, enemies and score of a match
- set_route: Replace an enemy's route with explicit movements
- plan_route: Route an enemy towards a target cell
- tick: Advance the match by one or more ticks
- capture_tile: Capture a tile
- stun_enemy: Stun an enemy
- finish_match: Finalize the score sheet
- score_sheet: Show the current score sheet`),
	)

	c.registerTools()
}

func matchIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Match ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available arena configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_match",
		Description: "Start a new match with optional arena selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Arena config ID from list_configs (optional)",
				},
			},
		},
	}, c.handleCreateMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_matches",
		Description: "List all live matches",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMatches)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_state",
		Description: "Get the grid, enemies and score of a match",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
			},
			Required: []string{"match_id"},
		},
	}, c.handleMatchState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_route",
		Description: "Replace an enemy's route with a list of movements",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"enemy": map[string]interface{}{
					"type":        "string",
					"description": "Enemy name",
				},
				"movements": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"direction": map[string]interface{}{
								"type": "string",
								"enum": []string{"up", "down", "left", "right"},
							},
							"steps": map[string]interface{}{
								"type":    "integer",
								"minimum": 0,
							},
						},
						"required": []string{"direction", "steps"},
					},
					"description": "Movements in order; an empty list clears the route",
				},
			},
			Required: []string{"match_id", "enemy", "movements"},
		},
	}, c.handleSetRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "plan_route",
		Description: "Route an enemy towards a target cell along an L-shaped path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"enemy": map[string]interface{}{
					"type":        "string",
					"description": "Enemy name",
				},
				"x": map[string]interface{}{"type": "integer", "description": "Target column"},
				"y": map[string]interface{}{"type": "integer", "description": "Target row"},
			},
			Required: []string{"match_id", "enemy", "x", "y"},
		},
	}, c.handlePlanRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance a match; each enemy takes one step per tick",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     service.MaxTicksPerCall,
					"description": "Number of ticks (default 1)",
				},
			},
			Required: []string{"match_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "capture_tile",
		Description: "Capture the tile at a cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"x":        map[string]interface{}{"type": "integer", "description": "Column"},
				"y":        map[string]interface{}{"type": "integer", "description": "Row"},
			},
			Required: []string{"match_id", "x", "y"},
		},
	}, c.handleCaptureTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "stun_enemy",
		Description: "Stun an enemy so it skips its next ticks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"enemy": map[string]interface{}{
					"type":        "string",
					"description": "Enemy name",
				},
			},
			Required: []string{"match_id", "enemy"},
		},
	}, c.handleStunEnemy)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "finish_match",
		Description: "Finish a match and finalize its score sheet",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
			},
			Required: []string{"match_id"},
		},
	}, c.handleFinishMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "score_sheet",
		Description: "Show the current score sheet of a match",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
			},
			Required: []string{"match_id"},
		},
	}, c.handleScoreSheet)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP request to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, name string) (string, error) {
	v, _ := args[name].(string)
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

// intArg reads a JSON number; present reports whether the argument was given
func intArg(args map[string]interface{}, name string) (value int, present bool, err error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch n := raw.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, true, fmt.Errorf("%s must be an integer", name)
		}
		return int(n), true, nil
	case int:
		return n, true, nil
	case json.Number:
		i, err := n.Int64()
		return int(i), true, err
	}
	return 0, true, fmt.Errorf("%s must be a number", name)
}

func positionArgs(args map[string]interface{}) (engine.Position, error) {
	x, okX, err := intArg(args, "x")
	if err != nil {
		return engine.Position{}, err
	}
	y, okY, err := intArg(args, "y")
	if err != nil {
		return engine.Position{}, err
	}
	if !okX || !okY {
		return engine.Position{}, fmt.Errorf("x and y are required")
	}
	return engine.Position{X: x, Y: y}, nil
}

func movementsArg(args map[string]interface{}) ([]engine.Movement, error) {
	raw, ok := args["movements"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("movements must be an array")
	}

	movements := make([]engine.Movement, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("movement %d must be an object", i+1)
		}
		dirName, _ := obj["direction"].(string)
		dir, err := engine.ParseDirection(dirName)
		if err != nil {
			return nil, fmt.Errorf("movement %d: %w", i+1, err)
		}
		steps, present, err := intArg(obj, "steps")
		if err != nil || !present {
			return nil, fmt.Errorf("movement %d: steps must be a non-negative integer", i+1)
		}
		mv, err := engine.NewMovement(dir, steps)
		if err != nil {
			return nil, fmt.Errorf("movement %d: %w", i+1, err)
		}
		movements = append(movements, mv)
	}
	return movements, nil
}

// Tool handlers

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Available arenas (%d):\n", len(configs)))
	for _, cfg := range configs {
		sb.WriteString(fmt.Sprintf("- %s: %s (%dx%d, %d enemies) - %s\n",
			cfg.ConfigID, cfg.Name, cfg.Width, cfg.Height, cfg.Enemies, cfg.Description))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleCreateMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]interface{}{}
	if configID, ok := args["config_id"].(string); ok && configID != "" {
		body["config_id"] = configID
	}

	var info service.MatchInfo
	if err := c.apiCall(ctx, "POST", "/api/matches", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Match %s created (arena: %s)\n\n%s",
		info.ID, info.ConfigID, formatState(info.State))), nil
}

func (c *Client) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                  `json:"count"`
		Matches []*service.MatchInfo `json:"matches"`
	}
	if err := c.apiCall(ctx, "GET", "/api/matches", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Live matches (%d):\n", response.Count))
	for _, info := range response.Matches {
		line := fmt.Sprintf("- %s (arena: %s)", info.ID, info.ConfigID)
		if info.State != nil {
			line += fmt.Sprintf(" %s, tick %d, captured %d/%d",
				info.State.Status, info.State.Tick, info.State.CapturedTiles, info.State.CapturableTiles)
		}
		sb.WriteString(line + "\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matchID, err := stringArg(arguments(request), "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.MatchInfo
	if err := c.apiCall(ctx, "GET", "/api/matches/"+url.PathEscape(matchID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(info.State)), nil
}

func (c *Client) handleSetRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	matchID, err := stringArg(args, "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enemy, err := stringArg(args, "enemy")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	movements, err := movementsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var route service.RouteInfo
	path := fmt.Sprintf("/api/matches/%s/enemies/%s/route", url.PathEscape(matchID), url.PathEscape(enemy))
	if err := c.apiCall(ctx, "PUT", path, map[string]interface{}{"movements": movements}, &route); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRoute(&route)), nil
}

func (c *Client) handlePlanRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	matchID, err := stringArg(args, "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enemy, err := stringArg(args, "enemy")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := positionArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var route service.RouteInfo
	path := fmt.Sprintf("/api/matches/%s/enemies/%s/plan", url.PathEscape(matchID), url.PathEscape(enemy))
	if err := c.apiCall(ctx, "POST", path, target, &route); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRoute(&route)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	matchID, err := stringArg(args, "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	count, present, err := intArg(args, "count")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !present {
		count = 1
	}

	var result service.TickResult
	path := fmt.Sprintf("/api/matches/%s/tick", url.PathEscape(matchID))
	if err := c.apiCall(ctx, "POST", path, map[string]int{"count": count}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTickResult(&result)), nil
}

func (c *Client) handleCaptureTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	matchID, err := stringArg(args, "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos, err := positionArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result match.CaptureResult
	path := fmt.Sprintf("/api/matches/%s/captures", url.PathEscape(matchID))
	if err := c.apiCall(ctx, "POST", path, pos, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Captured %s tile at (%d,%d)", result.Kind, result.Position.X, result.Position.Y)
	if result.Finished {
		text += "\nAll tiles captured - match finished!"
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleStunEnemy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	matchID, err := stringArg(args, "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enemy, err := stringArg(args, "enemy")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var score engine.ScoreSummary
	path := fmt.Sprintf("/api/matches/%s/stuns", url.PathEscape(matchID))
	if err := c.apiCall(ctx, "POST", path, map[string]string{"enemy": enemy}, &score); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s stunned\n\n%s", enemy, formatScore(&score))), nil
}

func (c *Client) handleFinishMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matchID, err := stringArg(arguments(request), "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var score engine.ScoreSummary
	path := fmt.Sprintf("/api/matches/%s/finish", url.PathEscape(matchID))
	if err := c.apiCall(ctx, "POST", path, nil, &score); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Match finished\n\n" + formatScore(&score)), nil
}

func (c *Client) handleScoreSheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matchID, err := stringArg(arguments(request), "match_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var score engine.ScoreSummary
	path := fmt.Sprintf("/api/matches/%s/score", url.PathEscape(matchID))
	if err := c.apiCall(ctx, "GET", path, nil, &score); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatScore(&score)), nil
}
