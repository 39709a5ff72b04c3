package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/service"
)

const serverVersion = "1.0.0"

// Server exposes the game service as MCP tools. An agent plays blind: every
// cue comes back as a narrated line, and listen describes where the two
// ambient sounds are coming from.
type Server struct {
	svc       service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by svc
func NewServer(svc service.GameService) *Server {
	s := &Server{svc: svc}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"La Cueva de los Condenados",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`La Cueva de los Condenados - MCP Interface

You are blind in a dark cave. A monster is snoring somewhere; the exit is a
waterfall. Walk into the waterfall to escape. Walk into the monster and it
eats you.

AVAILABLE TOOLS:
- create_session: Start a new game (optionally on a named level)
- act: One action: forward, turn_left or turn_right
- bulk_act: Several actions in a row
- listen: Where the snoring and the waterfall sound from, relative to your facing
- session_state: Outcome, facing and turn count of a session
- turn_history: The transcript of resolved actions
- list_sessions: All active sessions
- list_levels: Available levels
- game_instructions: The rules in full`),
	)

	s.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Start a new game session, optionally on a named level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Level ID from list_levels (optional)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "session_state",
		Description: "Get the outcome, facing and turn count of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleSessionState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "act",
		Description: "Perform one action and hear what happens",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"action": map[string]interface{}{
					"type":        "string",
					"description": "forward, turn_left or turn_right",
					"enum":        []string{"forward", "turn_left", "turn_right"},
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are taking this action",
				},
			},
			Required: []string{"session_id", "action"},
		},
	}, s.handleAct)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_act",
		Description: fmt.Sprintf("Perform up to %d actions in a row; stops early when the game ends", service.MaxBulkActions),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"actions": map[string]interface{}{
					"type":        "array",
					"description": "Actions in order",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"forward", "turn_left", "turn_right"},
					},
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are taking these actions",
				},
			},
			Required: []string{"session_id", "actions"},
		},
	}, s.handleBulkAct)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "listen",
		Description: "Describe where each sound comes from relative to where you face",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleListen)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get the transcript of resolved actions, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number, starting at 1",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Turns per page (max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleTurnHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListLevels)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until stdin closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, _ := arguments(request)["level"].(string)

	info, err := s.svc.CreateSession(ctx, level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.svc.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, info := range sessions {
		fmt.Fprintf(&b, "- %s (Level: %s, Outcome: %s, Turns: %d, Created: %s)\n",
			info.ID, info.LevelID, info.State.Outcome, info.State.Turns, info.State.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleSessionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	info, err := s.svc.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(info)), nil
}

func (s *Server) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	action, _ := args["action"].(string)

	// intent is for the agent's own reasoning and is not used
	_, _ = args["intent"].(string)

	result, err := s.svc.Act(ctx, sessionID, action)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActResult(result)), nil
}

func (s *Server) handleBulkAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	raw, _ := args["actions"].([]interface{})

	actions := make([]string, 0, len(raw))
	for _, a := range raw {
		if str, ok := a.(string); ok {
			actions = append(actions, str)
		}
	}
	if len(actions) == 0 {
		return mcp.NewToolResultError("actions must be a non-empty list of strings"), nil
	}

	result, err := s.svc.BulkAct(ctx, sessionID, actions)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkActResult(sessionID, result)), nil
}

func (s *Server) handleListen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	result, err := s.svc.Listen(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatListen(result)), nil
}

func (s *Server) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	page, _ := args["page"].(float64)
	limit, _ := args["limit"].(float64)
	order, _ := args["order"].(string)

	history, err := s.svc.GetHistory(ctx, sessionID, service.HistoryOptions{
		Page:  int(page),
		Limit: int(limit),
		Order: order,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(history)), nil
}

func (s *Server) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	levels, err := s.svc.ListLevels(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Levels:\n\n")
	for _, level := range levels {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d\n\n",
			level.ID, level.Name, level.Description, level.Width, level.Height)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `La Cueva de los Condenados - Complete Instructions

OBJECTIVE:
Find the waterfall and walk into it. You cannot see anything; you can only hear.

SOUNDS:
• Snoring - the monster. Stepping onto its cell wakes it and it eats you.
• Waterfall - the exit. Stepping onto its cell wins the game.
Both sounds are placed around you: "ahead", "right", "behind", "left" and the
diagonals in between, from "very close" to "very far". They follow your facing,
so turning changes where you hear them.

ACTIONS:
• turn_left / turn_right - rotate 90 degrees in place
• forward - step one cell the way you face. A wall gives you a shock and you
  stay where you are.

TIPS:
• Use listen after every turn to re-orient.
• A sound "ahead" gets closer when you walk forward unless a wall is in the way.
• The monster and the waterfall can be on the same side; keep track of both.`

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nLevel: %s\n", info.ID, info.LevelID)
	b.WriteString(formatState(info.State.Outcome, info.State.Over, info.State.Player, info.State.Turns))
	if info.State.Message != "" {
		fmt.Fprintf(&b, "Last: %s\n", info.State.Message)
	}
	writeLines(&b, info.Narration)
	return b.String()
}

func formatState(outcome engine.Outcome, over bool, player engine.PlayerState, turns int) string {
	status := "Playing"
	switch outcome {
	case engine.PlayerWon:
		status = "🎉 ESCAPED!"
	case engine.PlayerDead, engine.PlayerLost:
		status = "💀 EATEN"
	}
	if over {
		status += " (session over)"
	}
	return fmt.Sprintf("Status: %s\nFacing: %s\nTurns: %d\n", status, player.Orientation, turns)
}

func formatActResult(result *service.ActResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s\n", result.Action)
	for _, turn := range result.Turns {
		fmt.Fprintf(&b, "  #%d %s: %s\n", turn.Number, turn.Action, turn.Message)
	}
	writeLines(&b, result.Narration)
	b.WriteString(formatState(result.State.Outcome, result.State.Over, result.State.Player, result.State.Turns))
	return b.String()
}

func formatBulkActResult(sessionID string, result *service.BulkActResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d of %d actions\n", sessionID, result.Executed, result.Requested)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d actions were taken\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on action %d: %s\n", result.StoppedOnIdx, result.StoppedReason)
	}
	for _, turn := range result.Turns {
		fmt.Fprintf(&b, "  #%d %s: %s\n", turn.Number, turn.Action, turn.Message)
	}
	writeLines(&b, result.Narration)
	b.WriteString(formatState(result.State.Outcome, result.State.Over, result.State.Player, result.State.Turns))
	return b.String()
}

func formatListen(result *service.ListenResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Facing %s.\n", result.Player.Orientation)
	for _, line := range result.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turns (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalTurns)
	for _, turn := range history.Turns {
		fmt.Fprintf(&b, "#%d %s facing %s: %s\n", turn.Number, turn.Action, turn.Orientation, turn.Message)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "More on page %d\n", history.Page+1)
	}
	return b.String()
}

func writeLines(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("You hear:\n")
	for _, line := range lines {
		fmt.Fprintf(b, "  %s\n", line)
	}
}
