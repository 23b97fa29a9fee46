// Package mcp provides a Model Context Protocol server for Domination matches.
//
// The MCP server does not touch game state directly. Every tool is a thin
// proxy over the REST API, so agents see exactly what HTTP and WebSocket
// clients see.
//
// MCP Tools:
//   - list_configs: List available arenas
//   - create_match: Start a match on an arena
//   - list_matches: List live matches
//   - match_state: Match state with an ASCII grid (captured tiles as '*',
//     enemies as digits)
//   - set_route: Replace an enemy's route with direction/steps movements
//   - plan_route: Send an enemy towards a target cell
//   - tick: Advance a match one or more ticks
//   - capture_tile: Capture a tile and credit the score sheet
//   - stun_enemy: Freeze an enemy for the arena's stun duration
//   - finish_match: Finalize the score sheet
//   - score_sheet: Current score
//
// Transport Modes:
//   - Stdio: server.ServeStdio on GetMCPServer, for local MCP clients
//   - HTTP: single JSON-RPC messages POSTed to /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal().Err(err).Msg("mcp stdio")
//	}
package mcp
