// Package service provides the business logic layer for the Domination game.
//
// The service package implements:
//   - Multi-match management on top of the session manager
//   - Arena configuration listing and loading
//   - Route updates, route planning and ticking
//   - Capture, stun and finish operations feeding the score sheet
//   - A fixed-rate Ticker that drives every running match
//
// Core Interfaces:
//
// MatchService is the main service interface used by the REST API, the
// WebSocket command handler and, through the API, the MCP tools.
// SessionManager stores live matches. ConfigManager loads arena configs.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	matchService := service.NewMatchService(sessionMgr, configMgr)
//
//	info, err := matchService.CreateMatch(ctx, "courtyard")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create match")
//	}
//
//	_, err = matchService.Tick(ctx, info.ID, 1)
package service
