// Package api provides the HTTP REST API for arena matches.
//
// Endpoints:
//
// Service:
//   - GET /api - Service name, version and endpoint list
//   - GET /api/health - Liveness probe
//
// Configuration:
//   - GET /api/configs - List arena configurations
//   - POST /api/configs - Save a new arena ({"config_id": "...", ...arena})
//   - GET /api/configs/{name} - Full arena definition
//
// Matches:
//   - POST /api/matches - Start a match ({"config_id": "maze"}, optional)
//   - GET /api/matches - List matches (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/matches/{id} - Match info with a state snapshot
//   - DELETE /api/matches/{id} - Drop a match
//
// Driving:
//   - POST /api/matches/{id}/tick - Advance {"count": N} ticks (default 1)
//   - GET /api/matches/{id}/enemies/{name}/route - Queued movements
//   - PUT /api/matches/{id}/enemies/{name}/route - Replace the route with
//     {"movements": [{"direction": "right", "steps": 2}, ...]}, the same
//     shape as an arena patrol
//   - POST /api/matches/{id}/enemies/{name}/plan - Route towards {"x","y"}
//
// Rules and scoring:
//   - POST /api/matches/{id}/captures - Capture the tile at {"x","y"}
//   - POST /api/matches/{id}/stuns - Stun {"enemy": "..."}
//   - POST /api/matches/{id}/finish - Finalize the score sheet
//   - GET /api/matches/{id}/score - Current score sheet
//
// WebSocket:
//   - GET /ws?match={id} - Subscribe to live updates
//
// Errors are returned as {"error": "..."} with 404 for unknown matches,
// enemies and configs, 409 for finished matches and already captured tiles,
// 400 for other rule violations and 500 otherwise. Every successful state
// change is broadcast to the match's WebSocket subscribers.
package api
