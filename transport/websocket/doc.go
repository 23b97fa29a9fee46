// Package websocket pushes live match updates to browser and bot clients.
//
// Clients connect to /ws?match=<id> and are grouped per match by a Hub.
// Every state change made through the REST API, the automatic ticker or a
// WebSocket command is broadcast as a Message:
//
//	{"match_id": "1a2b3c4d", "event": "state_update", "state": {...}}
//
// Inbound frames are always logged. Frames with a "type" field are decoded
// with ParseCommand and passed to the hub's CommandHandler:
//
//	{"type": "route", "enemy": "Slime", "movements": [{"direction": "right", "steps": 2}]}
//	{"type": "capture", "x": 3, "y": 1}
//	{"type": "stun", "enemy": "Slime"}
//	{"type": "tick", "count": 1}
//
// A failed command is answered with an "error" event to the sending client
// only.
//
//	hub := websocket.NewHub(websocket.NewServiceCommands(matchService))
//	go hub.Run(ctx)
package websocket
