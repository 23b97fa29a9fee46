package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/wricardo/domination/game/engine"
	"github.com/wricardo/domination/game/match"
	"github.com/wricardo/domination/game/service"
)

// Inbound command types
const (
	CommandRoute   = "route"
	CommandCapture = "capture"
	CommandStun    = "stun"
	CommandTick    = "tick"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadCommand     = errors.New("malformed command")
)

// Command is a decoded inbound frame
type Command struct {
	Type      string
	Enemy     string
	Movements []engine.Movement
	Position  engine.Position
	Count     int
}

// CommandResult is what a handled command broadcasts to the match
type CommandResult struct {
	Event string
	Data  interface{}
	State *match.State
}

// CommandHandler executes commands received from match subscribers
type CommandHandler interface {
	Execute(ctx context.Context, matchID string, cmd *Command) (*CommandResult, error)
}

// ParseCommand reads the type field and the fields that type needs.
// Frames without a known type return ErrUnknownCommand.
func ParseCommand(data []byte) (*Command, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrBadCommand)
	}

	parsed := gjson.ParseBytes(data)
	cmd := &Command{Type: parsed.Get("type").String()}

	switch cmd.Type {
	case CommandRoute:
		cmd.Enemy = parsed.Get("enemy").String()
		raw := parsed.Get("movements")
		if !raw.IsArray() {
			return nil, fmt.Errorf("%w: route needs a movements array", ErrBadCommand)
		}
		if err := json.Unmarshal([]byte(raw.Raw), &cmd.Movements); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadCommand, err)
		}
	case CommandCapture:
		x, y := parsed.Get("x"), parsed.Get("y")
		if !x.Exists() || !y.Exists() {
			return nil, fmt.Errorf("%w: capture needs x and y", ErrBadCommand)
		}
		cmd.Position = engine.Position{X: int(x.Int()), Y: int(y.Int())}
	case CommandStun:
		cmd.Enemy = parsed.Get("enemy").String()
	case CommandTick:
		cmd.Count = 1
		if count := parsed.Get("count"); count.Exists() {
			cmd.Count = int(count.Int())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	return cmd, nil
}

// ServiceCommands executes commands against a MatchService
type ServiceCommands struct {
	service service.MatchService
}

// NewServiceCommands creates a CommandHandler backed by svc
func NewServiceCommands(svc service.MatchService) *ServiceCommands {
	return &ServiceCommands{service: svc}
}

// Execute runs one command and reports what to broadcast
func (s *ServiceCommands) Execute(ctx context.Context, matchID string, cmd *Command) (*CommandResult, error) {
	switch cmd.Type {
	case CommandRoute:
		route, err := s.service.SetRoute(ctx, matchID, cmd.Enemy, cmd.Movements)
		if err != nil {
			return nil, err
		}
		return s.withState(ctx, matchID, service.EventRoute, route)

	case CommandCapture:
		result, err := s.service.CaptureTile(ctx, matchID, cmd.Position)
		if err != nil {
			return nil, err
		}
		event := service.EventCapture
		if result.Finished {
			event = service.EventFinished
		}
		return s.withState(ctx, matchID, event, result)

	case CommandStun:
		score, err := s.service.StunEnemy(ctx, matchID, cmd.Enemy)
		if err != nil {
			return nil, err
		}
		return s.withState(ctx, matchID, service.EventStun, score)

	case CommandTick:
		result, err := s.service.Tick(ctx, matchID, cmd.Count)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Event: service.EventTick, Data: result.Reports, State: result.State}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

func (s *ServiceCommands) withState(ctx context.Context, matchID, event string, data interface{}) (*CommandResult, error) {
	info, err := s.service.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return &CommandResult{Event: event, Data: data, State: info.State}, nil
}
