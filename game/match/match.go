package match

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/domination/game/engine"
)

// actor is an enemy placed on the grid together with its route
type actor struct {
	enemy      *engine.Enemy
	pos        engine.Position
	route      *engine.Route
	patrol     []engine.Movement
	loop       bool
	stunnedFor int
}

// Match is one running game: the arena grid, its enemies and the score sheet.
// All methods are safe for concurrent use; a single mutex serializes them.
type Match struct {
	mu         sync.Mutex
	id         string
	config     *engine.ArenaConfig
	grid       [][]engine.Tile
	actors     []*actor
	byName     map[string]*actor
	score      *engine.ScoreSheet
	tick       int64
	status     Status
	capturable int
	captured   int
}

// New creates a match from a validated arena config and spawns its enemies
func New(id string, config *engine.ArenaConfig) (*Match, error) {
	if err := engine.ValidateArenaConfig(config); err != nil {
		return nil, err
	}

	grid := engine.BuildGrid(config)
	m := &Match{
		id:         id,
		config:     config,
		grid:       grid,
		byName:     make(map[string]*actor, len(config.Enemies)),
		score:      engine.NewScoreSheet(),
		status:     StatusRunning,
		capturable: engine.CountCapturable(grid),
	}

	for _, spec := range config.Enemies {
		enemy, err := engine.NewEnemy(spec.Name, engine.Size{Width: spec.Width, Height: spec.Height})
		if err != nil {
			return nil, err
		}
		patrol, err := engine.PatrolMovements(spec.Patrol)
		if err != nil {
			return nil, fmt.Errorf("enemy %s: %w", spec.Name, err)
		}
		a := &actor{
			enemy:  enemy,
			pos:    spec.Spawn,
			route:  engine.NewRoute(patrol...),
			patrol: patrol,
			loop:   spec.LoopPatrol,
		}
		m.actors = append(m.actors, a)
		m.byName[strings.ToLower(spec.Name)] = a
	}

	return m, nil
}

// ID returns the match identifier
func (m *Match) ID() string {
	return m.id
}

// Config returns the arena config the match was created from
func (m *Match) Config() *engine.ArenaConfig {
	return m.config
}

// Status returns the lifecycle state
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Tick advances every enemy by at most one cell
func (m *Match) Tick() (*TickReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished {
		return nil, ErrMatchFinished
	}

	m.tick++
	report := &TickReport{
		Tick:  m.tick,
		Steps: make([]StepRecord, 0, len(m.actors)),
	}
	for _, a := range m.actors {
		report.Steps = append(report.Steps, m.advance(a))
	}
	return report, nil
}

// advance consumes one step of the actor's current movement
func (m *Match) advance(a *actor) StepRecord {
	record := StepRecord{Enemy: a.enemy.Name, From: a.pos, To: a.pos}

	if a.stunnedFor > 0 {
		a.stunnedFor--
		record.Outcome = OutcomeStunned
		return record
	}

	current, ok := m.nextMovement(a)
	if !ok {
		record.Outcome = OutcomeIdle
		return record
	}

	record.Direction = current.Direction
	dx, dy := Delta(current.Direction)
	next := engine.Position{X: a.pos.X + dx, Y: a.pos.Y + dy}

	// A blocked step is still consumed so a route cannot stall forever
	if engine.FootprintFits(m.config.Layout, next, a.enemy.Size) {
		a.pos = next
		a.enemy.RecordStep(current.Direction)
		record.Outcome = OutcomeMoved
		record.To = next
	} else {
		record.Outcome = OutcomeBlocked
	}

	// nextMovement never returns an exhausted movement, so Step cannot fail
	_ = current.Step()
	if current.Exhausted() {
		_ = a.route.CompleteCurrentMovement()
	}

	return record
}

// nextMovement retires exhausted movements and reloads a looping patrol.
// It returns false when the actor has nothing left to do this tick.
func (m *Match) nextMovement(a *actor) (*engine.Movement, bool) {
	reloaded := false
	for {
		current, ok := a.route.CurrentMovement()
		for ok && current.Exhausted() {
			_ = a.route.CompleteCurrentMovement()
			current, ok = a.route.CurrentMovement()
		}
		if ok {
			return current, true
		}
		if !a.loop || len(a.patrol) == 0 || reloaded {
			return nil, false
		}
		a.route.SetRoute(a.patrol)
		reloaded = true
	}
}

// Delta maps a direction to its unit vector in screen coordinates
func Delta(d engine.Direction) (int, int) {
	switch d {
	case engine.Up:
		return 0, -1
	case engine.Down:
		return 0, 1
	case engine.Left:
		return -1, 0
	case engine.Right:
		return 1, 0
	}
	return 0, 0
}

func (m *Match) findActor(name string) (*actor, error) {
	a, ok := m.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnemyNotFound, name)
	}
	return a, nil
}

// SetEnemyRoute replaces the route of an enemy
func (m *Match) SetEnemyRoute(name string, movements []engine.Movement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished {
		return ErrMatchFinished
	}
	a, err := m.findActor(name)
	if err != nil {
		return err
	}
	for i, mv := range movements {
		if _, err := engine.NewMovement(mv.Direction, mv.RemainingSteps); err != nil {
			return fmt.Errorf("movement %d: %w", i+1, err)
		}
	}

	a.route.SetRoute(movements)
	return nil
}

// EnemyRoute returns a copy of the queued movements of an enemy
func (m *Match) EnemyRoute(name string) ([]engine.Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.findActor(name)
	if err != nil {
		return nil, err
	}
	return a.route.Movements(), nil
}

// CaptureTile marks a tile as captured and credits the matching counter.
// Capturing the last free tile finishes the match.
func (m *Match) CaptureTile(pos engine.Position) (*CaptureResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished {
		return nil, ErrMatchFinished
	}
	if pos.Y < 0 || pos.Y >= len(m.grid) || pos.X < 0 || pos.X >= len(m.grid[pos.Y]) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, pos.X, pos.Y)
	}

	tile := &m.grid[pos.Y][pos.X]
	if !tile.Kind.Capturable() {
		return nil, fmt.Errorf("%w: %s at (%d,%d)", ErrTileNotCapturable, tile.Kind, pos.X, pos.Y)
	}
	if tile.Captured {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrTileAlreadyCaptured, pos.X, pos.Y)
	}

	var err error
	switch tile.Kind {
	case engine.NormalTile:
		err = m.score.AddNormalTilesCaptured(1)
	case engine.RushTile:
		err = m.score.AddRushTilesCaptured(1)
	case engine.GoldTile:
		err = m.score.AddGoldTilesCaptured(1)
	case engine.PowerTile:
		err = m.score.AddPowerTilesCaptured(1)
	}
	if err != nil {
		return nil, err
	}

	tile.Captured = true
	m.captured++

	result := &CaptureResult{Position: pos, Kind: tile.Kind}
	if m.captured == m.capturable {
		if err := m.finishLocked(); err != nil {
			return nil, err
		}
		result.Finished = true
	}
	return result, nil
}

// StunEnemy freezes an enemy for the arena's stun duration
func (m *Match) StunEnemy(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished {
		return ErrMatchFinished
	}
	a, err := m.findActor(name)
	if err != nil {
		return err
	}
	if err := m.score.AddEnemiesStunned(1); err != nil {
		return err
	}
	a.stunnedFor = m.config.EffectiveStunTicks()
	return nil
}

// Finish finalizes the score sheet with the captured percentage
func (m *Match) Finish() (engine.ScoreSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished {
		return m.score.Summary(), ErrMatchFinished
	}
	if err := m.finishLocked(); err != nil {
		return engine.ScoreSummary{}, err
	}
	return m.score.Summary(), nil
}

func (m *Match) finishLocked() error {
	percentage := float64(m.captured) / float64(m.capturable) * 100
	if err := m.score.Finalize(percentage); err != nil {
		return err
	}
	m.status = StatusFinished
	return nil
}

// Score returns the current score summary
func (m *Match) Score() engine.ScoreSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score.Summary()
}

// Snapshot returns a deep copy of the match state
func (m *Match) Snapshot() *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid := make([][]engine.Tile, len(m.grid))
	for y, row := range m.grid {
		grid[y] = make([]engine.Tile, len(row))
		copy(grid[y], row)
	}

	enemies := make([]EnemyState, 0, len(m.actors))
	for _, a := range m.actors {
		last, _ := a.enemy.LastDirection()
		enemies = append(enemies, EnemyState{
			Name:           a.enemy.Name,
			Size:           a.enemy.Size,
			Position:       a.pos,
			LastDirection:  last,
			StunnedFor:     a.stunnedFor,
			LoopPatrol:     a.loop,
			RemainingMoves: a.route.RemainingMovementCount(),
			Route:          a.route.Movements(),
		})
	}

	return &State{
		ID:              m.id,
		ArenaName:       m.config.Name,
		Status:          m.status,
		Tick:            m.tick,
		Width:           m.config.Width,
		Height:          m.config.Height,
		Grid:            grid,
		Enemies:         enemies,
		CapturableTiles: m.capturable,
		CapturedTiles:   m.captured,
		Score:           m.score.Summary(),
	}
}
