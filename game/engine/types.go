package engine

// TileKind represents the different kinds of arena tiles
type TileKind string

const (
	NormalTile TileKind = "normal"
	RushTile   TileKind = "rush"
	GoldTile   TileKind = "gold"
	PowerTile  TileKind = "power"
	WallTile   TileKind = "wall"

	// Validation constants
	MinGridSize      = 3
	MaxGridSize      = 64
	MaxEnemies       = 32
	DefaultStunTicks = 3
	MaxPatrolLength  = 256
)

// Layout characters understood by arena configs
const (
	NormalChar = '.'
	RushChar   = 'R'
	GoldChar   = 'G'
	PowerChar  = 'P'
	WallChar   = '#'
)

// TileKindFromChar maps a layout character to its tile kind
func TileKindFromChar(c rune) (TileKind, bool) {
	switch c {
	case NormalChar:
		return NormalTile, true
	case RushChar:
		return RushTile, true
	case GoldChar:
		return GoldTile, true
	case PowerChar:
		return PowerTile, true
	case WallChar:
		return WallTile, true
	}
	return "", false
}

// Char returns the layout character of the kind, or '?' for unknown kinds
func (k TileKind) Char() rune {
	switch k {
	case NormalTile:
		return NormalChar
	case RushTile:
		return RushChar
	case GoldTile:
		return GoldChar
	case PowerTile:
		return PowerChar
	case WallTile:
		return WallChar
	}
	return '?'
}

// Capturable reports whether tiles of this kind can be captured
func (k TileKind) Capturable() bool {
	return k != WallTile && k != ""
}

// Position represents x,y coordinates. X grows to the right, Y grows downward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PatrolStep is the JSON form of a movement in an arena config
type PatrolStep struct {
	Direction Direction `json:"direction"`
	Steps     int       `json:"steps"`
}

// EnemySpec describes an enemy spawned when a match starts
type EnemySpec struct {
	Name       string       `json:"name"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Spawn      Position     `json:"spawn"`
	Patrol     []PatrolStep `json:"patrol,omitempty"`
	LoopPatrol bool         `json:"loop_patrol,omitempty"`
}

// ArenaConfig represents an arena loaded from JSON
type ArenaConfig struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Layout      []string    `json:"layout"`
	StunTicks   int         `json:"stun_ticks,omitempty"`
	Enemies     []EnemySpec `json:"enemies"`
}

// Tile is a single arena cell
type Tile struct {
	Kind     TileKind `json:"kind"`
	Captured bool     `json:"captured,omitempty"`
}
