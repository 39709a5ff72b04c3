package engine

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Layout characters
	WallChar  = '#'
	FloorChar = '.'

	// Validation constants
	MinGridSize = 3
	MaxGridSize = 64

	// DefaultTurnInterval is the cooldown after a turn when the level does not set one.
	DefaultTurnInterval = 1000 * time.Millisecond
)

// Cell is a grid coordinate. (0,0) is the bottom-left corner and Y grows upwards.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell offset by dx, dy
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Orientation is the way the player is facing
type Orientation int

const (
	Up Orientation = iota
	Down
	Left
	Right
)

var orientationNames = [...]string{"up", "down", "left", "right"}

func (o Orientation) String() string {
	if o < Up || o > Right {
		return fmt.Sprintf("orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// Valid reports whether o is one of the four facings
func (o Orientation) Valid() bool {
	return o >= Up && o <= Right
}

// ParseOrientation converts "up", "down", "left" or "right" into an Orientation
func ParseOrientation(s string) (Orientation, error) {
	for i, name := range orientationNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Orientation(i), nil
		}
	}
	return Up, fmt.Errorf("unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("unknown orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// TurnDirection is the side the player turns towards
type TurnDirection int

const (
	NoTurn TurnDirection = iota
	TurnLeft
	TurnRight
)

// Opposite returns the direction that undoes d
func (d TurnDirection) Opposite() TurnDirection {
	switch d {
	case TurnLeft:
		return TurnRight
	case TurnRight:
		return TurnLeft
	}
	return NoTurn
}

func (d TurnDirection) String() string {
	switch d {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return "none"
}

// Input is a single player command submitted between ticks
type Input int

const (
	InputNone Input = iota
	InputTurnLeft
	InputTurnRight
	InputForward
)

var inputNames = map[string]Input{
	"none":       InputNone,
	"turn_left":  InputTurnLeft,
	"left":       InputTurnLeft,
	"turn_right": InputTurnRight,
	"right":      InputTurnRight,
	"forward":    InputForward,
	"up":         InputForward,
}

// ParseInput converts an action name such as "forward" or "turn_left" into an Input
func ParseInput(s string) (Input, error) {
	in, ok := inputNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return InputNone, fmt.Errorf("unknown input %q", s)
	}
	return in, nil
}

func (in Input) String() string {
	switch in {
	case InputTurnLeft:
		return "turn_left"
	case InputTurnRight:
		return "turn_right"
	case InputForward:
		return "forward"
	}
	return "none"
}

// Outcome is the session's terminal-state progression
type Outcome int

const (
	Playing Outcome = iota
	PlayerDead
	PlayerLost
	PlayerWon
)

func (o Outcome) String() string {
	switch o {
	case Playing:
		return "playing"
	case PlayerDead:
		return "dead"
	case PlayerLost:
		return "lost"
	case PlayerWon:
		return "won"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{Playing, PlayerDead, PlayerLost, PlayerWon} {
		if string(text) == candidate.String() {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// CueKind identifies a one-shot feedback sound. Each kind owns one mixer channel.
type CueKind string

const (
	CueWallBump CueKind = "wall_bump"
	CueStep     CueKind = "step"
	CueDeath    CueKind = "death"
	CueLoss     CueKind = "loss"
	CueVictory  CueKind = "victory"
)

// CueKinds lists every one-shot cue in channel order
var CueKinds = []CueKind{CueWallBump, CueStep, CueDeath, CueLoss, CueVictory}

// Landmark identifies one of the two fixed sound sources
type Landmark string

const (
	LandmarkThreat Landmark = "threat"
	LandmarkExit   Landmark = "exit"
)

// Landmarks lists both landmarks in channel order
var Landmarks = []Landmark{LandmarkThreat, LandmarkExit}

// PlayerState is the player's cell and facing
type PlayerState struct {
	Cell        Cell        `json:"cell"`
	Orientation Orientation `json:"orientation"`
}

// Bearing is a landmark's direction relative to the player's facing.
// AngleDeg is 0 straight ahead and grows clockwise; it has no fixed range.
type Bearing struct {
	AngleDeg float64 `json:"angle_deg"`
	Distance float64 `json:"distance"`
}

// MixerParams are the polar positioning values handed to the mixer
type MixerParams struct {
	Angle    int   `json:"angle"`    // degrees in [0,360), 0 ahead, 90 right
	Distance uint8 `json:"distance"` // 0 nearest, 255 farthest
}

// LandmarkState is a landmark's fixed cell plus the bearing cache derived from PlayerState
type LandmarkState struct {
	ID      Landmark    `json:"id"`
	Cell    Cell        `json:"cell"`
	Bearing Bearing     `json:"bearing"`
	Mixer   MixerParams `json:"mixer"`
}

// LevelConfig describes the maze and its sounds, loaded from JSON
type LevelConfig struct {
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Layout           []string    `json:"layout"` // first row is the top (highest Y)
	Spawn            Cell        `json:"spawn"`
	SpawnOrientation Orientation `json:"spawn_orientation"`
	Threat           Cell        `json:"threat"`
	Exit             Cell        `json:"exit"`
	TurnIntervalMS   int         `json:"turn_interval_ms,omitempty"`
	Sounds           SoundConfig `json:"sounds"`
}

// TurnInterval returns the cooldown applied after a turn
func (c *LevelConfig) TurnInterval() time.Duration {
	if c.TurnIntervalMS <= 0 {
		return DefaultTurnInterval
	}
	return time.Duration(c.TurnIntervalMS) * time.Millisecond
}

// SoundConfig maps cues and ambient landmarks to their assets
type SoundConfig struct {
	Cues    map[CueKind]CueSound       `json:"cues"`
	Ambient map[Landmark]AmbientSound `json:"ambient"`
}

// CueSound is a one-shot sound. DurationMS is only used by backends that
// cannot measure the asset themselves (the narrator).
type CueSound struct {
	File       string `json:"file"`
	DurationMS int    `json:"duration_ms,omitempty"`
	Narration  string `json:"narration,omitempty"`
}

// Duration returns the declared playback length
func (s CueSound) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

// AmbientSound is a looping landmark sound
type AmbientSound struct {
	File      string  `json:"file"`
	Volume    float64 `json:"volume,omitempty"` // 0..1, 0 means full volume
	Narration string  `json:"narration,omitempty"`
}

// TurnRecord is one resolved action in the session transcript
type TurnRecord struct {
	Number      int           `json:"number"`
	Action      string        `json:"action"`
	From        Cell          `json:"from"`
	To          Cell          `json:"to"`
	Orientation Orientation   `json:"orientation"`
	Cue         CueKind       `json:"cue,omitempty"`
	Gate        time.Duration `json:"gate"`
	Outcome     Outcome       `json:"outcome"`
	Message     string        `json:"message"`
}

// Actions recorded in the transcript
const (
	ActionTurnLeft  = "turn_left"
	ActionTurnRight = "turn_right"
	ActionForward   = "forward"
	ActionBump      = "bump"
	ActionDeath     = "death"
	ActionLoss      = "loss"
	ActionVictory   = "victory"
)
