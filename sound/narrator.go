package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

// Narrator is an engine.AudioBackend that narrates instead of playing.
// Cue durations are those declared in the level so pacing is preserved.
type Narrator struct {
	mu        sync.Mutex
	sounds    engine.SoundConfig
	started   map[engine.Landmark]bool
	positions map[engine.Landmark]engine.MixerParams
	lines     []string
}

// NewNarrator creates a narrator for a level's sound configuration
func NewNarrator(sounds engine.SoundConfig) *Narrator {
	return &Narrator{
		sounds:    sounds,
		started:   make(map[engine.Landmark]bool),
		positions: make(map[engine.Landmark]engine.MixerParams),
	}
}

func (n *Narrator) StartAmbient(id engine.Landmark) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.sounds.Ambient[id]; !ok {
		return
	}
	n.started[id] = true
	n.lines = append(n.lines, fmt.Sprintf("You hear %s.", n.ambientName(id)))
}

func (n *Narrator) SetPosition(id engine.Landmark, params engine.MixerParams) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.positions[id] = params
}

func (n *Narrator) PlayCue(kind engine.CueKind) time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()

	cue, ok := n.sounds.Cues[kind]
	if !ok {
		return 0
	}

	line := cue.Narration
	if line == "" {
		line = fmt.Sprintf("*%s*", kind)
	}
	n.lines = append(n.lines, line)
	return cue.Duration()
}

// Drain returns the lines narrated since the last call
func (n *Narrator) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	lines := n.lines
	n.lines = nil
	return lines
}

// Listen describes where every started ambient sound currently comes from
func (n *Narrator) Listen() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []string
	for _, id := range engine.Landmarks {
		params, ok := n.positions[id]
		if !ok || !n.started[id] {
			continue
		}
		out = append(out, fmt.Sprintf("The %s is %s.", n.ambientName(id), Describe(params)))
	}
	return out
}

func (n *Narrator) ambientName(id engine.Landmark) string {
	if amb, ok := n.sounds.Ambient[id]; ok && amb.Narration != "" {
		return amb.Narration
	}
	return string(id)
}
