package sound

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

// SampleRate is the rate of the audio context the mixer expects
const SampleRate = 44100

type cueChannel struct {
	player   *audio.Player
	duration time.Duration
}

type ambientChannel struct {
	stream *pannedStream
	player *audio.Player
}

// Mixer is an engine.AudioBackend playing WAV assets through ebiten audio.
// Each cue kind owns one player that is rewound on retrigger; each ambient
// landmark owns one looping player panned by SetPosition.
type Mixer struct {
	mu      sync.Mutex
	cues    map[engine.CueKind]*cueChannel
	ambient map[engine.Landmark]*ambientChannel
}

// NewMixer loads every asset of a level from assetsDir. Assets that fail to
// load are logged and skipped: their cues report a zero duration and their
// ambient channels stay silent.
func NewMixer(ctx *audio.Context, assetsDir string, sounds engine.SoundConfig) *Mixer {
	m := &Mixer{
		cues:    make(map[engine.CueKind]*cueChannel),
		ambient: make(map[engine.Landmark]*ambientChannel),
	}

	for kind, cue := range sounds.Cues {
		pcm, err := LoadPCM(ctx.SampleRate(), filepath.Join(assetsDir, cue.File))
		if err != nil {
			log.Printf("Warning: cue %s unavailable: %v", kind, err)
			continue
		}
		m.cues[kind] = &cueChannel{
			player:   ctx.NewPlayerFromBytes(pcm),
			duration: PCMDuration(len(pcm), ctx.SampleRate()),
		}
	}

	for id, amb := range sounds.Ambient {
		pcm, err := LoadPCM(ctx.SampleRate(), filepath.Join(assetsDir, amb.File))
		if err != nil {
			log.Printf("Warning: ambient %s unavailable: %v", id, err)
			continue
		}
		stream := newPannedStream(pcm, EffectiveVolume(amb.Volume))
		player, err := ctx.NewPlayer(stream)
		if err != nil {
			log.Printf("Warning: ambient %s player: %v", id, err)
			continue
		}
		m.ambient[id] = &ambientChannel{stream: stream, player: player}
	}

	return m
}

func (m *Mixer) StartAmbient(id engine.Landmark) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.ambient[id]; ok {
		ch.player.Play()
	}
}

func (m *Mixer) SetPosition(id engine.Landmark, params engine.MixerParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.ambient[id]; ok {
		ch.stream.SetGains(Gains(params))
	}
}

func (m *Mixer) PlayCue(kind engine.CueKind) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.cues[kind]
	if !ok {
		return 0
	}
	if err := ch.player.Rewind(); err != nil {
		log.Printf("Warning: rewinding cue %s: %v", kind, err)
	}
	ch.player.Play()
	return ch.duration
}

// Close stops and releases every player
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, ch := range m.cues {
		if err := ch.player.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, ch := range m.ambient {
		if err := ch.player.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LoadPCM decodes a WAV file into 16-bit little-endian stereo PCM at sampleRate
func LoadPCM(sampleRate int, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, err := wav.DecodeWithSampleRate(sampleRate, f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return pcm, nil
}

// PCMDuration returns the playback length of n bytes of stereo 16-bit PCM
func PCMDuration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	frames := n / frameBytes
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
