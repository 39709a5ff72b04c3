package desktop

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
	"github.com/EmmaPrats/Sound-Only-Game/sound"
)

const (
	screenWidth  = 640
	screenHeight = 480
	noticeTime   = 2 * time.Second
)

// keyBindings maps keys to inputs; each input has a letter and an arrow
var keyBindings = []struct {
	keys  []ebiten.Key
	input engine.Input
}{
	{[]ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, engine.InputForward},
	{[]ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, engine.InputTurnLeft},
	{[]ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, engine.InputTurnRight},
}

// Game implements ebiten.Game over a single session
type Game struct {
	ctx       context.Context
	session   *session.Session
	showDebug bool

	notice      string
	noticeUntil time.Time
}

// NewGame creates the frontend for a running session
func NewGame(ctx context.Context, sess *session.Session) *Game {
	return &Game{ctx: ctx, session: sess}
}

// Run opens the window and blocks until the session ends or the player quits
func Run(ctx context.Context, sess *session.Session, debug bool) error {
	g := NewGame(ctx, sess)
	g.showDebug = debug

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(sess.Level.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(g)
}

// InputsFor returns the inputs whose keys were just pressed
func InputsFor(justPressed func(ebiten.Key) bool) []engine.Input {
	var inputs []engine.Input
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if justPressed(k) {
				inputs = append(inputs, b.input)
				break
			}
		}
	}
	return inputs
}

// Update runs one fixed-rate tick
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showDebug = !g.showDebug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyTranscript()
	}

	for _, in := range InputsFor(inpututil.IsKeyJustPressed) {
		g.session.Submit(in)
	}

	g.session.Tick(g.ctx, time.Second/time.Duration(ebiten.TPS()))

	if g.session.IsOver() {
		log.Printf("Session %s ended: %s", g.session.ID, g.session.Snapshot().Outcome)
		return ebiten.Termination
	}
	return nil
}

func (g *Game) copyTranscript() {
	text := FormatTranscript(g.session.History())
	if err := clipboard.WriteAll(text); err != nil {
		log.Printf("Failed to copy transcript: %v", err)
		g.flash("Clipboard unavailable")
		return
	}
	g.flash("Transcript copied")
}

func (g *Game) flash(msg string) {
	g.notice = msg
	g.noticeUntil = time.Now().Add(noticeTime)
}

// Draw leaves the screen dark unless the debug overlay is on
func (g *Game) Draw(screen *ebiten.Image) {
	if g.showDebug {
		ebitenutil.DebugPrint(screen, DebugText(g.session.Snapshot(), g.session.Level))
	}

	footer := "W/A/D or arrows: move | C: copy transcript | F1: debug | Esc: quit"
	if time.Now().Before(g.noticeUntil) {
		footer = g.notice
	}
	ebitenutil.DebugPrintAt(screen, footer, 10, screenHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// DebugText renders the maze with the player, threat and exit, followed by
// the session state
func DebugText(snap session.Snapshot, level *engine.LevelConfig) string {
	var b strings.Builder

	height := len(level.Layout)
	for row, line := range level.Layout {
		y := height - 1 - row
		cells := []byte(line)
		for x := range cells {
			switch (engine.Cell{X: x, Y: y}) {
			case snap.Player.Cell:
				cells[x] = playerGlyph(snap.Player.Orientation)
			case level.Threat:
				cells[x] = 'M'
			case level.Exit:
				cells[x] = 'X'
			}
		}
		b.Write(cells)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nPlayer %s facing %s\n", snap.Player.Cell, snap.Player.Orientation)
	for _, lm := range snap.Landmarks {
		fmt.Fprintf(&b, "%-6s angle %3d dist %3d  %s\n", lm.ID, lm.Mixer.Angle, lm.Mixer.Distance, sound.Describe(lm.Mixer))
	}
	fmt.Fprintf(&b, "Outcome %s  gate %v  turns %d\n", snap.Outcome, snap.Gate.Round(time.Millisecond), snap.Turns)
	fmt.Fprintf(&b, "%s\n", snap.Message)

	return b.String()
}

func playerGlyph(o engine.Orientation) byte {
	switch o {
	case engine.Up:
		return '^'
	case engine.Down:
		return 'v'
	case engine.Left:
		return '<'
	}
	return '>'
}

// FormatTranscript renders the turn history one action per line
func FormatTranscript(history []engine.TurnRecord) string {
	var b strings.Builder
	for _, rec := range history {
		fmt.Fprintf(&b, "%3d %-10s %s -> %s facing %s", rec.Number, rec.Action, rec.From, rec.To, rec.Orientation)
		if rec.Cue != "" {
			fmt.Fprintf(&b, " [%s]", rec.Cue)
		}
		fmt.Fprintf(&b, " %s\n", rec.Message)
	}
	return b.String()
}
