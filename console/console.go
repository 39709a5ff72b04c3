package console

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/game/session"
	"github.com/EmmaPrats/Sound-Only-Game/sound"
)

const (
	tickRate     = 60
	maxLogLines  = 200
	endLinger    = 2 * time.Second
	headerHeight = 3
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHeader  = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDim     = styleDefault.Foreground(tcell.ColorGray)
)

// Console runs a session in a terminal, narrating through a sound.Narrator
type Console struct {
	screen   tcell.Screen
	session  *session.Session
	narrator *sound.Narrator
	log      []string
}

// New creates a console over an initialised screen. The session must have
// been created with narrator as its audio backend.
func New(screen tcell.Screen, sess *session.Session, narrator *sound.Narrator) *Console {
	screen.SetStyle(styleDefault)
	screen.Clear()
	return &Console{screen: screen, session: sess, narrator: narrator}
}

// InputForKey maps a key event to an input; quit reports Esc or Ctrl-C
func InputForKey(ev *tcell.EventKey) (in engine.Input, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return engine.InputNone, true
	case tcell.KeyUp:
		return engine.InputForward, false
	case tcell.KeyLeft:
		return engine.InputTurnLeft, false
	case tcell.KeyRight:
		return engine.InputTurnRight, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return engine.InputForward, false
		case 'a', 'A':
			return engine.InputTurnLeft, false
		case 'd', 'D':
			return engine.InputTurnRight, false
		case 'q', 'Q':
			return engine.InputNone, true
		}
	}
	return engine.InputNone, false
}

// Run ticks the session at a fixed rate until it ends, the player quits or
// ctx is cancelled
func (c *Console) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go c.pollEvents(events, quit)

	interval := time.Second / tickRate
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var endedAt time.Time
	c.refresh()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				in, stop := InputForKey(ev)
				if stop {
					return nil
				}
				if in != engine.InputNone {
					c.session.Submit(in)
				}
			case *tcell.EventResize:
				c.screen.Sync()
			}

		case <-ticker.C:
			c.session.Tick(ctx, interval)
			c.refresh()

			if c.session.IsOver() {
				if endedAt.IsZero() {
					endedAt = time.Now()
				} else if time.Since(endedAt) > endLinger {
					return nil
				}
			}
		}
	}
}

// pollEvents forwards terminal events until the screen is finalised or quit closes
func (c *Console) pollEvents(events chan<- tcell.Event, quit <-chan struct{}) {
	defer close(events)
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

func (c *Console) refresh() {
	c.log = append(c.log, c.narrator.Drain()...)
	if len(c.log) > maxLogLines {
		c.log = c.log[len(c.log)-maxLogLines:]
	}
	c.draw()
}

func (c *Console) draw() {
	c.screen.Clear()
	width, height := c.screen.Size()

	snap := c.session.Snapshot()
	c.drawText(0, 0, width, snap.Level, styleHeader)
	c.drawText(0, 1, width, "W/Up forward  A/Left turn left  D/Right turn right  Esc quit", styleDim)

	y := 2
	for _, line := range c.narrator.Listen() {
		if y >= headerHeight+1 {
			break
		}
		c.drawText(0, y, width, line, styleDim)
		y++
	}

	rows := height - headerHeight - 1
	if rows < 1 {
		c.screen.Show()
		return
	}
	start := 0
	if len(c.log) > rows {
		start = len(c.log) - rows
	}
	for i, line := range c.log[start:] {
		c.drawText(0, headerHeight+1+i, width, line, styleDefault)
	}

	c.screen.Show()
}

func (c *Console) drawText(x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
