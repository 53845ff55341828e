// Package tui draws the particle field in a terminal with tcell.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/plife/game"
)

// frameInterval paces the terminal loop at about 30 frames per second.
const frameInterval = 33 * time.Millisecond

// Renderer maps the field onto terminal cells. The bottom row holds a status line.
type Renderer struct {
	screen tcell.Screen
	styles map[color.RGBA]tcell.Style
}

// NewRenderer creates a renderer drawing on an initialized screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		styles: make(map[color.RGBA]tcell.Style),
	}
}

// Cell returns the terminal cell for a world position. Row 0 is the top of
// the terminal, so world y grows upward. ok is false if the screen has no room.
func Cell(x, y, worldW, worldH float64, cols, rows int) (cx, cy int, ok bool) {
	if cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	cx = int(x / worldW * float64(cols))
	cy = rows - 1 - int(y/worldH*float64(rows))
	return clampInt(cx, cols), clampInt(cy, rows), true
}

// Draw renders particles and the status line, then shows the frame.
func (r *Renderer) Draw(particles []game.RenderParticle, worldW, worldH float64, status string) {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	fieldRows := rows - 1

	for _, p := range particles {
		cx, cy, ok := Cell(p.Pos.X, p.Pos.Y, worldW, worldH, cols, fieldRows)
		if !ok {
			break
		}
		r.screen.SetContent(cx, cy, p.Shape.Glyph(), nil, r.style(p.Color))
	}

	if rows > 0 {
		statusStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		for i, ch := range []rune(status) {
			if i >= cols {
				break
			}
			r.screen.SetContent(i, rows-1, ch, nil, statusStyle)
		}
	}
	r.screen.Show()
}

func (r *Renderer) style(c color.RGBA) tcell.Style {
	s, ok := r.styles[c]
	if !ok {
		s = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		r.styles[c] = s
	}
	return s
}

// HandleEvent applies a terminal event to the controls and reports whether
// the loop should stop.
func HandleEvent(ev tcell.Event, controls *game.Controls, screen tcell.Screen) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case ' ':
				controls.Paused = !controls.Paused
			case 'r':
				controls.Reset = true
			}
		}
	case *tcell.EventResize:
		screen.Sync()
	}
	return false
}

// Run drives g until q/Esc, ctx cancellation, or exactly maxTicks ticks
// (0 = keep the game's own limit).
// Events are polled on a separate goroutine; only this loop touches g.
func Run(ctx context.Context, g *game.Game, screen tcell.Screen, maxTicks int) error {
	if maxTicks > 0 {
		g.SetMaxTicks(maxTicks)
	}

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	r := NewRenderer(screen)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	var particles []game.RenderParticle
	w, h := g.Field().Width(), g.Field().Height()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if HandleEvent(ev, g.Controls(), screen) {
				return nil
			}

		case <-ticker.C:
			g.Update()
			particles = g.Snapshot(particles)
			r.Draw(particles, w, h, status(g))

			if g.Done() {
				return nil
			}
		}
	}
}

func status(g *game.Game) string {
	state := "running"
	if g.Paused() {
		state = "paused"
	}
	return fmt.Sprintf(" tick %d | %d particles | %s | space: pause  r: reset  q: quit",
		g.Tick(), g.Field().Len(), state)
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
