package main

import (
	"fmt"
	"io"
	"time"

	"github.com/taigrr/softras/pkg/render"
)

// hud draws an overlay with frame rate and rasterizer statistics.
type hud struct {
	title     string
	visible   bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(title string) *hud {
	return &hud{title: title, visible: true, fpsTime: time.Now()}
}

// tick counts a frame; call once per frame.
func (h *hud) tick(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// status is what the bottom line reports.
type status struct {
	stats       render.Stats
	wireframe   bool
	perspective bool
}

// render writes the overlay to w using ANSI cursor addressing.
func (h *hud) render(w io.Writer, width, height int, st status) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Clear first so hiding the HUD erases it.
	fmt.Fprint(w, moveTo(1, 1)+clearLine)
	fmt.Fprint(w, moveTo(height, 1)+clearLine)
	if !h.visible {
		return
	}

	fmt.Fprintf(w, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Fprintf(w, "%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)

	tris := fmt.Sprintf(" %d/%d tris ", st.stats.Drawn, st.stats.Submitted)
	fmt.Fprintf(w, "%s%s%s%s%s%s", moveTo(1, max(width-len(tris), 1)), bgBlack, fgCyan, bold, tris, reset)

	fmt.Fprintf(w, "%s%s%s %s Wireframe  %s Perspective %s",
		moveTo(height, 1), bgBlack, fgWhite, check(st.wireframe), check(st.perspective), reset)

	hint := " WASD/RF move, arrows turn "
	fmt.Fprintf(w, "%s%s%s%s%s", moveTo(height, max(width-len(hint), 1)), bgBlack, dim, hint, reset)
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}
