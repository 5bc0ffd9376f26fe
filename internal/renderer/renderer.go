package renderer

import (
	"sync"

	"github.com/dshills/keytap/internal/editor"
	"github.com/dshills/keytap/internal/renderer/backend"
	"github.com/dshills/keytap/internal/renderer/core"
)

// DefaultHelp is the key summary drawn on the last row.
const DefaultHelp = "0-9 type  # case  ⌫ delete  ←→ move  c clear  y yank  q quit"

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// Options configures the renderer.
type Options struct {
	// ScrollMargin is the number of columns kept visible on either side
	// of the cursor when the text scrolls horizontally.
	ScrollMargin int

	// Help is drawn on the last row. Empty hides the row content.
	Help string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ScrollMargin: 4,
		Help:         DefaultHelp,
	}
}

// Frame is everything drawn in one render pass.
type Frame struct {
	View editor.View

	Status     string
	StatusType MessageType
}

// Renderer draws frames on a backend.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	width   int
	height  int

	// leftCol is the first buffer index visible on the text row.
	leftCol int

	frameCount uint64
}

// New creates a new renderer with the given backend and options.
func New(b backend.Backend, opts Options) *Renderer {
	width, height := b.Size()
	if opts.ScrollMargin < 0 {
		opts.ScrollMargin = 0
	}
	return &Renderer{
		opts:    opts,
		backend: b,
		width:   width,
		height:  height,
	}
}

// Resize handles terminal resize events.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width = width
	r.height = height
}

// LeftColumn returns the first buffer index visible on the text row.
func (r *Renderer) LeftColumn() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leftCol
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Render draws f and flushes it to the screen.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.Clear()
	if r.width <= 0 || r.height <= 0 {
		r.backend.Show()
		return
	}

	r.scrollTo(f.View.Cursor)
	r.renderText(f.View)
	r.renderFooter(f)

	r.backend.ShowCursor(f.View.Cursor-r.leftCol, 0)
	r.backend.Show()
	r.frameCount++
}

// scrollTo adjusts leftCol so cursor is on screen with the configured
// margin (must hold lock).
func (r *Renderer) scrollTo(cursor int) {
	margin := r.opts.ScrollMargin
	if limit := (r.width - 1) / 2; margin > limit {
		margin = limit
	}

	if cursor < r.leftCol+margin {
		r.leftCol = cursor - margin
	}
	if cursor > r.leftCol+r.width-1-margin {
		r.leftCol = cursor - r.width + 1 + margin
	}
	if r.leftCol < 0 {
		r.leftCol = 0
	}
}

// renderText draws the buffer on row 0 (must hold lock).
func (r *Renderer) renderText(v editor.View) {
	normal := core.DefaultStyle()
	preview := normal.Reverse()

	for x := 0; x < r.width; x++ {
		i := r.leftCol + x
		if i >= len(v.Runes) {
			break
		}
		style := normal
		if v.Composing && i == v.Cursor {
			style = preview
		}
		r.backend.SetCell(x, 0, core.NewStyledCell(v.Runes[i], style))
	}
}

// renderFooter draws the separator, case, status and help rows from the
// bottom up, skipping any that would overlap the text row (must hold lock).
func (r *Renderer) renderFooter(f Frame) {
	rows := []struct {
		offset int
		draw   func(y int)
	}{
		{1, func(y int) { r.drawString(y, r.opts.Help, core.DefaultStyle().Dim()) }},
		{2, func(y int) { r.drawString(y, f.Status, statusStyle(f.StatusType)) }},
		{3, func(y int) { r.drawString(y, f.View.Case.String(), core.DefaultStyle().Bold()) }},
		{4, func(y int) {
			r.backend.Fill(core.RectFromSize(y, 0, 1, r.width), core.NewStyledCell('─', core.DefaultStyle().Dim()))
		}},
	}

	for _, row := range rows {
		y := r.height - row.offset
		if y <= 0 {
			continue
		}
		row.draw(y)
	}
}

// drawString writes s at the start of row y, clipped to the screen width.
func (r *Renderer) drawString(y int, s string, style core.Style) {
	x := 0
	for _, ch := range s {
		if x >= r.width {
			return
		}
		cell := core.NewStyledCell(ch, style)
		r.backend.SetCell(x, y, cell)
		if cell.Width > 1 {
			x += cell.Width
		} else {
			x++
		}
	}
}

func statusStyle(t MessageType) core.Style {
	switch t {
	case MessageError:
		return core.DefaultStyle().Bold().WithForeground(core.ColorFromIndex(1))
	default:
		return core.DefaultStyle()
	}
}
