package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/fieldscope/engine/core"
	"github.com/spaghettifunk/fieldscope/engine/math"
)

const pathSeparator = "/"

// Console renders widgets as text, one frame at a time. Values are edited by
// queueing them against a widget path: tree node labels and the widget label
// joined by "/". A queued edit is applied the next time that widget is drawn.
type Console struct {
	out      io.Writer
	renderer *lipgloss.Renderer

	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style

	lines    []string
	sameLine bool
	stack    []string

	columns int
	cells   []string
	cell    int

	mu        sync.Mutex
	edits     map[string]interface{}
	collapsed map[string]bool
}

func NewConsole(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:       out,
		renderer:  r,
		header:    r.NewStyle().Bold(true),
		label:     r.NewStyle().Faint(true),
		value:     r.NewStyle().Foreground(lipgloss.Color("#00B2B2")),
		edits:     make(map[string]interface{}),
		collapsed: make(map[string]bool),
	}
}

// Queue schedules value for the widget at path. Safe to call from any goroutine.
func (c *Console) Queue(path string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits[path] = value
}

// SetCollapsed closes or opens the tree node at path.
func (c *Console) SetCollapsed(path string, collapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collapsed[path] = collapsed
}

func (c *Console) Begin() {
	c.lines = c.lines[:0]
	c.stack = c.stack[:0]
	c.sameLine = false
	c.columns = 0
	c.cells = nil
}

// End writes the frame and returns the text that was written.
func (c *Console) End() (string, error) {
	c.flushColumns()
	frame := strings.Join(c.lines, "\n") + "\n"
	if _, err := io.WriteString(c.out, frame); err != nil {
		return frame, err
	}
	return frame, nil
}

func (c *Console) path(label string) string {
	return strings.Join(append(append([]string{}, c.stack...), label), pathSeparator)
}

func (c *Console) takeEdit(label string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.path(label)
	v, ok := c.edits[p]
	if ok {
		delete(c.edits, p)
	}
	return v, ok
}

func (c *Console) emit(text string) {
	if c.columns > 1 {
		if c.cells[c.cell] != "" {
			c.cells[c.cell] += " "
		}
		c.cells[c.cell] += text
		return
	}
	if c.sameLine && len(c.lines) > 0 {
		c.lines[len(c.lines)-1] += "  " + text
		c.sameLine = false
		return
	}
	c.sameLine = false
	c.lines = append(c.lines, strings.Repeat("  ", len(c.stack))+text)
}

func (c *Console) TreeNode(label string) bool {
	c.mu.Lock()
	open := !c.collapsed[c.path(label)]
	c.mu.Unlock()

	marker := "▾"
	if !open {
		marker = "▸"
	}
	c.emit(c.header.Render(marker + " " + label))
	if open {
		c.stack = append(c.stack, label)
	}
	return open
}

func (c *Console) TreePop() {
	if len(c.stack) == 0 {
		core.LogWarn("TreePop without a matching TreeNode")
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Console) Checkbox(label string, v *bool) bool {
	changed := false
	if edit, ok := c.takeEdit(label); ok {
		if b, ok := edit.(bool); ok {
			changed = b != *v
			*v = b
		} else {
			core.LogWarn("ignoring %T edit for checkbox %s", edit, c.path(label))
		}
	}
	box := "[ ]"
	if *v {
		box = "[x]"
	}
	c.emit(box + " " + c.label.Render(label))
	return changed
}

func (c *Console) SameLine() {
	c.sameLine = true
}

func (c *Console) ColorEdit3(label string, col *mgl32.Vec3) bool {
	changed := false
	if edit, ok := c.takeEdit(label); ok {
		if v, ok := edit.(mgl32.Vec3); ok {
			for i := range v {
				v[i] = math.Clamp(v[i], 0, 1)
			}
			changed = v != *col
			*col = v
		} else {
			core.LogWarn("ignoring %T edit for color %s", edit, c.path(label))
		}
	}
	cf := colorful.Color{R: float64(col[0]), G: float64(col[1]), B: float64(col[2])}
	swatch := c.renderer.NewStyle().Foreground(lipgloss.Color(cf.Clamped().Hex())).Render("■")
	c.emit(fmt.Sprintf("%s %s %s", swatch, c.label.Render(label), cf.Clamped().Hex()))
	return changed
}

func (c *Console) SliderFloat(label string, v *float32, min, max float32, format string, power float32) bool {
	changed := false
	if edit, ok := c.takeEdit(label); ok {
		if f, ok := edit.(float32); ok {
			f = math.Clamp(f, min, max)
			changed = f != *v
			*v = f
		} else {
			core.LogWarn("ignoring %T edit for slider %s", edit, c.path(label))
		}
	}
	c.emit(fmt.Sprintf("%s %s", c.label.Render(label+":"), c.value.Render(fmt.Sprintf(format, *v))))
	return changed
}

func (c *Console) TextUnformatted(text string) {
	c.emit(text)
}

func (c *Console) Text(format string, args ...interface{}) {
	c.emit(fmt.Sprintf(format, args...))
}

func (c *Console) Columns(n int) {
	c.flushColumns()
	if n > 1 {
		c.columns = n
		c.cells = make([]string, n)
		c.cell = 0
	}
}

func (c *Console) NextColumn() {
	if c.columns <= 1 {
		return
	}
	c.cell++
	if c.cell == c.columns {
		c.flushRow()
	}
}

func (c *Console) flushRow() {
	row := lipgloss.JoinHorizontal(lipgloss.Top, padCells(c.cells)...)
	c.lines = append(c.lines, strings.Repeat("  ", len(c.stack))+strings.TrimRight(row, " "))
	c.cells = make([]string, c.columns)
	c.cell = 0
}

func (c *Console) flushColumns() {
	if c.columns > 1 {
		for _, cell := range c.cells {
			if cell != "" {
				c.flushRow()
				break
			}
		}
	}
	c.columns = 0
	c.cells = nil
}

func padCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		if i < len(cells)-1 {
			out[i] = lipgloss.NewStyle().PaddingRight(2).Render(cell)
		} else {
			out[i] = cell
		}
	}
	return out
}
