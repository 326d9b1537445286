// Package ui defines the immediate-mode widget calls quantities use to build
// their controls, and a console driver that renders them as styled text.
package ui

import "github.com/go-gl/mathgl/mgl32"

// GUI is an immediate-mode widget API. Widgets that edit a value return true
// on the frame the value changed.
type GUI interface {
	TreeNode(label string) bool
	TreePop()
	Checkbox(label string, v *bool) bool
	SameLine()
	ColorEdit3(label string, c *mgl32.Vec3) bool
	// SliderFloat edits v within [min, max]. Power > 1 gives finer control
	// near min.
	SliderFloat(label string, v *float32, min, max float32, format string, power float32) bool
	TextUnformatted(text string)
	Text(format string, args ...interface{})
	// Columns switches to an n column layout; Columns(1) returns to a single
	// column.
	Columns(n int)
	NextColumn()
}
