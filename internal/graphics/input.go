package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"portfolio-scene/internal/interaction"
)

var dragButtons = []struct {
	rl  rl.MouseButton
	btn interaction.Button
}{
	{rl.MouseButtonLeft, interaction.ButtonPrimary},
	{rl.MouseButtonMiddle, interaction.ButtonMiddle},
	{rl.MouseButtonRight, interaction.ButtonSecondary},
}

// Input polls raylib once per frame and feeds pointer, wheel and drag
// events into a hub.
type Input struct {
	hub       *interaction.Hub
	lastMouse rl.Vector2
	lastTouch rl.Vector2
	touching  bool
	primed    bool
}

// NewInput returns a poller emitting into hub.
func NewInput(hub *interaction.Hub) *Input {
	return &Input{hub: hub}
}

// Poll reads this frame's input. Call from the window loop before drawing.
func (in *Input) Poll() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())

	pos := rl.GetMousePosition()
	if !in.primed || pos != in.lastMouse {
		in.primed = true
		in.lastMouse = pos
		in.hub.EmitPointerMove(interaction.PointerEvent{X: pos.X, Y: pos.Y, Width: w, Height: h})
	}

	// raylib reports positive for wheel away from the user
	if dy := rl.GetMouseWheelMove(); dy != 0 {
		in.hub.EmitWheel(interaction.WheelEvent{DY: -dy})
	}

	mouseDown := false
	delta := rl.GetMouseDelta()
	for _, b := range dragButtons {
		if !rl.IsMouseButtonDown(b.rl) {
			continue
		}
		mouseDown = true
		if delta.X != 0 || delta.Y != 0 {
			in.hub.EmitDrag(interaction.DragEvent{Button: b.btn, DX: delta.X, DY: delta.Y})
		}
	}
	if mouseDown {
		in.touching = false
		return
	}

	if rl.GetTouchPointCount() != 1 {
		in.touching = false
		return
	}
	tp := rl.GetTouchPosition(0)
	if in.touching && tp != in.lastTouch {
		in.hub.EmitDrag(interaction.DragEvent{
			Button: interaction.ButtonTouch,
			DX:     tp.X - in.lastTouch.X,
			DY:     tp.Y - in.lastTouch.Y,
		})
	}
	in.touching = true
	in.lastTouch = tp
}
