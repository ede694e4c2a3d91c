package interaction

// PointerEvent is a pointer position in client pixels plus the viewport size
// at the time of the event.
type PointerEvent struct {
	X, Y          float32
	Width, Height float32
}

// WheelEvent carries one wheel step. Positive DY scrolls toward the user.
type WheelEvent struct {
	DY float32
}

// Button identifies the pointer that produced a drag.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
	ButtonTouch
)

// DragEvent is pointer motion while a button (or touch) is held.
type DragEvent struct {
	Button Button
	DX, DY float32
}

// Hub is the listener registry the host feeds from polled input. Each On*
// call returns a func that removes exactly that listener.
type Hub struct {
	nextID  int
	pointer map[int]func(PointerEvent)
	wheel   map[int]func(WheelEvent)
	drag    map[int]func(DragEvent)
}

// NewHub returns a hub with no listeners.
func NewHub() *Hub {
	return &Hub{
		pointer: make(map[int]func(PointerEvent)),
		wheel:   make(map[int]func(WheelEvent)),
		drag:    make(map[int]func(DragEvent)),
	}
}

func (h *Hub) id() int {
	h.nextID++
	return h.nextID
}

func (h *Hub) OnPointerMove(fn func(PointerEvent)) (remove func()) {
	id := h.id()
	h.pointer[id] = fn
	return func() { delete(h.pointer, id) }
}

func (h *Hub) OnWheel(fn func(WheelEvent)) (remove func()) {
	id := h.id()
	h.wheel[id] = fn
	return func() { delete(h.wheel, id) }
}

func (h *Hub) OnDrag(fn func(DragEvent)) (remove func()) {
	id := h.id()
	h.drag[id] = fn
	return func() { delete(h.drag, id) }
}

func (h *Hub) EmitPointerMove(e PointerEvent) {
	for _, fn := range h.pointer {
		fn(e)
	}
}

func (h *Hub) EmitWheel(e WheelEvent) {
	for _, fn := range h.wheel {
		fn(e)
	}
}

func (h *Hub) EmitDrag(e DragEvent) {
	for _, fn := range h.drag {
		fn(e)
	}
}

// Len returns the number of registered listeners of every kind.
func (h *Hub) Len() int {
	return len(h.pointer) + len(h.wheel) + len(h.drag)
}
