package graphics

import (
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window describes the native window. Zero Width/Height opens fullscreen;
// raylib then sizes the window to the monitor.
type Window struct {
	Title     string
	Width     int32
	Height    int32
	TargetFPS int32
	// OnClose runs after the last frame while the GL context is still alive.
	OnClose func()
}

// Run opens the window and runs the main loop until it is closed. Each frame it calls update
// (input polling), runs posted callbacks, then clears the screen, runs the frame callbacks
// requested on loop and finally calls draw (debug overlays).
func Run(win Window, loop *Loop, update, draw func()) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	w, h := win.Width, win.Height
	if w == 0 || h == 0 {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(w, h, win.Title)
	defer rl.CloseWindow()
	rl.SetExitKey(rl.KeyNull) // close via the window button only

	fps := win.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)

	for !rl.WindowShouldClose() {
		if update != nil {
			update()
		}
		loop.runPosted()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		loop.runFrames()
		if draw != nil {
			draw()
		}
		rl.EndDrawing()
	}
	if win.OnClose != nil {
		win.OnClose()
	}
}

// Resized reports the new window size when it changed since the last frame.
func Resized() (width, height int, ok bool) {
	if !rl.IsWindowResized() {
		return 0, 0, false
	}
	return rl.GetScreenWidth(), rl.GetScreenHeight(), true
}

// Loop is the main-thread callback queue the window loop drains. Frame
// callbacks requested during a frame run on the next one.
type Loop struct {
	mu     sync.Mutex
	frames []func()
	posted []func()
}

// NewLoop returns an empty queue.
func NewLoop() *Loop {
	return &Loop{}
}

// RequestFrame schedules fn for the next frame.
func (l *Loop) RequestFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Post schedules fn to run on the main thread before the next frame. Safe
// from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
}

// Pending returns the number of frame callbacks waiting.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func (l *Loop) runPosted() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

func (l *Loop) runFrames() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()
	for _, fn := range frames {
		fn()
	}
}

// Screen reads the window size; it implements scene.Viewport.
type Screen struct{}

func (Screen) Size() (int, int) { return rl.GetScreenWidth(), rl.GetScreenHeight() }
