package animation

import (
	"github.com/chewxy/math32"

	"portfolio-scene/internal/scenegraph"
)

// Loop is how an action behaves when it reaches the end of its clip.
type Loop int

const (
	LoopRepeat Loop = iota
	LoopOnce
)

// Action is the playback state of one clip.
type Action struct {
	Clip    scenegraph.Clip
	Loop    Loop
	Time    float32
	playing bool
}

// Play starts (or resumes) the action.
func (a *Action) Play() *Action {
	a.playing = true
	return a
}

// Stop halts the action and rewinds it.
func (a *Action) Stop() {
	a.playing = false
	a.Time = 0
}

// Playing reports whether Update advances this action.
func (a *Action) Playing() bool { return a.playing }

func (a *Action) advance(dt float32) {
	if !a.playing {
		return
	}
	a.Time += dt
	d := a.Clip.Duration
	if d <= 0 {
		return
	}
	switch a.Loop {
	case LoopOnce:
		if a.Time >= d {
			a.Time = d
			a.playing = false
		}
	default:
		a.Time = math32.Mod(a.Time, d)
	}
}

// Mixer advances the clips bound to one sub-graph root.
type Mixer struct {
	Root    string
	actions []*Action
	time    float32
}

// NewMixer returns a mixer bound to root (empty for the whole graph).
func NewMixer(root string) *Mixer {
	return &Mixer{Root: root}
}

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip scenegraph.Clip) *Action {
	for _, a := range m.actions {
		if a.Clip.Name == clip.Name {
			return a
		}
	}
	a := &Action{Clip: clip}
	m.actions = append(m.actions, a)
	return a
}

// Actions returns the actions in creation order.
func (m *Mixer) Actions() []*Action { return m.actions }

// Update advances the mixer clock and every playing action by dt seconds.
func (m *Mixer) Update(dt float32) {
	if dt <= 0 {
		return
	}
	m.time += dt
	for _, a := range m.actions {
		a.advance(dt)
	}
}

// Time is the total time the mixer has been advanced.
func (m *Mixer) Time() float32 { return m.time }

// ForAsset builds a mixer for the selection with every clip playing. Clips
// named in once play a single time; all others loop. It returns nil when the
// asset has no clips.
func ForAsset(a *scenegraph.Asset, sel scenegraph.Selection, once []string) *Mixer {
	if a == nil || len(a.Clips) == 0 {
		return nil
	}
	oneShot := make(map[string]bool, len(once))
	for _, n := range once {
		oneShot[n] = true
	}
	m := NewMixer(sel.Name)
	for _, clip := range a.Clips {
		act := m.ClipAction(clip)
		if oneShot[clip.Name] {
			act.Loop = LoopOnce
		}
		act.Play()
	}
	return m
}
