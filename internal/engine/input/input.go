// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/hexview/internal/engine/camera"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int32
	Height int32
	Button uint8
}

// Input polls SDL events once per frame and accumulates mouse motion.
type Input struct {
	events []Event

	mouseDX float32
	mouseDY float32
	scroll  float32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. It returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.mouseDX, i.mouseDY, i.scroll = 0, 0, 0

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  e.Data1,
					Height: e.Data2,
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
			switch e.Type {
			case sdl.KEYDOWN:
				ev.Type = EventKeyDown
			case sdl.KEYUP:
				ev.Type = EventKeyUp
			default:
				continue
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			// Screen y grows downwards; the camera pitches up for positive dy.
			i.mouseDX += float32(e.XRel)
			i.mouseDY -= float32(e.YRel)

		case *sdl.MouseWheelEvent:
			i.scroll += float32(e.Y)

		case *sdl.MouseButtonEvent:
			ev := Event{Button: e.Button}
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				ev.Type = EventMouseDown
			case sdl.MOUSEBUTTONUP:
				ev.Type = EventMouseUp
			default:
				continue
			}
			i.events = append(i.events, ev)
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether scancode went down this frame, ignoring
// key repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	return KeyPressed(i.events, scancode)
}

// MouseDelta returns the accumulated relative motion of the last Update.
func (i *Input) MouseDelta() (dx, dy float32) {
	return i.mouseDX, i.mouseDY
}

// Scroll returns the accumulated wheel motion of the last Update.
func (i *Input) Scroll() float32 {
	return i.scroll
}

// Movement maps the currently held keys to camera movement.
func (i *Input) Movement() camera.Movement {
	state := sdl.GetKeyboardState()
	return MovementFrom(func(sc sdl.Scancode) bool {
		return int(sc) < len(state) && state[sc] != 0
	})
}

// KeyPressed reports whether events contain a non-repeat key down for
// scancode.
func KeyPressed(events []Event, scancode sdl.Scancode) bool {
	for _, e := range events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// movementKeys is the viewer's key layout.
var movementKeys = []struct {
	key  sdl.Scancode
	move camera.Movement
}{
	{sdl.SCANCODE_W, camera.MoveForward},
	{sdl.SCANCODE_S, camera.MoveBackward},
	{sdl.SCANCODE_A, camera.MoveLeft},
	{sdl.SCANCODE_D, camera.MoveRight},
	{sdl.SCANCODE_SPACE, camera.MoveUp},
	{sdl.SCANCODE_LCTRL, camera.MoveDown},
	{sdl.SCANCODE_LSHIFT, camera.MoveBoost},
	{sdl.SCANCODE_RSHIFT, camera.MoveBoost},
}

// MovementFrom builds the movement mask from a key-held predicate.
func MovementFrom(held func(sdl.Scancode) bool) camera.Movement {
	var m camera.Movement
	for _, k := range movementKeys {
		if held(k.key) {
			m |= k.move
		}
	}
	return m
}
