package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EventType classifies a discrete input event.
type EventType int

const (
	// KeyPressed is a key that went down this tick.
	KeyPressed EventType = iota
	// PointerPressed is a mouse click or touch that began this tick.
	PointerPressed
)

// Event is a discrete input event handed to the active scene.
type Event struct {
	Type EventType
	Key  ebiten.Key
	X    int
	Y    int
}

// Poll appends this tick's discrete events to buf and returns it.
// Pass buf[:0] each tick to reuse the backing array.
func Poll(buf []Event) []Event {
	keys := inpututil.AppendJustPressedKeys(nil)
	for _, key := range keys {
		buf = append(buf, Event{Type: KeyPressed, Key: key})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		buf = append(buf, Event{Type: PointerPressed, X: x, Y: y})
	}

	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	for _, id := range touchIDs {
		x, y := ebiten.TouchPosition(id)
		buf = append(buf, Event{Type: PointerPressed, X: x, Y: y})
	}

	return buf
}

// IsBackJustPressed returns whether the generic back input is just pressed.
func IsBackJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// IsSelectJustPressed returns whether the generic select input is just
// pressed. This is used to handle both keyboard and touch inputs.
func IsSelectJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	return len(touchIDs) > 0
}
