package scenes

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const DefaultTransitionDuration = 400 * time.Millisecond

// Direction selects which way the slide moves.
type Direction int

const (
	// DirectionForward slides the new scene in from the right.
	DirectionForward Direction = iota
	// DirectionBack slides the new scene in from the left.
	DirectionBack
)

func (d Direction) String() string {
	if d == DirectionBack {
		return "back"
	}
	return "forward"
}

// EaseOutCubic decelerates toward the end of the motion.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutCubic accelerates through the first half and decelerates through
// the second. Clamped so progress 0 and 1 map to exactly 0 and 1.
func EaseInOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Transition slides the outgoing scene off while the incoming scene slides
// on. Both scenes render into offscreen buffers each frame; the buffers are
// composited at eased offsets and released when the slide completes.
type Transition struct {
	from      Scene
	to        Scene
	fromName  string
	toName    string
	direction Direction
	duration  time.Duration
	startedAt time.Time
	width     int
	height    int

	fromBuf *ebiten.Image
	toBuf   *ebiten.Image

	// now is swappable for deterministic tests.
	now func() time.Time
}

type NewTransitionOptions struct {
	From      Scene
	To        Scene
	FromName  string
	ToName    string
	Direction Direction
	Duration  time.Duration
	Width     int
	Height    int
	Now       func() time.Time
}

func NewTransition(opts NewTransitionOptions) *Transition {
	if opts.Duration <= 0 {
		opts.Duration = DefaultTransitionDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	t := &Transition{
		from:      opts.From,
		to:        opts.To,
		fromName:  opts.FromName,
		toName:    opts.ToName,
		direction: opts.Direction,
		duration:  opts.Duration,
		width:     opts.Width,
		height:    opts.Height,
		now:       opts.Now,
	}
	t.startedAt = t.now()
	t.fromBuf = ebiten.NewImage(opts.Width, opts.Height)
	t.toBuf = ebiten.NewImage(opts.Width, opts.Height)
	return t
}

// Progress returns the raw (un-eased) progress in [0, 1].
func (t *Transition) Progress() float64 {
	elapsed := t.now().Sub(t.startedAt)
	p := float64(elapsed) / float64(t.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Done reports whether the slide has run its full duration.
func (t *Transition) Done() bool {
	return t.Progress() >= 1
}

// To returns the incoming scene.
func (t *Transition) To() Scene {
	return t.to
}

// From returns the outgoing scene.
func (t *Transition) From() Scene {
	return t.from
}

// ToName returns the incoming scene's name.
func (t *Transition) ToName() string {
	return t.toName
}

// FromName returns the outgoing scene's name.
func (t *Transition) FromName() string {
	return t.fromName
}

// Update advances both participating scenes so the incoming scene animates
// while it slides in.
func (t *Transition) Update(dt float64) {
	if t.from != nil {
		if err := t.from.Update(dt); err != nil {
			logSceneError("update", t.fromName, err)
		}
	}
	if t.to != nil {
		if err := t.to.Update(dt); err != nil {
			logSceneError("update", t.toName, err)
		}
	}
}

// Draw renders both scenes into their buffers and composites them at offsets
// derived from the eased progress.
func (t *Transition) Draw(screen *ebiten.Image) {
	eased := EaseInOutCubic(t.Progress())
	offset := eased * float64(t.width)

	var fromX, toX float64
	if t.direction == DirectionForward {
		fromX = -offset
		toX = float64(t.width) - offset
	} else {
		fromX = offset
		toX = -float64(t.width) + offset
	}

	if t.from != nil {
		t.fromBuf.Clear()
		t.from.Draw(t.fromBuf)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(fromX, 0)
		screen.DrawImage(t.fromBuf, op)
	}
	if t.to != nil {
		t.toBuf.Clear()
		t.to.Draw(t.toBuf)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(toX, 0)
		screen.DrawImage(t.toBuf, op)
	}
}

// Complete releases the offscreen buffers. The transition must not be drawn
// afterwards.
func (t *Transition) Complete() {
	if t.fromBuf != nil {
		t.fromBuf.Deallocate()
		t.fromBuf = nil
	}
	if t.toBuf != nil {
		t.toBuf.Deallocate()
		t.toBuf = nil
	}
}
