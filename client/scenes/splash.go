package scenes

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/exhibitlabs/kiosk/client/fonts"
	"github.com/exhibitlabs/kiosk/client/input"
)

// SplashScene shows a loading banner while the remaining scenes preload in
// the background, then hands off to the default scene.
type SplashScene struct {
	*BaseScene

	title   string
	preload func(progress ProgressFunc) <-chan struct{}
	onDone  func()
	done    <-chan struct{}
	// loaded/total are written by the preload goroutine and read by Draw on
	// the main loop, so access goes through sync/atomic.
	loaded        int64
	total         int64
	finished      bool
	elapsed       float64
	selectPressed func() bool
}

type SplashSceneOptions struct {
	Title string
	// Preload starts the background batch and returns its completion channel.
	Preload func(progress ProgressFunc) <-chan struct{}
	// OnDone is called once when preloading completes.
	OnDone func()
}

var _ Scene = &SplashScene{}

func NewSplashScene(opts SplashSceneOptions) (Scene, error) {
	return &SplashScene{
		BaseScene:     &BaseScene{},
		title:         opts.Title,
		preload:       opts.Preload,
		onDone:        opts.OnDone,
		selectPressed: input.IsSelectJustPressed,
	}, nil
}

func (s *SplashScene) OnEnter() error {
	if s.preload != nil && s.done == nil {
		s.done = s.preload(func(done, total int) {
			atomic.StoreInt64(&s.loaded, int64(done))
			atomic.StoreInt64(&s.total, int64(total))
		})
	}
	return nil
}

// Progress returns how many scenes of the batch have loaded so far.
func (s *SplashScene) Progress() (loaded, total int) {
	return int(atomic.LoadInt64(&s.loaded)), int(atomic.LoadInt64(&s.total))
}

func (s *SplashScene) Update(dt float64) error {
	s.elapsed += dt
	if s.finished {
		return nil
	}
	if s.selectPressed != nil && s.selectPressed() {
		// Select skips ahead; the preload keeps running in the background.
		s.finish()
		return nil
	}
	if s.done == nil {
		return nil
	}
	select {
	case <-s.done:
		s.finish()
	default:
	}
	return nil
}

func (s *SplashScene) finish() {
	s.finished = true
	if s.onDone != nil {
		s.onDone()
	}
}

func (s *SplashScene) HandleEvent(event input.Event) bool {
	// The splash screen ignores input; nothing to interact with yet.
	return false
}

func (s *SplashScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 20, A: 255})
	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()

	text.Draw(screen, s.title, fonts.TitleFont, w/2-220, h/2-40, color.White)

	loaded, total := s.Progress()
	status := "Loading..."
	if total > 0 {
		status = fmt.Sprintf("Loading %d/%d", loaded, total)
	}
	text.Draw(screen, status, fonts.SmallFont, w/2-60, h/2+40, color.RGBA{R: 160, G: 160, B: 170, A: 255})
}
