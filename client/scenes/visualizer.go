package scenes

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/exhibitlabs/kiosk/client/fonts"
	"github.com/exhibitlabs/kiosk/client/input"
	"github.com/exhibitlabs/kiosk/pkg/intents"
	"github.com/exhibitlabs/kiosk/pkg/nowplaying"
)

const visualizerBars = 48

// VisualizerScene renders animated bars synthesized from the elapsed time
// and shows the current track. It is the heaviest scene to construct, so it
// is registered lazily and preloaded in the background.
type VisualizerScene struct {
	*BaseScene

	router  *intents.Router
	state   nowplaying.StateManager
	elapsed float64
	paused  bool
	bars    [visualizerBars]float64
}

type VisualizerSceneOptions struct {
	Router *intents.Router
	State  nowplaying.StateManager
}

var _ Scene = &VisualizerScene{}

func NewVisualizerScene(opts VisualizerSceneOptions) (Scene, error) {
	return &VisualizerScene{
		BaseScene: &BaseScene{},
		router:    opts.Router,
		state:     opts.State,
	}, nil
}

func (s *VisualizerScene) OnPause() error {
	s.paused = true
	return nil
}

func (s *VisualizerScene) OnResume() error {
	s.paused = false
	return nil
}

func (s *VisualizerScene) HandleEvent(event input.Event) bool {
	if event.Type != input.KeyPressed {
		return false
	}
	switch event.Key {
	case ebiten.KeySpace:
		if s.paused {
			s.router.Emit(intents.IntentResume, nil)
		} else {
			s.router.Emit(intents.IntentPause, nil)
		}
		s.paused = !s.paused
		return true
	case ebiten.KeyRight:
		s.router.Emit(intents.IntentNext, nil)
		return true
	case ebiten.KeyLeft:
		s.router.Emit(intents.IntentPrevious, nil)
		return true
	}
	return false
}

func (s *VisualizerScene) Update(dt float64) error {
	if s.paused {
		return nil
	}
	s.elapsed += dt
	for i := range s.bars {
		phase := s.elapsed*2.4 + float64(i)*0.37
		s.bars[i] = 0.5 + 0.5*math.Sin(phase)*math.Cos(phase*0.7)
	}
	return nil
}

func (s *VisualizerScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 8, G: 8, B: 14, A: 255})
	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())

	barWidth := w / float64(visualizerBars)
	for i, v := range s.bars {
		barHeight := v * h * 0.6
		x := float64(i) * barWidth
		y := h - barHeight - 120
		c := color.RGBA{R: uint8(60 + v*180), G: 80, B: uint8(200 - v*120), A: 255}
		vector.DrawFilledRect(screen, float32(x+2), float32(y), float32(barWidth-4), float32(barHeight), c, false)
	}

	if s.state != nil {
		if track, ok := s.state.Get(); ok {
			text.Draw(screen, track.Title, fonts.BodyFont, 40, 80, color.White)
			text.Draw(screen, track.Artist, fonts.SmallFont, 40, 120, color.RGBA{R: 170, G: 170, B: 180, A: 255})
		} else {
			text.Draw(screen, "Nothing playing", fonts.SmallFont, 40, 80, color.RGBA{R: 120, G: 120, B: 130, A: 255})
		}
	}
	if s.paused {
		text.Draw(screen, "Paused", fonts.SmallFont, int(w)-140, 80, color.RGBA{R: 220, G: 180, B: 80, A: 255})
	}
}
