package scenes

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/exhibitlabs/kiosk/client/fonts"
	"github.com/exhibitlabs/kiosk/client/input"
	"github.com/exhibitlabs/kiosk/pkg/intents"
	"github.com/exhibitlabs/kiosk/pkg/nowplaying"
)

// MenuEntry is one selectable row on the home menu.
type MenuEntry struct {
	Label  string
	Intent intents.Intent
	Slots  intents.Slots
}

// MenuScene is the kiosk home screen. Entries emit intents through the
// router so the menu never touches the scene manager directly.
type MenuScene struct {
	*BaseScene

	router  *intents.Router
	state   nowplaying.StateManager
	entries []MenuEntry
	ui      *ebitenui.UI
}

type MenuSceneOptions struct {
	Router  *intents.Router
	State   nowplaying.StateManager
	Entries []MenuEntry
}

var _ Scene = &MenuScene{}

func NewMenuScene(opts MenuSceneOptions) (Scene, error) {
	s := &MenuScene{
		BaseScene: &BaseScene{},
		router:    opts.Router,
		state:     opts.State,
		entries:   opts.Entries,
	}
	s.renderUI()
	return s, nil
}

func (s *MenuScene) renderUI() {
	buttonImage := &widget.ButtonImage{
		Idle:    image.NewNineSliceColor(color.NRGBA{R: 40, G: 44, B: 60, A: 255}),
		Hover:   image.NewNineSliceColor(color.NRGBA{R: 60, G: 66, B: 90, A: 255}),
		Pressed: image.NewNineSliceColor(color.NRGBA{R: 80, G: 90, B: 120, A: 255}),
	}

	fontFace := fonts.BodyFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(24),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    220,
				Left:   600,
				Right:  600,
				Bottom: 90,
			}))),
	)

	for _, entry := range s.entries {
		entry := entry
		button := widget.NewButton(
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
					Stretch:  true,
				}),
			),
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text(entry.Label, fontFace, &widget.ButtonTextColor{
				Idle:     color.NRGBA{254, 255, 255, 255},
				Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
			}),
			widget.ButtonOpts.TextPadding(widget.Insets{
				Left:   40,
				Right:  40,
				Top:    12,
				Bottom: 12,
			}),
		)
		button.ClickedEvent.AddHandler(func(args interface{}) {
			s.router.Emit(entry.Intent, entry.Slots)
		})
		rootContainer.AddChild(button)
	}

	s.ui = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (s *MenuScene) HandleEvent(event input.Event) bool {
	if event.Type == input.KeyPressed && event.Key == ebiten.KeyS {
		s.router.Emit(intents.IntentGoToSettings, nil)
		return true
	}
	return false
}

func (s *MenuScene) Update(dt float64) error {
	s.ui.Update()
	return nil
}

func (s *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 18, B: 28, A: 255})
	w := screen.Bounds().Dx()

	text.Draw(screen, "Exhibit Kiosk", fonts.TitleFont, w/2-260, 140, color.White)

	if s.state != nil {
		if track, ok := s.state.Get(); ok {
			line := "Now playing: " + track.Title + " - " + track.Artist
			text.Draw(screen, line, fonts.SmallFont, 40, screen.Bounds().Dy()-40, color.RGBA{R: 150, G: 200, B: 150, A: 255})
		}
	}

	s.ui.Draw(screen)
}
