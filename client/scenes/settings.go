package scenes

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/exhibitlabs/kiosk/client/fonts"
	"github.com/exhibitlabs/kiosk/client/input"
	"github.com/exhibitlabs/kiosk/pkg/intents"
)

// SettingsScene lets visitors pick the display language and adjust the
// output volume. Changes are emitted as intents; the shell applies them.
type SettingsScene struct {
	*BaseScene

	router    *intents.Router
	languages []string
	language  string
	volume    int
	ui        *ebitenui.UI
}

type SettingsSceneOptions struct {
	Router    *intents.Router
	Languages []string
	Language  string
	Volume    int
}

var _ Scene = &SettingsScene{}

func NewSettingsScene(opts SettingsSceneOptions) (Scene, error) {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	if opts.Language == "" {
		opts.Language = opts.Languages[0]
	}
	s := &SettingsScene{
		BaseScene: &BaseScene{},
		router:    opts.Router,
		languages: opts.Languages,
		language:  opts.Language,
		volume:    opts.Volume,
	}
	s.renderUI()
	return s, nil
}

func (s *SettingsScene) renderUI() {
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
				Top:    240,
				Left:   560,
				Right:  560,
				Bottom: 90,
			}))),
	)

	newButton := func(label string, onClick func()) *widget.Button {
		button := widget.NewButton(
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionCenter,
					Stretch:  true,
				}),
			),
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text(label, fontFace, &widget.ButtonTextColor{
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
			onClick()
		})
		return button
	}

	rootContainer.AddChild(newButton(fmt.Sprintf("Language: %s", s.language), func() {
		s.cycleLanguage()
	}))
	rootContainer.AddChild(newButton("Volume +", func() {
		s.adjustVolume(10)
	}))
	rootContainer.AddChild(newButton("Volume -", func() {
		s.adjustVolume(-10)
	}))
	rootContainer.AddChild(newButton("Back", func() {
		s.router.Emit(intents.IntentGoBack, nil)
	}))

	s.ui = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (s *SettingsScene) cycleLanguage() {
	for i, lang := range s.languages {
		if lang == s.language {
			s.language = s.languages[(i+1)%len(s.languages)]
			break
		}
	}
	s.router.Emit(intents.IntentChangeLanguage, intents.Slots{"language": s.language})
	s.renderUI()
}

func (s *SettingsScene) adjustVolume(delta int) {
	s.volume += delta
	if s.volume < 0 {
		s.volume = 0
	}
	if s.volume > 100 {
		s.volume = 100
	}
	s.router.Emit(intents.IntentSetVolume, intents.Slots{"volume": s.volume})
}

func (s *SettingsScene) HandleEvent(event input.Event) bool {
	if event.Type == input.KeyPressed && event.Key == ebiten.KeyEscape {
		s.router.Emit(intents.IntentGoBack, nil)
		return true
	}
	return false
}

func (s *SettingsScene) Update(dt float64) error {
	s.ui.Update()
	return nil
}

func (s *SettingsScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 18, B: 28, A: 255})
	w := screen.Bounds().Dx()

	text.Draw(screen, "Settings", fonts.TitleFont, w/2-160, 160, color.White)
	text.Draw(screen, fmt.Sprintf("Volume: %d", s.volume), fonts.SmallFont, 40, screen.Bounds().Dy()-40, color.RGBA{R: 160, G: 160, B: 170, A: 255})

	s.ui.Draw(screen)
}
