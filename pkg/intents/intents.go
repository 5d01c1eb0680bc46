// Package intents routes named logical actions (from touch, keyboard, or
// voice) to registered handlers, decoupling scenes from the input device
// that triggered the action.
package intents

// Intent is a string-keyed logical action.
type Intent string

const (
	// Navigation intents
	IntentGoHome       Intent = "go_home"
	IntentGoBack       Intent = "go_back"
	IntentGoToSettings Intent = "go_to_settings"

	// Selection intents
	IntentSelectOption Intent = "select_option"

	// Media control intents
	IntentPause      Intent = "pause"
	IntentResume     Intent = "resume"
	IntentNext       Intent = "next"
	IntentPrevious   Intent = "previous"
	IntentVolumeUp   Intent = "volume_up"
	IntentVolumeDown Intent = "volume_down"
	IntentSetVolume  Intent = "set_volume"

	// System intents
	IntentChangeLanguage Intent = "change_language"
)

func (i Intent) String() string {
	return string(i)
}

// Slots carries optional named parameters for an intent (e.g. index, volume).
type Slots map[string]interface{}

// Handler handles a dispatched intent.
type Handler func(slots Slots)

// SceneController is the navigation surface the router exposes to handlers.
// The scene manager satisfies it.
type SceneController interface {
	SwitchTo(name string) error
	GoBack()
}
