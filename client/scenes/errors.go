package scenes

import "fmt"

// SceneNotFoundError is returned when a switch targets a name with neither a
// registered instance nor a lazy factory.
type SceneNotFoundError struct {
	Name string
}

func (e *SceneNotFoundError) Error() string {
	return fmt.Sprintf("scene %q not registered", e.Name)
}

func IsSceneNotFound(err error) bool {
	_, ok := err.(*SceneNotFoundError)
	return ok
}
