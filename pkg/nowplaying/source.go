package nowplaying

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source reports the currently playing track from some music integration.
type Source interface {
	Current(ctx context.Context) (Track, bool, error)
}

// FileSource reads the current track from a JSON file maintained by an
// external integration process. An absent file means nothing is playing.
type FileSource struct {
	Path string
}

type fileTrack struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	ArtworkURL string `json:"artwork_url"`
	Source     string `json:"source"`
}

func (s *FileSource) Current(ctx context.Context) (Track, bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Track{}, false, nil
		}
		return Track{}, false, fmt.Errorf("failed to read now playing file: %v", err)
	}

	ft := fileTrack{}
	if err := json.Unmarshal(data, &ft); err != nil {
		return Track{}, false, fmt.Errorf("failed to parse now playing file: %v", err)
	}
	if ft.Title == "" {
		return Track{}, false, nil
	}

	return Track{
		Title:      ft.Title,
		Artist:     ft.Artist,
		Album:      ft.Album,
		ArtworkURL: ft.ArtworkURL,
		Source:     ft.Source,
	}, true, nil
}
