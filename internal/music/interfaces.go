package music

import (
	"context"

	"github.com/ytget/mood-player/internal/model"
)

// Fetcher resolves the URL of the music to play
type Fetcher interface {
	FetchMusicURL(ctx context.Context) (string, error)
}

// Listener is notified after every state change with the previous and the
// new snapshot.
type Listener func(prev, next model.State)

// Dispatcher runs fn on the goroutine that owns rendering
type Dispatcher func(fn func())

// Immediate runs fn on the calling goroutine
func Immediate(fn func()) {
	fn()
}
