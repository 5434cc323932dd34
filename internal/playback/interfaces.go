package playback

import (
	"context"
	"io"
	"time"
)

// Sink is a media element capable of loading and playing one source.
// It mirrors an embedded audio element: the renderer sets the source,
// the widget reloads it and asks it to play.
type Sink interface {
	// SetSource points the sink at a media URL with a declared MIME type
	SetSource(url, mimeType string)

	// Reload discards any buffered media so the current source is fetched again
	Reload()

	// Play starts playback of the current source. Failures are *PlaybackError.
	Play(ctx context.Context) error

	// Pause halts playback, keeping the position
	Pause()
}

// MediaPlayer is the part of an ebiten audio player the sink drives
type MediaPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	Rewind() error
	Position() time.Duration
	Close() error
}

// Output creates players for 16-bit stereo PCM at a fixed sample rate
type Output interface {
	SampleRate() int
	NewPlayer(src io.Reader) (MediaPlayer, error)
}

// OutputProvider returns the audio output used for new players
type OutputProvider func() (Output, error)
