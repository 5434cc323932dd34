package playback

import "errors"

// ErrNoSource is returned by Play when no source has been set
var ErrNoSource = errors.New("no media source")

// ErrUnsupportedType is returned for sources not declared as MPEG audio
var ErrUnsupportedType = errors.New("unsupported media type")

// PlaybackError is raised when playback cannot start: missing source,
// download failure, unsupported format or an unavailable audio device.
type PlaybackError struct {
	Source string
	Err    error
}

func (e *PlaybackError) Error() string {
	if e.Source == "" {
		return "playback failed: " + e.Err.Error()
	}
	return "playback of " + e.Source + " failed: " + e.Err.Error()
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// AsPlaybackError returns err unchanged if it already is a *PlaybackError,
// otherwise wraps it for source.
func AsPlaybackError(source string, err error) *PlaybackError {
	if err == nil {
		return nil
	}
	var pe *PlaybackError
	if errors.As(err, &pe) {
		return pe
	}
	return &PlaybackError{Source: source, Err: err}
}
