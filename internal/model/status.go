package model

// Phase represents where the widget is in the music URL lifecycle
type Phase string

const (
	// PhaseEmpty means no URL is loaded and no request is in flight
	PhaseEmpty Phase = "Empty"

	// PhaseLoading means a request is in flight and no URL is loaded yet
	PhaseLoading Phase = "Loading"

	// PhaseLoaded means a music URL is present
	PhaseLoaded Phase = "Loaded"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// HasMusic returns true if a music URL is available for playback
func (p Phase) HasMusic() bool {
	return p == PhaseLoaded
}
