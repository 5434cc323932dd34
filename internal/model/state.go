package model

// State is a snapshot of the widget state handed to renderers.
// MusicURL is empty while no music has been loaded.
type State struct {
	Mood     string
	MusicURL string
	InFlight int // number of load requests not yet resolved
}

// HasMusic reports whether a music URL is present
func (s State) HasMusic() bool {
	return s.MusicURL != ""
}

// PlayEnabled reports whether the play control should accept input.
// It is enabled if and only if a music URL is present.
func (s State) PlayEnabled() bool {
	return s.HasMusic()
}

// Phase derives the URL lifecycle phase from the snapshot
func (s State) Phase() Phase {
	switch {
	case s.HasMusic():
		return PhaseLoaded
	case s.InFlight > 0:
		return PhaseLoading
	default:
		return PhaseEmpty
	}
}
