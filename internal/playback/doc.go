// Package playback contains the media sink the music widget plays through:
// the Sink capability, PlaybackError, and an MPEG audio implementation that
// downloads the source, decodes it with go-mp3 and plays it with ebiten's
// audio context.
package playback
