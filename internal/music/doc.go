// Package music implements the mood music widget independent of any UI
// toolkit. The widget keeps its state in a Store, notifies renderers on every
// change, resolves music URLs through a Fetcher and drives a mounted
// playback.Sink. Errors never leave the widget; they are logged.
package music
