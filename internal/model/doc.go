// Package model defines the widget state shared between the headless music
// widget and the Fyne view: the mood text, the resolved music URL and the
// lifecycle phase of that URL.
package model
