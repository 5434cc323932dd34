package ui

// Package ui contains the Fyne-based desktop user interface for the mood
// player. It renders the music widget state, wires button taps to widget
// actions and hosts the audio panel. All UI strings are localized via
// Localization.
