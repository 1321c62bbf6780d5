// Package ui implements the optional full-screen follow viewer.
//
// # Overview
//
// The viewer is a Bubble Tea program that shows a followed file in a
// scrollable viewport. It never reads the file itself: the follow loop
// writes reconciled batches into a state.Store and the viewer polls
// Store.Snapshot on a tick, so the stream stays owned by the loop.
//
// # Layout
//
//	┌───────────────────────────────────────────────┐
//	│ tailf  /var/log/app.log  line 812  FOLLOW     │  status bar
//	├───────────────────────────────────────────────┤
//	│ 805: ...                                      │
//	│ 812: ...                                      │  viewport
//	├───────────────────────────────────────────────┤
//	│ q quit • f follow • r reverse • T theme • ?   │  help
//	└───────────────────────────────────────────────┘
//
// # Follow and Reverse
//
// While following, the newest line stays in view. Scrolling away from it
// pauses following; scrolling back, pressing G (or g when reversed), or
// pressing f resumes it. Reverse shows newest lines first.
//
// # Preferences
//
// Theme and reverse choices are written to prefs.toml whenever they change
// and are read back by the app on the next start.
package ui
