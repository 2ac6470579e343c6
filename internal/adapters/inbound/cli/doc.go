// Package cli provides an inbound adapter that drives a story authoring
// session from the command line.
//
// Responsibilities:
//   - Turn a Plan (asset, caption, overlays) into the sequence of
//     ports.StoryFlow calls a user would make in the editor.
//   - Print upload progress and the outcome.
//   - No dependency wiring or configuration loading: those are provided by the
//     application composition root.
//
// Overlay flags use a small "value;key=value" syntax:
//
//	Hello;style=neon;color=#FF00FF;move=40,-30
//	🔥;move=-20,100
package cli
