// Package app contains the application's composition root and the story
// authoring flow.
//
// Files
//   - flow.go: Flow, the session state machine (camera, gallery, editor,
//     closed). It owns the single live draft, forwards overlay edits to its
//     canvas and hands it to the Uploader.
//   - application.go: Bootstrap(ctx, cfg, opts...) builds the logger, the
//     capture device and library, the media sources, the upload pipeline and
//     the Flow. Options replace any collaborator, which is how tests and the
//     CLI inject fakes.
//
// Architectural notes
//   - Adapter construction stays here; inbound adapters only see
//     ports.StoryFlow or *Flow.
//   - The Flow never blocks on I/O while holding its lock. Acquisition and
//     upload run unlocked and re-check the session state afterwards.
package app
