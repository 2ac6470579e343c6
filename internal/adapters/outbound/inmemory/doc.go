// Package inmemory contains concrete, in-memory implementations of outbound
// adapters.
//
// Purpose
// -------
// These adapters let the authoring flow run completely in-process without a
// camera, a photo library or a network. They are used by `storyctl` in its
// simulated mode, by the development server, and by tests.
//
// Files and responsibilities
// --------------------------
//
//   - device.go
//     Camera: implements `ports.CaptureDevice`. Captures write synthetic
//     content into a MediaStore and return its mem:// uri. Record enforces
//     the hard duration cap itself and ends early on StopRecording.
//
//   - library.go
//     Library: implements `ports.MediaLibrary` over a fixed item slice,
//     sorted newest first on demand.
//
//   - mediastore.go
//     MediaStore: implements `ports.MediaOpener` for mem:// uris.
//
//   - stories.go
//     StoryRepository: implements `ports.StoryRepository` for the receiving
//     endpoint.
//
//   - refresh.go
//     RefreshRecorder: implements `ports.RefreshNotifier` and counts signals.
//
// Fault injection
// ---------------
// Camera and Library consult debug.Faults on every call, so one-shot faults
// set through the /_debug routes (denied permission, failed capture, empty
// uri, delayed capture) show up exactly once.
package inmemory
