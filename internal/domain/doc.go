// Package domain contains the domain model for story authoring.
//
// This package is the CORE of the hexagonal architecture - it defines the story
// value objects with ZERO dependencies on external frameworks, devices, or
// transports.
//
// Hexagonal Architecture Boundaries:
//   - Domain NEVER imports from: internal/adapters, internal/ports, external SDKs
//   - Domain ONLY imports from: standard library, other domain types
//   - Domain exposes: value objects, the overlay tagged union, domain errors
//   - Domain does NOT: perform I/O, talk to devices, or hold locks
//
// Files and types:
//   - asset.go: CaptureAsset, one acquired media item (URI, kind, origin,
//     filter tag). Immutable after NewCaptureAsset validates it.
//   - geometry.go: Point, Size, Inset and Bounds, the pure coordinate model
//     used by the overlay canvas. Clamp and Relative live here so they can be
//     tested without any canvas state.
//   - overlay.go: the closed TextOverlay | StickerOverlay union.
//   - manifest.go: the wire form of a draft's overlays with both absolute and
//     relative positions.
//   - draft.go, progress.go, stage.go: StoryDraft snapshots, UploadProgress
//     phases and the flow Stage machine.
//   - errors.go, upload_error.go: sentinel errors and the typed UploadError.
package domain
