// Package ports defines the inbound and outbound ports (interfaces and types)
// used to decouple the story authoring core from device, storage and network
// adapters.
//
// Purpose
// -------
// Ports are the boundary between the domain/application and the
// infrastructure (adapters). Interfaces represent the contracts that
// adapters must satisfy. Keep these interfaces stable and focused; adapters
// implement concrete behavior using real devices, sqlite or HTTP.
//
// Files and responsibilities
// --------------------------
//   - inbound.go
//   - Defines the ports that drive the application: `StoryFlow` (used by the
//     CLI composer) and `StoryRepository` (used by the receiving endpoint).
//   - outbound.go
//   - Defines the capabilities the application consumes: `CaptureDevice`,
//     `MediaLibrary`, `MediaOpener`, `StoryEndpoint` and `RefreshNotifier`.
//   - Each interface includes an "Error Contract" in comments describing
//     sentinel errors returned by implementations.
//   - types.go
//   - Shared data types: `LibraryItem`, `MediaFile`, `Submission` (the
//     multipart field set) and `PublishedStory`.
//   - errors.go
//   - Infrastructure errors returned by adapters.
//
// notes
// ------------
//   - The multipart field names live here so the sending client and the
//     receiving server cannot drift apart.
//   - Keep domain and application logic free of adapter concerns. Use the ports
//     to pass pure domain types (defined under `internal/domain`) and plain data
//     structures where appropriate.
package ports
