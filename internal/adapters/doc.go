// Package adapters contains infrastructure implementations of port interfaces.
//
// Adapters implement the interfaces in internal/ports with concrete
// technologies and translate between the authoring core and the outside
// world. Domain and app code never import a concrete adapter; wiring happens
// in app.Bootstrap and cmd/storyctl.
//
// Adapter Organization
//
//   - inbound/   - drive the application: the terminal composer (cli) and
//     the development story endpoint (httpapi, chi)
//   - outbound/  - are driven by it: the story endpoint client (httpclient),
//     the sqlite media library (sqlitelib), file media access (mediafs) and
//     in-memory devices, libraries and stores (inmemory)
//
// Example Dependency Flow
//
//	cmd/storyctl post (composition root)
//	    ↓ calls
//	app.Bootstrap(cfg)
//	    ↓ builds
//	upload.Pipeline{Endpoint: httpclient.StoryClient, Opener: mediafs.Router}
//	    ↓ POSTs multipart to
//	httpapi.Server (storyctl serve)
//
// # Testing Adapters
//
// The inmemory adapters stand in for the camera, the photo library and the
// story repository in unit tests. httpclient and httpapi are tested against
// each other over httptest.
package adapters
