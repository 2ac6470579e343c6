package ports

import "errors"

// Infrastructure errors for adapter layer.
//
// These errors represent infrastructure/adapter concerns and are separate from
// domain errors which represent user-facing failures. The upload pipeline maps
// every one of them onto domain.ErrNetworkFailure; the media source maps
// device errors onto domain.ErrAcquisitionFailure.

// ErrDeviceUnavailable indicates the camera or recorder cannot be used.
//
// Used by:
//   - CaptureDevice adapters when the hardware is busy or released
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// ErrRecordingStopped is the cancel cause a media source puts on the context
// handed to CaptureDevice.Record when the user stops early. Devices finish the
// recording normally instead of failing with the context error.
var ErrRecordingStopped = errors.New("recording stopped")

// ErrMediaNotFound indicates a media URI could not be resolved to content.
//
// Used by:
//   - MediaOpener adapters for missing files or unknown in-memory keys
var ErrMediaNotFound = errors.New("media not found")

// ErrUnsupportedScheme indicates no opener is registered for a URI scheme.
var ErrUnsupportedScheme = errors.New("unsupported media uri scheme")

// ErrEndpointRejected indicates the story endpoint answered with a non-2xx status.
var ErrEndpointRejected = errors.New("story endpoint rejected upload")

// ErrMalformedResponse indicates the endpoint answered 2xx with a body that is
// not JSON or carries no story id.
var ErrMalformedResponse = errors.New("malformed story endpoint response")

// ErrTransport indicates the request never produced a response.
var ErrTransport = errors.New("story endpoint transport failure")

// ErrLibraryClosed is returned by MediaLibrary adapters after Close.
var ErrLibraryClosed = errors.New("media library closed")
