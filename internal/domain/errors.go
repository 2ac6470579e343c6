package domain

import (
	"errors"
)

// Sentinel errors for the story authoring taxonomy.
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context.

var (
	// ErrPermissionDenied indicates the user refused camera or media-library access.
	// Recoverable: the permission may be requested again.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAcquisitionFailure indicates the device produced no usable asset
	// (capture error, empty or malformed URI).
	ErrAcquisitionFailure = errors.New("media acquisition failed")

	// ErrInvalidDraft indicates an upload was attempted for a draft without media.
	ErrInvalidDraft = errors.New("draft has no capture asset")

	// ErrNetworkFailure indicates the upload transport or endpoint failed.
	ErrNetworkFailure = errors.New("network failure")
)

// Concurrency guards

var (
	// ErrCaptureInFlight indicates a capture was requested while another is pending.
	ErrCaptureInFlight = errors.New("capture already in flight")

	// ErrUploadInFlight indicates an upload was requested while another is pending
	// for the same draft.
	ErrUploadInFlight = errors.New("upload already in flight")

	// ErrNotRecording indicates StopRecording was called with no recording active.
	ErrNotRecording = errors.New("no recording in progress")
)

// Validation errors for specific entities

var (
	// ErrOverlayNotFound indicates no overlay with the given id exists on the canvas.
	ErrOverlayNotFound = errors.New("overlay not found")

	// ErrInvalidCanvas indicates canvas dimensions are not strictly positive.
	ErrInvalidCanvas = errors.New("canvas dimensions must be positive")

	// ErrInvalidTransition indicates the flow cannot perform an action in its current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrFlowClosed indicates the flow instance has reached its terminal stage.
	ErrFlowClosed = errors.New("flow is closed")
)
