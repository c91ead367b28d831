package device

import "errors"

var (
	// ErrPermissionDenied means the user (or OS policy) refused the location
	// or camera permission prompt.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLocationUnavailable means the device could not produce a position
	// fix within the platform timeout.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrCaptureCancelled means the user backed out of the camera screen.
	ErrCaptureCancelled = errors.New("capture cancelled")

	// ErrCaptureFailed covers camera hardware or pipeline errors.
	ErrCaptureFailed = errors.New("capture failed")
)
