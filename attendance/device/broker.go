package device

import "context"

// Position is a single location fix from the handset.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Photo is a captured selfie, raw bytes plus the MIME type reported by the
// camera pipeline.
type Photo struct {
	Data        []byte
	ContentType string
}

// Broker mediates device capabilities for one check-in attempt: OS permission
// prompts, the GPS fix and the camera capture. Captures happen on the handset,
// so server-side implementations replay an already-performed capture through
// this contract; test fakes script it directly.
//
// Failures are reported as ErrPermissionDenied, ErrLocationUnavailable,
// ErrCaptureCancelled or ErrCaptureFailed. Denial and cancellation are
// terminal for the attempt, never retried here.
type Broker interface {
	RequestLocationAccess(ctx context.Context) error
	CaptureCurrentPosition(ctx context.Context) (Position, error)
	RequestCameraAccess(ctx context.Context) error
	CaptureSelfie(ctx context.Context) (Photo, error)
}
