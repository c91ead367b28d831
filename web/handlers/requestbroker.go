package handlers

import (
	"context"

	"hadirin.app/hadirin/attendance/device"
)

// CheckInForm is the multipart payload the mobile client posts after running
// the capture flow on the handset: the permission prompt outcomes, the
// position fix and the selfie bytes.
type CheckInForm struct {
	LocationGranted  bool `form:"location_granted"`
	CameraGranted    bool `form:"camera_granted"`
	CaptureCancelled bool `form:"capture_cancelled"`

	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
}

// requestBroker replays one handset capture through the device.Broker
// contract, so the tracker sequences and fails exactly as if it were driving
// the prompts itself.
type requestBroker struct {
	form        CheckInForm
	photo       []byte
	contentType string
}

var _ device.Broker = (*requestBroker)(nil)

func (b *requestBroker) RequestLocationAccess(ctx context.Context) error {
	if !b.form.LocationGranted {
		return device.ErrPermissionDenied
	}
	return nil
}

func (b *requestBroker) CaptureCurrentPosition(ctx context.Context) (device.Position, error) {
	if b.form.Latitude == nil || b.form.Longitude == nil {
		return device.Position{}, device.ErrLocationUnavailable
	}
	return device.Position{
		Latitude:  *b.form.Latitude,
		Longitude: *b.form.Longitude,
	}, nil
}

func (b *requestBroker) RequestCameraAccess(ctx context.Context) error {
	if !b.form.CameraGranted {
		return device.ErrPermissionDenied
	}
	return nil
}

func (b *requestBroker) CaptureSelfie(ctx context.Context) (device.Photo, error) {
	if b.form.CaptureCancelled {
		return device.Photo{}, device.ErrCaptureCancelled
	}
	if len(b.photo) == 0 {
		return device.Photo{}, device.ErrCaptureFailed
	}
	return device.Photo{Data: b.photo, ContentType: b.contentType}, nil
}
