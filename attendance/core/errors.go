package core

import "errors"

var (
	// ErrUploadFailed means the selfie never reached object storage; the
	// check-in is aborted before any row is written.
	ErrUploadFailed = errors.New("selfie upload failed")

	// ErrDuplicateRecord means an attendance row already exists for the
	// (user, date) pair. The unique index raises it; the existing row is
	// never touched.
	ErrDuplicateRecord = errors.New("attendance already recorded for this day")

	// ErrOrphanedWrite means the attendance row was written but its location
	// row was not. The row exists and needs repair, it is not merely a
	// failed attempt.
	ErrOrphanedWrite = errors.New("attendance recorded without its location")

	// ErrRecordNotFound means there is no check-in for the (user, date) pair.
	ErrRecordNotFound = errors.New("no attendance record for this day")

	// ErrAlreadyCheckedOut rejects a second check-out for the day.
	ErrAlreadyCheckedOut = errors.New("already checked out for this day")
)
