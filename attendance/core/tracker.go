package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"hadirin.app/hadirin/attendance/device"
	"hadirin.app/hadirin/attendance/model"
	"hadirin.app/hadirin/utils"
)

// State of one user's attendance day, always derived from the repository.
// It is never cached: another session on the same account may have moved it.
type State string

const (
	StateNoRecordToday State = "no_record"
	StateCheckedIn     State = "checked_in"
	StateCheckedOut    State = "checked_out"
)

// MediaStore is the durable home of check-in selfies.
type MediaStore interface {
	// UploadPhoto stores the photo under a fresh unique name and returns
	// that name. Failures wrap ErrUploadFailed and are not retried.
	UploadPhoto(ctx context.Context, data []byte, contentType string) (string, error)

	// PublicURL derives the retrieval URL for an uploaded object. Pure.
	PublicURL(name string) string
}

// Notifier is pinged when a check-in leaves a repairable inconsistency
// behind (record without location). Delivery is best effort.
type Notifier interface {
	Error(message string) error
}

type noopNotifier struct{}

func (noopNotifier) Error(string) error { return nil }

// Tracker drives the daily check-in/check-out workflow for authenticated
// users. The repository is the source of truth for state; the tracker holds
// none of its own.
type Tracker struct {
	repo     Repository
	media    MediaStore
	notifier Notifier
	now      func() time.Time
}

func NewTracker(repo Repository, media MediaStore, notifier Notifier) *Tracker {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Tracker{
		repo:     repo,
		media:    media,
		notifier: notifier,
		now:      utils.JakartaNow,
	}
}

// WithClock overrides the tracker's clock. Test hook.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Today returns the user's record for the current day (nil when absent) and
// the state derived from it.
func (t *Tracker) Today(ctx context.Context, userID string) (*model.AttendanceRecord, State, error) {
	rec, err := t.repo.FindTodayRecord(ctx, userID, utils.DateOf(t.now()))
	if err != nil {
		return nil, "", err
	}
	return rec, deriveState(rec), nil
}

// CheckIn runs the capture-and-persist chain for today:
//
//	location permission -> position fix -> camera permission -> selfie
//	-> upload -> insert attendance -> insert location
//
// Any failing step aborts the rest and is surfaced verbatim. The repository
// lookup up front is a best-effort guard; the unique index on (user_id, date)
// is what actually decides a race between two sessions.
func (t *Tracker) CheckIn(ctx context.Context, userID string, broker device.Broker) (*model.AttendanceRecord, error) {
	today := utils.DateOf(t.now())

	existing, err := t.repo.FindTodayRecord(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("check-in for %s on %s: %w", userID, today, ErrDuplicateRecord)
	}

	if err := broker.RequestLocationAccess(ctx); err != nil {
		return nil, err
	}
	pos, err := broker.CaptureCurrentPosition(ctx)
	if err != nil {
		return nil, err
	}
	if err := broker.RequestCameraAccess(ctx); err != nil {
		return nil, err
	}
	photo, err := broker.CaptureSelfie(ctx)
	if err != nil {
		return nil, err
	}

	name, err := t.media.UploadPhoto(ctx, photo.Data, photo.ContentType)
	if err != nil {
		return nil, err
	}

	rec := &model.AttendanceRecord{
		UserID:    userID,
		Date:      model.DateOnly(today),
		CheckIn:   utils.ClockOf(t.now()),
		SelfieURL: t.media.PublicURL(name),
	}
	if err := t.repo.CreateRecord(ctx, rec); err != nil {
		// The selfie object stays behind; a bucket lifecycle rule sweeps
		// unreferenced uploads. No record is exposed to the caller.
		return nil, err
	}

	loc := &model.AttendanceLocation{
		AttendanceID: rec.ID,
		Latitude:     pos.Latitude,
		Longitude:    pos.Longitude,
	}
	if err := t.repo.CreateLocation(ctx, loc); err != nil {
		t.reportOrphan(rec, err)
		return nil, fmt.Errorf("attendance %d for %s on %s has no location: %w", rec.ID, userID, today, ErrOrphanedWrite)
	}

	return rec, nil
}

// CheckOut stamps the end of the day on an existing check-in. A second
// check-out is rejected, never an idempotent overwrite.
func (t *Tracker) CheckOut(ctx context.Context, userID string) (*model.AttendanceRecord, error) {
	now := t.now()
	today := utils.DateOf(now)

	rec, err := t.repo.FindTodayRecord(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("check-out for %s on %s: %w", userID, today, ErrRecordNotFound)
	}
	if rec.CheckOut != nil {
		return nil, fmt.Errorf("check-out for %s on %s: %w", userID, today, ErrAlreadyCheckedOut)
	}

	checkOut := utils.ClockOf(now)
	if err := t.repo.SetCheckOutTime(ctx, userID, today, checkOut); err != nil {
		return nil, err
	}

	rec.CheckOut = &checkOut
	return rec, nil
}

func (t *Tracker) reportOrphan(rec *model.AttendanceRecord, cause error) {
	msg := fmt.Sprintf("attendance %d (user %s, %s) is missing its location row: %v", rec.ID, rec.UserID, rec.Date, cause)
	if err := t.notifier.Error(msg); err != nil {
		log.Printf("failed to report orphaned attendance %d: %v", rec.ID, err)
	}
}

func deriveState(rec *model.AttendanceRecord) State {
	switch {
	case rec == nil:
		return StateNoRecordToday
	case rec.CheckOut != nil:
		return StateCheckedOut
	default:
		return StateCheckedIn
	}
}
