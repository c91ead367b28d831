package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hadirin.app/hadirin/attendance/device"
	"hadirin.app/hadirin/attendance/model"
	"hadirin.app/hadirin/utils"
)

type fakeRepo struct {
	records   map[string]*model.AttendanceRecord
	locations map[int64]*model.AttendanceLocation
	nextID    int64

	createRecordErr   error
	createLocationErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:   map[string]*model.AttendanceRecord{},
		locations: map[int64]*model.AttendanceLocation{},
	}
}

func key(userID, date string) string { return userID + "|" + date }

func (r *fakeRepo) FindTodayRecord(ctx context.Context, userID, date string) (*model.AttendanceRecord, error) {
	rec, ok := r.records[key(userID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRepo) CreateRecord(ctx context.Context, rec *model.AttendanceRecord) error {
	if r.createRecordErr != nil {
		return r.createRecordErr
	}
	if _, ok := r.records[key(rec.UserID, string(rec.Date))]; ok {
		return fmt.Errorf("attendance insert: %w", ErrDuplicateRecord)
	}
	r.nextID++
	rec.ID = r.nextID
	cp := *rec
	r.records[key(rec.UserID, string(rec.Date))] = &cp
	return nil
}

func (r *fakeRepo) CreateLocation(ctx context.Context, loc *model.AttendanceLocation) error {
	if r.createLocationErr != nil {
		return r.createLocationErr
	}
	cp := *loc
	r.locations[loc.AttendanceID] = &cp
	return nil
}

func (r *fakeRepo) SetCheckOutTime(ctx context.Context, userID, date, checkOut string) error {
	rec, ok := r.records[key(userID, date)]
	if !ok {
		return fmt.Errorf("check-out: %w", ErrRecordNotFound)
	}
	if rec.CheckOut != nil {
		return fmt.Errorf("check-out: %w", ErrAlreadyCheckedOut)
	}
	rec.CheckOut = &checkOut
	return nil
}

func (r *fakeRepo) FindMissingLocations(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range r.records {
		if string(rec.Date) != date {
			continue
		}
		if _, ok := r.locations[rec.ID]; !ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListMonth(ctx context.Context, userID, yearMonth string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, rec := range r.records {
		if rec.UserID == userID && len(rec.Date) >= 7 && string(rec.Date[:7]) == yearMonth {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type fakeBroker struct {
	pos   device.Position
	photo device.Photo

	locationAccessErr error
	positionErr       error
	cameraAccessErr   error
	selfieErr         error
}

func (b *fakeBroker) RequestLocationAccess(ctx context.Context) error {
	return b.locationAccessErr
}

func (b *fakeBroker) CaptureCurrentPosition(ctx context.Context) (device.Position, error) {
	if b.positionErr != nil {
		return device.Position{}, b.positionErr
	}
	return b.pos, nil
}

func (b *fakeBroker) RequestCameraAccess(ctx context.Context) error {
	return b.cameraAccessErr
}

func (b *fakeBroker) CaptureSelfie(ctx context.Context) (device.Photo, error) {
	if b.selfieErr != nil {
		return device.Photo{}, b.selfieErr
	}
	return b.photo, nil
}

type fakeMedia struct {
	uploads   [][]byte
	uploadErr error
}

func (m *fakeMedia) UploadPhoto(ctx context.Context, data []byte, contentType string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, data)
	return fmt.Sprintf("selfie-%d.jpg", len(m.uploads)), nil
}

func (m *fakeMedia) PublicURL(name string) string {
	return "https://selfies.test/" + name
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Error(message string) error {
	n.messages = append(n.messages, message)
	return nil
}

var t0 = time.Date(2026, 8, 28, 9, 0, 0, 0, utils.JakartaTZ)

func newTestTracker(repo Repository, media MediaStore, notifier Notifier) *Tracker {
	return NewTracker(repo, media, notifier).WithClock(func() time.Time { return t0 })
}

func happyBroker() *fakeBroker {
	return &fakeBroker{
		pos:   device.Position{Latitude: 1.0, Longitude: 2.0},
		photo: device.Photo{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"},
	}
}

func TestCheckInSuccess(t *testing.T) {
	repo := newFakeRepo()
	media := &fakeMedia{}
	tracker := newTestTracker(repo, media, nil)

	rec, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	require.NoError(t, err)

	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, model.DateOnly("2026-08-28"), rec.Date)
	assert.Equal(t, "09:00:00", rec.CheckIn)
	assert.Nil(t, rec.CheckOut)
	assert.Equal(t, "https://selfies.test/selfie-1.jpg", rec.SelfieURL)

	loc := repo.locations[rec.ID]
	require.NotNil(t, loc, "location row must be paired with the record")
	assert.Equal(t, 1.0, loc.Latitude)
	assert.Equal(t, 2.0, loc.Longitude)

	_, state, err := tracker.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, StateCheckedIn, state)
}

func TestCheckInSecondAttemptIsDuplicate(t *testing.T) {
	repo := newFakeRepo()
	media := &fakeMedia{}
	tracker := newTestTracker(repo, media, nil)

	first, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	require.NoError(t, err)

	_, err = tracker.CheckIn(context.Background(), "user-1", happyBroker())
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	// The precheck short-circuits before any capture or upload.
	assert.Len(t, media.uploads, 1)

	// First record untouched.
	got, _ := repo.FindTodayRecord(context.Background(), "user-1", string(first.Date))
	assert.Equal(t, first, got)
	assert.Len(t, repo.records, 1)
}

func TestCheckInLosesInsertRace(t *testing.T) {
	// The precheck sees no record, but another session wins the insert:
	// the unique index rejects ours and the loser surfaces DuplicateRecord.
	repo := newFakeRepo()
	repo.createRecordErr = fmt.Errorf("attendance insert: %w", ErrDuplicateRecord)
	media := &fakeMedia{}
	tracker := newTestTracker(repo, media, nil)

	rec, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestCheckInPermissionDenied(t *testing.T) {
	tests := []struct {
		name   string
		broker *fakeBroker
		want   error
	}{
		{
			name: "location permission denied",
			broker: func() *fakeBroker {
				b := happyBroker()
				b.locationAccessErr = device.ErrPermissionDenied
				return b
			}(),
			want: device.ErrPermissionDenied,
		},
		{
			name: "camera permission denied",
			broker: func() *fakeBroker {
				b := happyBroker()
				b.cameraAccessErr = device.ErrPermissionDenied
				return b
			}(),
			want: device.ErrPermissionDenied,
		},
		{
			name: "no position fix",
			broker: func() *fakeBroker {
				b := happyBroker()
				b.positionErr = device.ErrLocationUnavailable
				return b
			}(),
			want: device.ErrLocationUnavailable,
		},
		{
			name: "capture cancelled",
			broker: func() *fakeBroker {
				b := happyBroker()
				b.selfieErr = device.ErrCaptureCancelled
				return b
			}(),
			want: device.ErrCaptureCancelled,
		},
		{
			name: "capture failed",
			broker: func() *fakeBroker {
				b := happyBroker()
				b.selfieErr = device.ErrCaptureFailed
				return b
			}(),
			want: device.ErrCaptureFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			media := &fakeMedia{}
			tracker := newTestTracker(repo, media, nil)

			rec, err := tracker.CheckIn(context.Background(), "user-1", tt.broker)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, tt.want)

			// Nothing uploaded, nothing persisted.
			assert.Empty(t, media.uploads)
			assert.Empty(t, repo.records)
			assert.Empty(t, repo.locations)
		})
	}
}

func TestCheckInUploadFailed(t *testing.T) {
	repo := newFakeRepo()
	media := &fakeMedia{uploadErr: fmt.Errorf("put object: %w", ErrUploadFailed)}
	tracker := newTestTracker(repo, media, nil)

	rec, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Empty(t, repo.records)
}

func TestCheckInInsertFailsAfterUpload(t *testing.T) {
	repo := newFakeRepo()
	repo.createRecordErr = fmt.Errorf("backend unavailable")
	media := &fakeMedia{}
	tracker := newTestTracker(repo, media, nil)

	rec, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	assert.Nil(t, rec, "no record may be exposed when the insert failed")
	assert.EqualError(t, err, "backend unavailable")

	// The uploaded selfie stays behind (accepted leak), but no row exists.
	assert.Len(t, media.uploads, 1)
	assert.Empty(t, repo.records)
}

func TestCheckInOrphanedWrite(t *testing.T) {
	repo := newFakeRepo()
	repo.createLocationErr = fmt.Errorf("fk check: %w", ErrOrphanedWrite)
	media := &fakeMedia{}
	notifier := &fakeNotifier{}
	tracker := newTestTracker(repo, media, notifier)

	rec, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrOrphanedWrite)

	// The record was persisted without its location and follow-up was raised.
	assert.Len(t, repo.records, 1)
	assert.Empty(t, repo.locations)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "user-1")
}

func TestCheckOutSuccess(t *testing.T) {
	repo := newFakeRepo()
	media := &fakeMedia{}
	tracker := newTestTracker(repo, media, nil)

	checkedIn, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	require.NoError(t, err)

	tracker.WithClock(func() time.Time { return t0.Add(8 * time.Hour) })

	rec, err := tracker.CheckOut(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, rec.CheckOut)
	assert.Equal(t, "17:00:00", *rec.CheckOut)

	// Everything else unchanged.
	assert.Equal(t, checkedIn.ID, rec.ID)
	assert.Equal(t, checkedIn.CheckIn, rec.CheckIn)
	assert.Equal(t, checkedIn.SelfieURL, rec.SelfieURL)

	_, state, err := tracker.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, StateCheckedOut, state)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	repo := newFakeRepo()
	tracker := newTestTracker(repo, &fakeMedia{}, nil)

	rec, err := tracker.CheckOut(context.Background(), "user-1")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Empty(t, repo.records)
}

func TestCheckOutTwice(t *testing.T) {
	repo := newFakeRepo()
	tracker := newTestTracker(repo, &fakeMedia{}, nil)

	_, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	require.NoError(t, err)
	_, err = tracker.CheckOut(context.Background(), "user-1")
	require.NoError(t, err)

	rec, err := tracker.CheckOut(context.Background(), "user-1")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

// behindReadRepo serves reads that have not caught up with the latest
// check-out, so the tracker's precondition check passes even though the day
// is already closed.
type behindReadRepo struct {
	*fakeRepo
}

func (r *behindReadRepo) FindTodayRecord(ctx context.Context, userID, date string) (*model.AttendanceRecord, error) {
	rec, err := r.fakeRepo.FindTodayRecord(ctx, userID, date)
	if rec != nil {
		rec.CheckOut = nil
	}
	return rec, err
}

func TestCheckOutLosesUpdateRace(t *testing.T) {
	repo := newFakeRepo()
	tracker := newTestTracker(&behindReadRepo{fakeRepo: repo}, &fakeMedia{}, nil)

	_, err := tracker.CheckIn(context.Background(), "user-1", happyBroker())
	require.NoError(t, err)

	// Another session of the same account closes the day first.
	require.NoError(t, repo.SetCheckOutTime(context.Background(), "user-1", "2026-08-28", "16:55:00"))

	// Our read missed that, but the store's check_out IS NULL guard is the
	// arbiter: the second check-out is rejected, never an overwrite.
	rec, err := tracker.CheckOut(context.Background(), "user-1")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)

	stored := repo.records[key("user-1", "2026-08-28")]
	require.NotNil(t, stored.CheckOut)
	assert.Equal(t, "16:55:00", *stored.CheckOut)
}

func TestTodayStates(t *testing.T) {
	repo := newFakeRepo()
	tracker := newTestTracker(repo, &fakeMedia{}, nil)

	rec, state, err := tracker.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, StateNoRecordToday, state)

	_, err = tracker.CheckIn(context.Background(), "user-1", happyBroker())
	require.NoError(t, err)

	rec, state, err = tracker.Today(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, StateCheckedIn, state)
}
