package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"hadirin.app/hadirin/attendance/model"
)

// MySQL server error numbers the repository translates into the attendance
// taxonomy.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrForeignKeyCheck = 1452
)

// Repository is the sole read/write authority over the attendance tables.
// It never exposes partial state: a record is visible only once its insert
// committed, and check-out is a single UPDATE on the committed row.
type Repository interface {
	// FindTodayRecord returns the record for (userID, date), or (nil, nil)
	// when none exists. Absence is an answer, not an error.
	FindTodayRecord(ctx context.Context, userID, date string) (*model.AttendanceRecord, error)

	// CreateRecord inserts a new attendance row. Returns ErrDuplicateRecord
	// when the (user_id, date) unique index rejects it.
	CreateRecord(ctx context.Context, rec *model.AttendanceRecord) error

	// CreateLocation inserts the paired location row. Returns ErrOrphanedWrite
	// when the attendance id does not resolve.
	CreateLocation(ctx context.Context, loc *model.AttendanceLocation) error

	// SetCheckOutTime sets check_out on the existing row for (userID, date).
	// Returns ErrRecordNotFound when there is no check-in yet.
	SetCheckOutTime(ctx context.Context, userID, date, checkOut string) error

	// FindMissingLocations lists records for a day that have no location row.
	FindMissingLocations(ctx context.Context, date string) ([]model.AttendanceRecord, error)

	// ListMonth returns a user's records for a yyyy-MM month, oldest first.
	ListMonth(ctx context.Context, userID, yearMonth string) ([]model.AttendanceRecord, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindTodayRecord(ctx context.Context, userID, date string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance for %s on %s: %w", userID, date, err)
	}
	return &rec, nil
}

func (r *GormRepository) CreateRecord(ctx context.Context, rec *model.AttendanceRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isMySQLError(err, mysqlErrDuplicateEntry) {
			return fmt.Errorf("attendance insert for %s on %s: %w", rec.UserID, rec.Date, ErrDuplicateRecord)
		}
		return fmt.Errorf("failed to insert attendance for %s on %s: %w", rec.UserID, rec.Date, err)
	}
	return nil
}

func (r *GormRepository) CreateLocation(ctx context.Context, loc *model.AttendanceLocation) error {
	err := r.db.WithContext(ctx).Omit("Attendance").Create(loc).Error
	if err != nil {
		if isMySQLError(err, mysqlErrForeignKeyCheck) {
			return fmt.Errorf("location insert for attendance %d: %w", loc.AttendanceID, ErrOrphanedWrite)
		}
		return fmt.Errorf("failed to insert location for attendance %d: %w", loc.AttendanceID, err)
	}
	return nil
}

func (r *GormRepository) SetCheckOutTime(ctx context.Context, userID, date, checkOut string) error {
	// check_out is written exactly once; the IS NULL guard makes the store
	// the arbiter when two sessions race past the tracker's read.
	res := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("user_id = ? AND date = ? AND check_out IS NULL", userID, date).
		Update("check_out", checkOut)
	if res.Error != nil {
		return fmt.Errorf("failed to set check-out for %s on %s: %w", userID, date, res.Error)
	}
	if res.RowsAffected == 0 {
		// Zero rows means either no check-in at all or a check-out that
		// already happened; tell them apart.
		var n int64
		err := r.db.WithContext(ctx).
			Model(&model.AttendanceRecord{}).
			Where("user_id = ? AND date = ?", userID, date).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("failed to verify check-out for %s on %s: %w", userID, date, err)
		}
		if n > 0 {
			return fmt.Errorf("check-out for %s on %s: %w", userID, date, ErrAlreadyCheckedOut)
		}
		return fmt.Errorf("check-out for %s on %s: %w", userID, date, ErrRecordNotFound)
	}
	return nil
}

func (r *GormRepository) FindMissingLocations(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN attendance_location ON attendance_location.attendance_id = attendance.id").
		Where("attendance.date = ? AND attendance_location.id IS NULL", date).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan for orphaned attendance on %s: %w", date, err)
	}
	return recs, nil
}

func (r *GormRepository) ListMonth(ctx context.Context, userID, yearMonth string) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date LIKE ?", userID, yearMonth+"-%").
		Order("date").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s in %s: %w", userID, yearMonth, err)
	}
	return recs, nil
}

func isMySQLError(err error, number uint16) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}
