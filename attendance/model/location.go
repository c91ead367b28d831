package model

import "time"

// AttendanceLocation is the position fix captured at check-in. Exactly one
// row per attendance record, written right after the record itself; a record
// without its location row is a repairable inconsistency, not a valid state.
type AttendanceLocation struct {
	ID           int64   `gorm:"primaryKey;column:id" json:"id"`
	AttendanceID int64   `gorm:"column:attendance_id;not null;uniqueIndex" json:"attendance_id"`
	Latitude     float64 `gorm:"column:latitude;not null" json:"latitude"`
	Longitude    float64 `gorm:"column:longitude;not null" json:"longitude"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"-"`

	Attendance AttendanceRecord `gorm:"foreignKey:AttendanceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AttendanceLocation) TableName() string {
	return "attendance_location"
}
