package model

import "time"

// AttendanceRecord is one employee's attendance for one calendar day.
// The (user_id, date) unique index is the single arbiter against double
// check-in; concurrent sessions race on it and the loser gets a duplicate
// key error.
type AttendanceRecord struct {
	ID        int64    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string   `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_attendance_user_date,priority:1" json:"user_id"`
	Date      DateOnly `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendance_user_date,priority:2" json:"date"`
	CheckIn   string   `gorm:"column:check_in;type:time;not null" json:"check_in"`
	CheckOut  *string  `gorm:"column:check_out;type:time" json:"check_out"`
	SelfieURL string   `gorm:"column:selfie_url;type:varchar(512);not null" json:"selfie_url"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"-"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}
