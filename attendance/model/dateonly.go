package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const dateOnlyLayout = "2006-01-02" // yyyy-MM-dd

// DateOnly is a yyyy-MM-dd calendar day backed by a DATE column. With
// parseTime=true in the DSN the MySQL driver hands DATE values back as
// time.Time, which a plain string field would render as RFC3339; scanning
// through this type keeps the day in its wire format both ways.
type DateOnly string

func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DateOnly(v.Format(dateOnlyLayout))
	case []byte:
		*d = DateOnly(v)
	case string:
		*d = DateOnly(v)
	default:
		return fmt.Errorf("unsupported date value of type %T", value)
	}
	return nil
}

func (d DateOnly) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func (d DateOnly) String() string {
	return string(d)
}
