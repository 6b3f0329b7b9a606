package core

import (
	"time"
)

// Timestamp is the creation time stamped onto immutable reports
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero reports whether the timestamp is unset
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// String returns the RFC3339 representation
func (t Timestamp) String() string { return t.Time().Format(time.RFC3339) }
