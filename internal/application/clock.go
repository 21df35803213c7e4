package application

import "time"

// Clock supaya waktu bisa diganti di test
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC; preference timestamps and archive
// keys are stored in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
