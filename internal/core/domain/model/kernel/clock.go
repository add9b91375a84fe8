package kernel

import "time"

// Clock supplies the current time to the domain. Handlers take a Clock so that
// timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// IDGenerator produces order identifiers.
type IDGenerator interface {
	NewID() UUID
}

// RandomIDGenerator produces random version 4 UUIDs.
type RandomIDGenerator struct{}

func (RandomIDGenerator) NewID() UUID {
	return NewUUID()
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() UUID

func (f IDGeneratorFunc) NewID() UUID {
	return f()
}
