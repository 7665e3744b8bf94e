package chrono

import (
	"sync"
	"time"
)

// Manila is the IANA name of the zone every calendar date in this service is computed in.
const Manila = "Asia/Manila"

// API is a clock fixed to a single timezone.
type API interface {
	Now() time.Time
	Location() *time.Location
}

// StandardImpl reads the wall clock.
type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl() (StandardImpl, error) {
	location, err := LoadManila()
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// LoadManila loads Asia/Manila, falling back to a fixed UTC+8 zone (the Philippines does not
// observe DST) when the host has no tz database.
func LoadManila() (*time.Location, error) {
	location, err := time.LoadLocation(Manila)
	if err != nil {
		return time.FixedZone(Manila, 8*60*60), nil
	}
	return location, nil
}

// FixedImpl is a clock that only moves when told to.
type FixedImpl struct {
	mutex    sync.Mutex
	now      time.Time
	location *time.Location
}

func NewFixedImpl(now time.Time) *FixedImpl {
	location, _ := LoadManila()
	return &FixedImpl{now: now, location: location}
}

func (f *FixedImpl) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.now.In(f.location)
}

func (f *FixedImpl) Location() *time.Location {
	return f.location
}

// Advance moves the clock forward by d.
func (f *FixedImpl) Advance(d time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.now = f.now.Add(d)
}
