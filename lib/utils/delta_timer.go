package utils

import "time"

// DeltaTimer reports the time elapsed between successive calls to Next.
// The first call returns zero. Clock defaults to time.Now.
type DeltaTimer struct {
	Clock func() time.Time

	last time.Time
}

func (d *DeltaTimer) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// Next returns the time since the previous call, never negative.
func (d *DeltaTimer) Next() time.Duration {
	now := d.now()
	last := d.last
	d.last = now

	if last.IsZero() {
		return 0
	}
	if dt := now.Sub(last); dt > 0 {
		return dt
	}
	return 0
}

// Reset makes the next call to Next start a fresh measurement.
func (d *DeltaTimer) Reset() {
	d.last = time.Time{}
}
