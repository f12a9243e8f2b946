package extract

import (
	"fmt"
	"regexp"
	"time"
	_ "time/tzdata" // Pacific rules must not depend on the host zoneinfo
)

const (
	// DefaultSourceOffsetHours is the recording zone of history exports
	// (Bangkok civil time, no DST).
	DefaultSourceOffsetHours = 7
	// DefaultTargetZone observes US Pacific daylight saving.
	DefaultTargetZone = "America/Los_Angeles"
)

// Zones holds the two zones a conversion works between.
type Zones struct {
	Source *time.Location
	Target *time.Location
}

// NewZones builds a fixed-offset source zone and loads the target zone
// from the embedded tz database.
func NewZones(sourceOffsetHours int, target string) (Zones, error) {
	if sourceOffsetHours < -12 || sourceOffsetHours > 14 {
		return Zones{}, fmt.Errorf("source offset %d hours out of range", sourceOffsetHours)
	}
	loc, err := time.LoadLocation(target)
	if err != nil {
		return Zones{}, fmt.Errorf("load target zone %q: %w", target, err)
	}
	return Zones{
		Source: time.FixedZone(fmt.Sprintf("UTC%+d", sourceOffsetHours), sourceOffsetHours*3600),
		Target: loc,
	}, nil
}

// DefaultZones returns UTC+7 -> America/Los_Angeles.
func DefaultZones() Zones {
	z, err := NewZones(DefaultSourceOffsetHours, DefaultTargetZone)
	if err != nil {
		// tzdata is linked in, so the default zone always loads
		panic(err)
	}
	return z
}

// clockRe is the only accepted time cell shape. time.Parse would also
// take trailing fractional seconds.
var clockRe = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}$`)

// Conversion is either a converted timestamp or the reason it failed.
type Conversion struct {
	at     time.Time
	reason string
	ok     bool
}

// Converted wraps a successful conversion.
func Converted(t time.Time) Conversion {
	return Conversion{at: t, ok: true}
}

// Failed wraps a conversion failure.
func Failed(reason string) Conversion {
	return Conversion{reason: reason}
}

// OK reports whether the conversion succeeded.
func (c Conversion) OK() bool { return c.ok }

// Time returns the converted instant; zero when !OK().
func (c Conversion) Time() time.Time { return c.at }

// Reason returns the failure reason; empty when OK().
func (c Conversion) Reason() string { return c.reason }

// Convert combines a calendar date with a HH:MM:SS wall-clock time read in
// the source zone and returns the same instant in the target zone.
func (z Zones) Convert(date time.Time, clock string) Conversion {
	if !clockRe.MatchString(clock) {
		return Failed(fmt.Sprintf("time %q does not match HH:MM:SS", clock))
	}
	stamp := date.Format("2006-01-02") + " " + clock
	t, err := time.ParseInLocation(TimestampLayout, stamp, z.Source)
	if err != nil {
		return Failed(err.Error())
	}
	return Converted(t.In(z.Target))
}
