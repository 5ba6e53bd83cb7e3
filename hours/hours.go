package hours

import (
	"fmt"
	"time"
	_ "time/tzdata" // hosts without a zoneinfo database
)

const (
	LabelLayout = "Mon 15:04"
	QueryLayout = "2006-01-02T15:04"
	NaiveLayout = "2006-01-02T15:04:05"
)

var localLocation *time.Location

func init() {
	var err error
	localLocation, err = time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		panic(fmt.Sprintf("failed to load Copenhagen location: %v", err))
	}
}

// SetLocalTimezone sets the timezone of the price area, used for the naive "now".
func SetLocalTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	localLocation = loc
	return nil
}

func LocalLocation() *time.Location {
	return localLocation
}

// Naive drops the zone of t and keeps its wall clock, expressed in UTC.
// Naive times compare and add by wall clock, without DST jumps.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// NowNaive is the current wall clock in the local timezone, as a naive time.
func NowNaive() time.Time {
	return Naive(time.Now().In(localLocation))
}

// Truncate rounds t down to a multiple of d, counted on the wall clock of t's location.
func Truncate(t time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return t
	}
	w := Naive(t).Truncate(d)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), t.Location())
}

func Label(t time.Time) string {
	return t.Format(LabelLayout)
}

func QueryString(t time.Time) string {
	return t.Format(QueryLayout)
}
