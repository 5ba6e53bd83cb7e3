package timeseries

import (
	"slices"
	"time"

	"github.com/icodeforyou/spotboard-go/types/maybe"
)

// Point is one timestamp with one optional value per series field.
type Point struct {
	Time   time.Time
	Values []maybe.Maybe[float64]
}

// Series is a strictly ascending sequence of points. When Cadence is set the
// points are exactly Cadence apart, without gaps.
type Series struct {
	Fields  []string
	Cadence time.Duration
	Points  []Point
}

func (s Series) Len() int {
	return len(s.Points)
}

func (s Series) IsEmpty() bool {
	return len(s.Points) == 0
}

// Index returns the column index of field, or -1.
func (s Series) Index(field string) int {
	return slices.Index(s.Fields, field)
}

// Column returns the values of field, nil if the series has no such field.
func (s Series) Column(field string) []maybe.Maybe[float64] {
	idx := s.Index(field)
	if idx < 0 {
		return nil
	}
	col := make([]maybe.Maybe[float64], len(s.Points))
	for i, p := range s.Points {
		col[i] = p.Values[idx]
	}
	return col
}

func (s Series) Times() []time.Time {
	times := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		times[i] = p.Time
	}
	return times
}

// Latest returns the last point of the series.
func (s Series) Latest() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Map returns a copy of the series where every defined value of field has been
// replaced by fn(value). Points without a value stay without one.
func (s Series) Map(field string, fn func(float64) float64) Series {
	idx := s.Index(field)
	out := Series{
		Fields:  slices.Clone(s.Fields),
		Cadence: s.Cadence,
		Points:  make([]Point, len(s.Points)),
	}
	for i, p := range s.Points {
		values := slices.Clone(p.Values)
		if idx >= 0 {
			values[idx] = maybe.Map(values[idx], fn)
		}
		out.Points[i] = Point{Time: p.Time, Values: values}
	}
	return out
}
