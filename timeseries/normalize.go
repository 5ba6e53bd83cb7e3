package timeseries

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/icodeforyou/spotboard-go/hours"
	"github.com/icodeforyou/spotboard-go/types"
	"github.com/icodeforyou/spotboard-go/types/maybe"
	"github.com/spf13/cast"
)

// Resampling a wider span than this is treated as a broken timestamp.
const maxBuckets = 100_000

type Options struct {
	TimeField   string
	ValueFields []string
	// Bucket size for resampling, zero keeps the raw cadence.
	Cadence time.Duration
	// Location of timestamps without a zone, UTC if nil.
	Location *time.Location
}

// Normalize turns raw feed records into a strictly ascending series of the
// requested value fields.
//
// With a cadence, points are grouped into wall-clock buckets and each field is
// reduced to the mean of its defined values. Every bucket between the first and
// the last observed one is present; buckets nothing fell into have no values.
// Without a cadence, points sharing the exact same timestamp are collapsed into
// the one that came later in records.
//
// An empty record list gives an empty series. A field missing from every record
// is an ErrSchemaMismatch.
func Normalize(records []types.RawRecord, opts Options) (Series, error) {
	series := Series{
		Fields:  slices.Clone(opts.ValueFields),
		Cadence: opts.Cadence,
	}
	if len(records) == 0 {
		return series, nil
	}

	if opts.TimeField == "" {
		return Series{}, fmt.Errorf("%w: no time field given", types.ErrSchemaMismatch)
	}
	for _, field := range append([]string{opts.TimeField}, opts.ValueFields...) {
		if !hasField(records, field) {
			return Series{}, fmt.Errorf("%w: field %q is absent from all %d records",
				types.ErrSchemaMismatch, field, len(records))
		}
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	points := make([]Point, 0, len(records))
	for i, rec := range records {
		raw, ok := rec[opts.TimeField]
		if !ok || raw == nil {
			continue
		}
		ts, err := cast.ToTimeInDefaultLocationE(raw, loc)
		if err != nil {
			return Series{}, fmt.Errorf("%w: record %d, field %q: %v",
				types.ErrSchemaMismatch, i, opts.TimeField, err)
		}
		values := make([]maybe.Maybe[float64], len(opts.ValueFields))
		for j, field := range opts.ValueFields {
			values[j] = parseValue(rec[field])
		}
		points = append(points, Point{Time: ts, Values: values})
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		return a.Time.Compare(b.Time)
	})

	if opts.Cadence > 0 {
		resampled, err := resample(points, len(opts.ValueFields), opts.Cadence)
		if err != nil {
			return Series{}, err
		}
		series.Points = resampled
	} else {
		series.Points = dedupe(points)
	}

	return series, nil
}

func hasField(records []types.RawRecord, field string) bool {
	for _, rec := range records {
		if _, ok := rec[field]; ok {
			return true
		}
	}
	return false
}

func parseValue(v any) maybe.Maybe[float64] {
	if v == nil {
		return maybe.None[float64]()
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return maybe.None[float64]()
	}
	return maybe.Some(f)
}

// points must be sorted ascending
func dedupe(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func resample(points []Point, width int, cadence time.Duration) ([]Point, error) {
	if len(points) == 0 {
		return nil, nil
	}

	// Buckets are keyed by naive wall clock, so a bucket is a local hour even
	// across DST changes.
	loc := points[0].Time.Location()
	keys := make([]time.Time, len(points))
	first, last := time.Time{}, time.Time{}
	for i, p := range points {
		keys[i] = hours.Naive(p.Time).Truncate(cadence)
		if i == 0 || keys[i].Before(first) {
			first = keys[i]
		}
		if i == 0 || keys[i].After(last) {
			last = keys[i]
		}
	}

	n := int(last.Sub(first)/cadence) + 1
	if n > maxBuckets || n <= 0 {
		return nil, fmt.Errorf("%w: %s to %s spans too many %s buckets",
			types.ErrSchemaMismatch, first.Format(time.DateTime), last.Format(time.DateTime), cadence)
	}

	sums := make([][]float64, n)
	counts := make([][]int, n)
	for i, p := range points {
		b := int(keys[i].Sub(first) / cadence)
		if sums[b] == nil {
			sums[b] = make([]float64, width)
			counts[b] = make([]int, width)
		}
		for j, v := range p.Values {
			if v.IsValid() {
				sums[b][j] += v.Value()
				counts[b][j]++
			}
		}
	}

	out := make([]Point, n)
	for b := range out {
		key := first.Add(time.Duration(b) * cadence)
		values := make([]maybe.Maybe[float64], width)
		for j := range values {
			if counts[b] != nil && counts[b][j] > 0 {
				values[j] = maybe.Some(sums[b][j] / float64(counts[b][j]))
			}
		}
		out[b] = Point{
			Time:   time.Date(key.Year(), key.Month(), key.Day(), key.Hour(), key.Minute(), key.Second(), 0, loc),
			Values: values,
		}
	}

	return out, nil
}
