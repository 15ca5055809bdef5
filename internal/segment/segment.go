package segment

import (
	"errors"
	"math"

	"github.com/alexgasconn/RacePlanner/internal/shared/geo"
	"github.com/alexgasconn/RacePlanner/internal/track"
)

// ErrInvalidLength is returned for a non-positive segment length.
var ErrInvalidLength = errors.New("segment length must be positive")

// Segment is a fixed-length slice of the course by cumulative distance.
// Segments are contiguous, non-overlapping and cover [0, total] exactly.
type Segment struct {
	Seq            int                `json:"seq"`
	StartM         float64            `json:"start_m"`
	EndM           float64            `json:"end_m"`
	GainM          float64            `json:"gain_m"`
	LossM          float64            `json:"loss_m"`
	AvgGradientPct float64            `json:"avg_gradient_pct"`
	MaxElevationM  float64            `json:"max_elevation_m"`
	MinElevationM  float64            `json:"min_elevation_m"`
	Points         []track.TrackPoint `json:"points,omitempty"`
}

// DistanceM returns the segment's length in meters.
func (s Segment) DistanceM() float64 {
	return s.EndM - s.StartM
}

// Split cuts a normalized track into fixed-length distance segments with
// interpolated boundary points. A track whose total distance is not a
// multiple of lengthM ends with a shorter remainder segment, possibly of
// zero length when the track ends exactly on a boundary.
func Split(points []track.TrackPoint, lengthM float64) ([]Segment, error) {
	if len(points) == 0 {
		return nil, track.ErrEmptyTrack
	}
	if lengthM <= 0 {
		return nil, ErrInvalidLength
	}

	total := points[len(points)-1].DistanceM
	count := int(math.Ceil(total / lengthM))
	if count == 0 {
		count = 1
	}

	segments := make([]Segment, 0, count)
	cursor := 0 // never rewinds: O(n) across all segments
	for i := 0; i < count; i++ {
		startM := float64(i) * lengthM
		endM := math.Min(float64(i+1)*lengthM, total)

		start, c := interpolateAt(points, startM, cursor)
		cursor = c

		segPoints := []track.TrackPoint{start}
		for cursor < len(points) && points[cursor].DistanceM < endM {
			if points[cursor].DistanceM > startM {
				segPoints = append(segPoints, points[cursor])
			}
			cursor++
		}
		// Leave the cursor on the bracket start for the next segment.
		if cursor > 0 {
			cursor--
		}
		end, c := interpolateAt(points, endM, cursor)
		cursor = c
		segPoints = append(segPoints, end)

		segments = append(segments, build(i+1, startM, endM, segPoints))
	}
	return segments, nil
}

// interpolateAt returns the track point at the exact cumulative distance
// d, linearly interpolating lat/lon/elevation between the bracketing
// points. The scan starts at from and the chosen bracket index is
// returned so callers can keep a monotonic cursor.
func interpolateAt(points []track.TrackPoint, d float64, from int) (track.TrackPoint, int) {
	i := from
	for i < len(points)-1 && points[i+1].DistanceM < d {
		i++
	}
	if i >= len(points)-1 {
		last := points[len(points)-1]
		last.DistanceM = d
		return last, len(points) - 1
	}

	a, b := points[i], points[i+1]
	span := b.DistanceM - a.DistanceM
	t := 0.0
	if span > 0 {
		t = (d - a.DistanceM) / span
	}
	return track.TrackPoint{
		Lat:        geo.Lerp(a.Lat, b.Lat, t),
		Lon:        geo.Lerp(a.Lon, b.Lon, t),
		ElevationM: geo.Lerp(a.ElevationM, b.ElevationM, t),
		DistanceM:  d,
	}, i
}

func build(seq int, startM, endM float64, points []track.TrackPoint) Segment {
	s := Segment{
		Seq:           seq,
		StartM:        startM,
		EndM:          endM,
		MaxElevationM: points[0].ElevationM,
		MinElevationM: points[0].ElevationM,
		Points:        points,
	}
	for i, p := range points {
		if p.ElevationM > s.MaxElevationM {
			s.MaxElevationM = p.ElevationM
		}
		if p.ElevationM < s.MinElevationM {
			s.MinElevationM = p.ElevationM
		}
		if i > 0 {
			delta := p.ElevationM - points[i-1].ElevationM
			if delta > 0 {
				s.GainM += delta
			} else {
				s.LossM += -delta
			}
		}
	}
	if dist := endM - startM; dist > 0 {
		s.AvgGradientPct = (points[len(points)-1].ElevationM - points[0].ElevationM) / dist * 100
	}
	return s
}
