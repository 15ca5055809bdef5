package segment

import (
	"errors"
	"math"
	"testing"

	"github.com/alexgasconn/RacePlanner/internal/track"
)

const metersPerDegreeLat = 6371000 * math.Pi / 180

// straightTrack builds normalized points marching north, spaced evenly.
func straightTrack(n int, spacingM float64, elevation func(i int) float64) []track.TrackPoint {
	points := make([]track.TrackPoint, n)
	for i := range points {
		points[i] = track.TrackPoint{
			Lat:        float64(i) * spacingM / metersPerDegreeLat,
			ElevationM: elevation(i),
			DistanceM:  float64(i) * spacingM,
		}
	}
	return points
}

func TestSplitEmpty(t *testing.T) {
	_, err := Split(nil, 1000)
	if !errors.Is(err, track.ErrEmptyTrack) {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}
}

func TestSplitInvalidLength(t *testing.T) {
	points := straightTrack(3, 100, func(int) float64 { return 0 })
	if _, err := Split(points, 0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestSplitCoverage(t *testing.T) {
	// 2.5 km track, 1 km segments: expect 3 segments, last 500 m.
	points := straightTrack(251, 10, func(int) float64 { return 0 })
	total := points[len(points)-1].DistanceM

	segments, err := Split(points, 1000)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].StartM != 0 {
		t.Fatalf("first segment must start at 0")
	}
	for i, seg := range segments {
		if seg.Seq != i+1 {
			t.Fatalf("segment %d has seq %d", i, seg.Seq)
		}
		if i > 0 && segments[i-1].EndM != seg.StartM {
			t.Fatalf("gap between segments %d and %d", i, i+1)
		}
	}
	last := segments[len(segments)-1]
	if math.Abs(last.EndM-total) > 1e-9 {
		t.Fatalf("segments do not cover track: %v != %v", last.EndM, total)
	}
	if math.Abs(last.DistanceM()-500) > 1 {
		t.Fatalf("remainder segment length %v, want ~500", last.DistanceM())
	}
}

func TestSplitBoundaryInterpolation(t *testing.T) {
	// Points at 0 and 1000 m climbing 0 -> 100 m; a 400 m segment
	// boundary falls between them.
	points := []track.TrackPoint{
		{Lat: 0, ElevationM: 0, DistanceM: 0},
		{Lat: 1000 / metersPerDegreeLat, ElevationM: 100, DistanceM: 1000},
	}

	segments, err := Split(points, 400)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	boundary := segments[0].Points[len(segments[0].Points)-1]
	if math.Abs(boundary.DistanceM-400) > 1e-9 {
		t.Fatalf("boundary distance %v, want 400", boundary.DistanceM)
	}
	if math.Abs(boundary.ElevationM-40) > 1e-9 {
		t.Fatalf("boundary elevation %v, want 40", boundary.ElevationM)
	}
	wantLat := 400 / metersPerDegreeLat
	if math.Abs(boundary.Lat-wantLat) > 1e-12 {
		t.Fatalf("boundary lat %v, want %v", boundary.Lat, wantLat)
	}

	// Same interpolated point opens the next segment.
	next := segments[1].Points[0]
	if next.DistanceM != boundary.DistanceM || next.ElevationM != boundary.ElevationM {
		t.Fatalf("adjacent segments disagree on boundary point")
	}
}

func TestSplitGradient(t *testing.T) {
	// Steady 5% climb: 2000 m, 100 m gain.
	points := straightTrack(201, 10, func(i int) float64 { return float64(i) * 0.5 })

	segments, err := Split(points, 1000)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	for i, seg := range segments {
		if math.Abs(seg.AvgGradientPct-5) > 0.1 {
			t.Fatalf("segment %d gradient %v, want ~5", i+1, seg.AvgGradientPct)
		}
		if seg.GainM <= 0 || seg.LossM != 0 {
			t.Fatalf("segment %d gain/loss %v/%v", i+1, seg.GainM, seg.LossM)
		}
	}
}

func TestSplitInteriorPoints(t *testing.T) {
	points := straightTrack(11, 100, func(int) float64 { return 0 })

	segments, err := Split(points, 500)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	// Boundaries at 0/500 plus interiors at 100..400.
	if len(segments[0].Points) != 6 {
		t.Fatalf("expected 6 points in first segment, got %d", len(segments[0].Points))
	}
	for i, p := range segments[0].Points {
		if i > 0 && p.DistanceM <= segments[0].Points[i-1].DistanceM {
			t.Fatalf("points out of order in segment")
		}
	}
}

func TestSplitSinglePointTrack(t *testing.T) {
	points := []track.TrackPoint{{Lat: 1, Lon: 1, ElevationM: 50, DistanceM: 0}}

	segments, err := Split(points, 1000)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 degenerate segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.DistanceM() != 0 || seg.AvgGradientPct != 0 {
		t.Fatalf("degenerate segment must have zero length and gradient: %+v", seg)
	}
}

func TestSplitExactMultiple(t *testing.T) {
	points := straightTrack(101, 10, func(int) float64 { return 0 })

	segments, err := Split(points, 500)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("track ending on a boundary must not add a segment, got %d", len(segments))
	}
	if segments[1].EndM != 1000 {
		t.Fatalf("unexpected final boundary: %v", segments[1].EndM)
	}
}
