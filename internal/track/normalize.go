package track

import (
	"github.com/alexgasconn/RacePlanner/internal/shared/geo"
)

const (
	// minPointSpacingM drops GPS jitter from standing still: a sample is
	// kept only if it moved at least this far from the last kept sample.
	minPointSpacingM = 8.0

	// downsampleThreshold bounds downstream cost on very dense recordings.
	downsampleThreshold = 50000
)

// Normalize turns raw GPS samples into a clean TrackPoint sequence with
// validated cumulative distance, smoothed elevation and an aggregate
// Summary. The input slice is not modified.
func Normalize(samples []RawSample) ([]TrackPoint, Summary, error) {
	if len(samples) == 0 {
		return nil, Summary{}, ErrEmptyTrack
	}

	samples = downsample(samples)
	kept := filterJitter(samples)
	elevations := smoothElevation(kept)

	points := make([]TrackPoint, len(kept))
	cumulative := 0.0
	for i, s := range kept {
		if i > 0 {
			prev := kept[i-1]
			cumulative += geo.DistanceMeters(prev.Lat, prev.Lon, s.Lat, s.Lon)
		}
		points[i] = TrackPoint{
			Lat:        s.Lat,
			Lon:        s.Lon,
			ElevationM: elevations[i],
			Time:       s.Time,
			DistanceM:  cumulative,
		}
	}

	return points, Summarize(points), nil
}

// downsample keeps first, last and every second interior point once the
// track exceeds the density threshold. Lossy, but the spacing filter
// below removes more than this does on typical recordings.
func downsample(samples []RawSample) []RawSample {
	if len(samples) <= downsampleThreshold {
		return samples
	}
	out := make([]RawSample, 0, len(samples)/2+2)
	out = append(out, samples[0])
	for i := 1; i < len(samples)-1; i += 2 {
		out = append(out, samples[i])
	}
	out = append(out, samples[len(samples)-1])
	return out
}

func filterJitter(samples []RawSample) []RawSample {
	if len(samples) < 2 {
		return samples
	}
	kept := make([]RawSample, 0, len(samples))
	kept = append(kept, samples[0])
	for i := 1; i < len(samples)-1; i++ {
		last := kept[len(kept)-1]
		d := geo.DistanceMeters(last.Lat, last.Lon, samples[i].Lat, samples[i].Lon)
		if d >= minPointSpacingM {
			kept = append(kept, samples[i])
		}
	}
	kept = append(kept, samples[len(samples)-1])
	return kept
}

// smoothElevation applies a 3-tap weighted moving average (0.2/0.6/0.2)
// over elevation, leaving the endpoints untouched.
func smoothElevation(samples []RawSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.ElevationM
	}
	if len(samples) < 3 {
		return out
	}
	for i := 1; i < len(samples)-1; i++ {
		out[i] = 0.2*samples[i-1].ElevationM + 0.6*samples[i].ElevationM + 0.2*samples[i+1].ElevationM
	}
	return out
}

// Summarize aggregates distance, gain/loss and elevation extrema over a
// normalized point sequence. Callers must pass at least one point.
func Summarize(points []TrackPoint) Summary {
	s := Summary{
		PointCount:     len(points),
		TotalDistanceM: points[len(points)-1].DistanceM,
		MaxElevationM:  points[0].ElevationM,
		MinElevationM:  points[0].ElevationM,
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
				s.ElevationGainM += delta
			} else {
				s.ElevationLossM += -delta
			}
		}
	}
	return s
}
