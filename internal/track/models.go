package track

import (
	"errors"
	"time"
)

// ErrEmptyTrack is returned when a track has no usable samples.
var ErrEmptyTrack = errors.New("track has no points")

// RawSample is a single GPS fix as handed over by whatever parsed the
// source file. Time is optional and zero when the source had none.
type RawSample struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ElevationM float64   `json:"elevation_m"`
	Time       time.Time `json:"time,omitempty"`
}

// TrackPoint is a normalized sample with its cumulative distance from the
// start of the track. DistanceM is non-decreasing across a track.
type TrackPoint struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ElevationM float64   `json:"elevation_m"`
	Time       time.Time `json:"time,omitempty"`
	DistanceM  float64   `json:"distance_m"`
}

// Summary aggregates a normalized track. Computed once, never mutated.
type Summary struct {
	Name           string  `json:"name,omitempty"`
	TotalDistanceM float64 `json:"total_distance_m"`
	ElevationGainM float64 `json:"elevation_gain_m"`
	ElevationLossM float64 `json:"elevation_loss_m"`
	MaxElevationM  float64 `json:"max_elevation_m"`
	MinElevationM  float64 `json:"min_elevation_m"`
	PointCount     int     `json:"point_count"`
}
