package plan

import (
	"errors"

	"github.com/alexgasconn/RacePlanner/internal/segment"
)

var (
	// ErrEmptyTrack is returned when there are no segments to plan over.
	ErrEmptyTrack = errors.New("no segments to plan")

	// ErrInvalidConfig is returned for a non-positive goal time or
	// segment length.
	ErrInvalidConfig = errors.New("goal time and segment length must be positive")
)

// Unit systems accepted in Options.Units. Unit conversion is purely a
// presentation concern; all internal math stays in meters and seconds.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// RestStop is a fixed time penalty anchored to a course distance. The
// distance is expressed in the course's display unit (km or mi,
// depending on Options.Units).
type RestStop struct {
	ID         string  `json:"id"`
	Distance   float64 `json:"distance"`
	PenaltySec float64 `json:"penalty_sec"`
}

// Options configures a single plan computation.
type Options struct {
	GoalTimeSeconds int        `json:"goal_time_seconds"`
	SegmentLengthM  float64    `json:"segment_length_m"`
	Units           string     `json:"units"`
	RestStops       []RestStop `json:"rest_stops,omitempty"`
}

// Validate rejects configurations the engine cannot plan for.
func (o Options) Validate() error {
	if o.GoalTimeSeconds <= 0 || o.SegmentLengthM <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// PlannedSegment is a segment enriched with its share of the time
// budget. TargetDurationSec includes any rest-stop penalty assigned to
// the segment; TargetPaceSecPerKm covers running time only.
type PlannedSegment struct {
	segment.Segment

	ElevationChangeM   float64 `json:"elevation_change_m"`
	TargetDurationSec  float64 `json:"target_duration_sec"`
	TargetPaceSecPerKm float64 `json:"target_pace_sec_per_km"`
	CumulativeSec      float64 `json:"cumulative_sec"`
	HasRestStop        bool    `json:"has_rest_stop"`
	FatigueLevelPct    int     `json:"fatigue_level_pct"`
}
