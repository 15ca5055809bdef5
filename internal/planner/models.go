package planner

import (
	"github.com/alexgasconn/RacePlanner/internal/plan"
	"github.com/alexgasconn/RacePlanner/internal/segment"
	"github.com/alexgasconn/RacePlanner/internal/track"
)

// PlanResponse is the full pacing plan for one (route, options) pair.
type PlanResponse struct {
	RouteID      string                `json:"route_id"`
	Options      plan.Options          `json:"options"`
	Summary      track.Summary         `json:"summary"`
	TotalRestSec float64               `json:"total_rest_sec"`
	Segments     []plan.PlannedSegment `json:"segments"`
}

// SegmentsResponse lists raw segments without pacing, for previewing a
// segment-length choice.
type SegmentsResponse struct {
	RouteID  string            `json:"route_id"`
	LengthM  float64           `json:"length_m"`
	Segments []segment.Segment `json:"segments"`
}
