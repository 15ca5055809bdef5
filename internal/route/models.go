package route

import (
	"time"

	"github.com/alexgasconn/RacePlanner/internal/track"
)

// Route is an uploaded course: its normalized summary plus the stored
// track points. Points are persisted as a JSON document since the
// engine always consumes the whole ordered sequence at once.
type Route struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedBy      string    `json:"created_by"`
	TotalDistanceM float64   `json:"total_distance_m"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	ElevationLossM float64   `json:"elevation_loss_m"`
	MaxElevationM  float64   `json:"max_elevation_m"`
	MinElevationM  float64   `json:"min_elevation_m"`
	PointCount     int       `json:"point_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// AidStation is a rest stop anchored to a course distance. Distance is
// stored in kilometers regardless of the athlete's display units.
type AidStation struct {
	ID         string    `json:"id"`
	RouteID    string    `json:"route_id"`
	Name       string    `json:"name"`
	DistanceKm float64   `json:"distance_km"`
	PenaltySec float64   `json:"penalty_sec"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadRequest carries the parsed samples of a course file. Parsing
// the file format itself is the uploader's concern.
type UploadRequest struct {
	Name    string            `json:"name"`
	Samples []track.RawSample `json:"samples"`
}
