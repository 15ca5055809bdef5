package route

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alexgasconn/RacePlanner/internal/db"
	"github.com/alexgasconn/RacePlanner/internal/track"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

// Create normalizes the uploaded samples and stores the route with its
// summary and point sequence.
func (s *Service) Create(ctx context.Context, createdBy string, req UploadRequest) (Route, error) {
	points, summary, err := track.Normalize(req.Samples)
	if err != nil {
		return Route{}, err
	}

	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return Route{}, err
	}

	route := Route{
		ID:             uuid.NewString(),
		Name:           req.Name,
		CreatedBy:      createdBy,
		TotalDistanceM: summary.TotalDistanceM,
		ElevationGainM: summary.ElevationGainM,
		ElevationLossM: summary.ElevationLossM,
		MaxElevationM:  summary.MaxElevationM,
		MinElevationM:  summary.MinElevationM,
		PointCount:     summary.PointCount,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, name, created_by, total_distance_m, elevation_gain_m, elevation_loss_m, max_elevation_m, min_elevation_m, point_count, points)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, route.ID, route.Name, route.CreatedBy, route.TotalDistanceM, route.ElevationGainM, route.ElevationLossM,
		route.MaxElevationM, route.MinElevationM, route.PointCount, pointsJSON)
	if err := row.Scan(&route.CreatedAt); err != nil {
		return Route{}, err
	}
	return route, nil
}

func (s *Service) Get(ctx context.Context, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, created_by, total_distance_m, elevation_gain_m, elevation_loss_m, max_elevation_m, min_elevation_m, point_count, created_at
		FROM routes WHERE id=$1
	`, id)
	var r Route
	if err := row.Scan(&r.ID, &r.Name, &r.CreatedBy, &r.TotalDistanceM, &r.ElevationGainM, &r.ElevationLossM,
		&r.MaxElevationM, &r.MinElevationM, &r.PointCount, &r.CreatedAt); err != nil {
		return Route{}, err
	}
	return r, nil
}

// Points loads the stored normalized point sequence of a route.
func (s *Service) Points(ctx context.Context, id string) ([]track.TrackPoint, error) {
	var pointsJSON []byte
	if err := s.db.QueryRow(ctx, `SELECT points FROM routes WHERE id=$1`, id).Scan(&pointsJSON); err != nil {
		return nil, err
	}
	var points []track.TrackPoint
	if err := json.Unmarshal(pointsJSON, &points); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, track.ErrEmptyTrack
	}
	return points, nil
}

func (s *Service) List(ctx context.Context, createdBy string) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, created_by, total_distance_m, elevation_gain_m, elevation_loss_m, max_elevation_m, min_elevation_m, point_count, created_at
		FROM routes WHERE created_by=$1
		ORDER BY created_at DESC
	`, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedBy, &r.TotalDistanceM, &r.ElevationGainM, &r.ElevationLossM,
			&r.MaxElevationM, &r.MinElevationM, &r.PointCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id)
	return err
}

func (s *Service) AddAidStation(ctx context.Context, routeID string, input AidStation) (AidStation, error) {
	if input.DistanceKm < 0 || input.PenaltySec < 0 {
		return AidStation{}, errors.New("distance and penalty must be non-negative")
	}
	input.ID = uuid.NewString()
	input.RouteID = routeID

	row := s.db.QueryRow(ctx, `
		INSERT INTO aid_stations (id, route_id, name, distance_km, penalty_sec)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.RouteID, input.Name, input.DistanceKm, input.PenaltySec)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return AidStation{}, err
	}
	return input, nil
}

func (s *Service) AidStations(ctx context.Context, routeID string) ([]AidStation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_id, name, distance_km, penalty_sec, created_at
		FROM aid_stations WHERE route_id=$1
		ORDER BY distance_km
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []AidStation
	for rows.Next() {
		var a AidStation
		if err := rows.Scan(&a.ID, &a.RouteID, &a.Name, &a.DistanceKm, &a.PenaltySec, &a.CreatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, a)
	}
	return stations, nil
}

func (s *Service) DeleteAidStation(ctx context.Context, routeID, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM aid_stations WHERE id=$1 AND route_id=$2`, id, routeID)
	return err
}
