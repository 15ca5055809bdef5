package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"github.com/alexgasconn/RacePlanner/internal/db"
	"github.com/alexgasconn/RacePlanner/internal/plan"
	"github.com/alexgasconn/RacePlanner/internal/route"
	"github.com/alexgasconn/RacePlanner/internal/segment"
	"github.com/alexgasconn/RacePlanner/internal/track"

	"github.com/redis/go-redis/v9"
)

type Service struct {
	routes   *route.Service
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewService(querier db.Querier, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		routes:   route.NewService(querier),
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

// BuildPlan computes the pacing plan for a stored route. When the
// request carries no rest stops, the route's stored aid stations are
// used. Results are cached per (route, options) pair; the computation
// is deterministic so a cache hit is exact.
func (s *Service) BuildPlan(ctx context.Context, routeID string, opts plan.Options) (PlanResponse, error) {
	if opts.Units == "" {
		opts.Units = plan.UnitsMetric
	}
	if err := opts.Validate(); err != nil {
		return PlanResponse{}, err
	}

	if len(opts.RestStops) == 0 {
		stops, err := s.restStopsFromAidStations(ctx, routeID, opts.Units)
		if err != nil {
			return PlanResponse{}, err
		}
		opts.RestStops = stops
	}

	key := cacheKey(routeID, opts)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	points, err := s.routes.Points(ctx, routeID)
	if err != nil {
		return PlanResponse{}, err
	}

	segments, err := segment.Split(points, opts.SegmentLengthM)
	if err != nil {
		return PlanResponse{}, err
	}

	total := points[len(points)-1].DistanceM
	planned, err := plan.Build(segments, total, opts)
	if err != nil {
		return PlanResponse{}, err
	}

	totalRest := 0.0
	for _, stop := range opts.RestStops {
		totalRest += stop.PenaltySec
	}

	resp := PlanResponse{
		RouteID:      routeID,
		Options:      opts,
		Summary:      track.Summarize(points),
		TotalRestSec: totalRest,
		Segments:     planned,
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// Segments splits a stored route without computing a plan.
func (s *Service) Segments(ctx context.Context, routeID string, lengthM float64) (SegmentsResponse, error) {
	points, err := s.routes.Points(ctx, routeID)
	if err != nil {
		return SegmentsResponse{}, err
	}
	segments, err := segment.Split(points, lengthM)
	if err != nil {
		return SegmentsResponse{}, err
	}
	return SegmentsResponse{RouteID: routeID, LengthM: lengthM, Segments: segments}, nil
}

func (s *Service) restStopsFromAidStations(ctx context.Context, routeID, units string) ([]plan.RestStop, error) {
	stations, err := s.routes.AidStations(ctx, routeID)
	if err != nil {
		return nil, err
	}
	stops := make([]plan.RestStop, 0, len(stations))
	for _, station := range stations {
		distance := station.DistanceKm
		if units == plan.UnitsImperial {
			distance = plan.KmToMi(station.DistanceKm)
		}
		stops = append(stops, plan.RestStop{
			ID:         station.ID,
			Distance:   distance,
			PenaltySec: station.PenaltySec,
		})
	}
	return stops, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (PlanResponse, bool) {
	if s.redis == nil {
		return PlanResponse{}, false
	}
	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return PlanResponse{}, false
	}
	var resp PlanResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return PlanResponse{}, false
	}
	return resp, true
}

func (s *Service) cacheSet(ctx context.Context, key string, resp PlanResponse) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		log.Printf("plan cache set error: %v", err)
	}
}

// cacheKey hashes the canonical options JSON so any configuration
// change produces a fresh computation.
func cacheKey(routeID string, opts plan.Options) string {
	payload, _ := json.Marshal(opts)
	h := fnv.New64a()
	_, _ = h.Write(payload)
	return fmt.Sprintf("plan:%s:%x", routeID, h.Sum64())
}
