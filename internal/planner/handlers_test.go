package planner

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexgasconn/RacePlanner/internal/plan"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestPlanHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT points FROM routes`).
		WithArgs("route-1").
		WillReturnRows(pgxmock.NewRows([]string{"points"}).AddRow(flatTrackJSON(t, 101, 100)))

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock, nil, time.Minute), 1000)

	body, _ := json.Marshal(plan.Options{
		GoalTimeSeconds: 3600,
		RestStops:       []plan.RestStop{{ID: "a", Distance: 5, PenaltySec: 60}},
	})
	req := httptest.NewRequest(http.MethodPost, "/routes/route-1/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("plan status: %v %d", err, resp.StatusCode)
	}

	payload, _ := io.ReadAll(resp.Body)
	var planResp PlanResponse
	if err := json.Unmarshal(payload, &planResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The handler fills in the default segment length.
	if len(planResp.Segments) != 10 {
		t.Fatalf("expected 10 segments, got %d", len(planResp.Segments))
	}
	last := planResp.Segments[len(planResp.Segments)-1]
	if math.Abs(last.CumulativeSec-3600) > 1e-3 {
		t.Fatalf("budget not conserved over HTTP: %v", last.CumulativeSec)
	}
}

func TestPlanHandlerInvalidGoal(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(nil, nil, time.Minute), 1000)

	body, _ := json.Marshal(plan.Options{GoalTimeSeconds: -5})
	req := httptest.NewRequest(http.MethodPost, "/routes/route-1/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}

func TestSegmentsHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT points FROM routes`).
		WithArgs("route-1").
		WillReturnRows(pgxmock.NewRows([]string{"points"}).AddRow(flatTrackJSON(t, 101, 100)))

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock, nil, time.Minute), 1000)

	req := httptest.NewRequest(http.MethodGet, "/routes/route-1/segments?length_m=5000", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("segments status: %v", err)
	}

	payload, _ := io.ReadAll(resp.Body)
	var segResp SegmentsResponse
	if err := json.Unmarshal(payload, &segResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(segResp.Segments) != 2 || segResp.LengthM != 5000 {
		t.Fatalf("unexpected segments response: %d segments, length %v", len(segResp.Segments), segResp.LengthM)
	}
}

func TestSegmentsHandlerLookupError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT points FROM routes`).
		WithArgs("missing").
		WillReturnError(errPlanner)

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock, nil, time.Minute), 1000)

	req := httptest.NewRequest(http.MethodGet, "/routes/missing/segments", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected internal error, got %d", resp.StatusCode)
	}
}
