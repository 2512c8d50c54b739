package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"

	"osmroute/internal/orchestrator"
	"osmroute/internal/routeerr"
)

type fakeRouter struct {
	resp *orchestrator.RouteResponse
	err  error
}

func (f *fakeRouter) CalculateRoute(ctx context.Context, source, dest orb.Point) (*orchestrator.RouteResponse, error) {
	return f.resp, f.err
}

func TestHandleRouteSuccess(t *testing.T) {
	h := NewHandlers(&fakeRouter{resp: &orchestrator.RouteResponse{
		Path:     []orb.Point{{0, 0}, {0.001, 0}},
		Distance: 0.111,
		Duration: 1,
		Metrics: orchestrator.Metrics{
			TotalWeight: 0.33,
			NodeCount:   2,
			GraphStats:  orchestrator.GraphStats{Nodes: 2, Edges: 2},
		},
	}})

	body, _ := json.Marshal(RouteRequest{
		Source:      LatLngJSON{Lat: 0, Lng: 0},
		Destination: LatLngJSON{Lat: 0, Lng: 0.001},
	})
	req := httptest.NewRequest(http.MethodPost, "/route", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.HandleRoute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body = %s", rec.Code, rec.Body.String())
	}
	var got RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Path) != 2 {
		t.Errorf("len(Path) = %d, want 2", len(got.Path))
	}
	if got.Distance != 0.111 {
		t.Errorf("Distance = %v, want 0.111", got.Distance)
	}
}

func TestHandleRouteRejectsNonJSON(t *testing.T) {
	h := NewHandlers(&fakeRouter{})
	req := httptest.NewRequest(http.MethodPost, "/route", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	h.HandleRoute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRouteMapsErrorKinds(t *testing.T) {
	cases := []struct {
		kind       routeerr.Kind
		wantStatus int
	}{
		{routeerr.InvalidCoordinates, http.StatusBadRequest},
		{routeerr.EmptyArea, http.StatusNotFound},
		{routeerr.UpstreamTimeout, http.StatusRequestTimeout},
		{routeerr.UpstreamRateLimited, http.StatusServiceUnavailable},
		{routeerr.UpstreamServerError, http.StatusServiceUnavailable},
		{routeerr.UpstreamBadShape, http.StatusInternalServerError},
		{routeerr.NoNearbyIntersection, http.StatusNotFound},
		{routeerr.Unreachable, http.StatusNotFound},
		{routeerr.SearchAborted, http.StatusInternalServerError},
		{routeerr.ReconstructionFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := NewHandlers(&fakeRouter{err: routeerr.New(tc.kind, "boom")})
		body, _ := json.Marshal(RouteRequest{
			Source:      LatLngJSON{Lat: 0, Lng: 0},
			Destination: LatLngJSON{Lat: 0, Lng: 0.001},
		})
		req := httptest.NewRequest(http.MethodPost, "/route", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.HandleRoute(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("kind %s: status = %d, want %d", tc.kind, rec.Code, tc.wantStatus)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&fakeRouter{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != "ok" {
		t.Errorf("Status = %q, want ok", got.Status)
	}
}
