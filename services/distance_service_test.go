package services

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/medicall/utils"
)

func withMatrixServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	previous := MatrixBaseURL
	MatrixBaseURL = server.URL
	t.Cleanup(func() {
		MatrixBaseURL = previous
		server.Close()
	})
}

func TestDistancesUsesMatrixResponse(t *testing.T) {
	withMatrixServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("origins") == "" || r.URL.Query().Get("destinations") == "" {
			t.Error("matrix request missing origins or destinations")
		}
		fmt.Fprint(w, `{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "distance": {"value": 4200, "text": "4.2 km"}},
				{"status": "OK", "distance": {"value": 800, "text": "0.8 km"}}
			]}]
		}`)
	})

	origin := utils.Point{Lat: -6.9, Lng: 107.6}
	destinations := []utils.Point{{Lat: -6.91, Lng: 107.61}, {Lat: -6.89, Lng: 107.59}}

	distances := Distances(origin, destinations)
	if len(distances) != 2 {
		t.Fatalf("expected 2 distances, got %d", len(distances))
	}
	if distances[0].Meters != 4200 || distances[0].Text != "4.2 km" {
		t.Errorf("first distance = %+v", distances[0])
	}
	if distances[1].Meters != 800 || distances[1].Text != "0.8 km" {
		t.Errorf("second distance = %+v", distances[1])
	}
}

func TestDistancesFallsBackOnNonOKStatus(t *testing.T) {
	withMatrixServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OVER_QUERY_LIMIT", "rows": []}`)
	})

	origin := utils.Point{Lat: 0, Lng: 0}
	destinations := []utils.Point{{Lat: 0, Lng: 1}, {Lat: 1, Lng: 0}}

	distances := Distances(origin, destinations)
	if len(distances) != len(destinations) {
		t.Fatalf("expected one entry per destination, got %d", len(distances))
	}
	for i, distance := range distances {
		want := utils.Haversine(origin, destinations[i])
		if math.Abs(distance.Meters-want) > 1e-6 {
			t.Errorf("distance %d = %v, want haversine %v", i, distance.Meters, want)
		}
		if distance.Text == "" {
			t.Errorf("distance %d has empty text", i)
		}
	}
}

func TestDistancesFallsBackOnHTTPError(t *testing.T) {
	withMatrixServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	origin := utils.Point{Lat: 0, Lng: 0}
	destinations := []utils.Point{{Lat: 0, Lng: 1}}

	distances := Distances(origin, destinations)
	if len(distances) != 1 {
		t.Fatalf("expected 1 distance, got %d", len(distances))
	}
	if math.Abs(distances[0].Meters-utils.Haversine(origin, destinations[0])) > 1e-6 {
		t.Errorf("expected haversine fallback, got %v", distances[0].Meters)
	}
}

func TestDistancesFallsBackWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	previous := MatrixBaseURL
	MatrixBaseURL = url
	t.Cleanup(func() { MatrixBaseURL = previous })

	origin := utils.Point{Lat: 0, Lng: 0}
	destinations := []utils.Point{{Lat: 0, Lng: 1}}

	distances := Distances(origin, destinations)
	if len(distances) != 1 {
		t.Fatalf("expected 1 distance, got %d", len(distances))
	}
	if distances[0].Meters <= 0 {
		t.Errorf("fallback distance = %v, want positive", distances[0].Meters)
	}
}

func TestDistancesElementFallback(t *testing.T) {
	withMatrixServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "distance": {"value": 1234, "text": "1.2 km"}},
				{"status": "NOT_FOUND"}
			]}]
		}`)
	})

	origin := utils.Point{Lat: 0, Lng: 0}
	destinations := []utils.Point{{Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}}

	distances := Distances(origin, destinations)
	if distances[0].Meters != 1234 {
		t.Errorf("matrix entry = %v, want 1234", distances[0].Meters)
	}
	want := utils.Haversine(origin, destinations[1])
	if math.Abs(distances[1].Meters-want) > 1e-6 {
		t.Errorf("fallback entry = %v, want %v", distances[1].Meters, want)
	}
}

func TestDistancesEmpty(t *testing.T) {
	if got := Distances(utils.Point{}, nil); got != nil {
		t.Errorf("expected nil for no destinations, got %+v", got)
	}
}
