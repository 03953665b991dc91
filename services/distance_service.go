package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/anjiri1684/medicall/configs"
	"github.com/anjiri1684/medicall/utils"
)

// MatrixBaseURL points at the distance-matrix endpoint. Overridable so
// tests can stand in a fake server.
var MatrixBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// The matrix call must never hang the listing request; on timeout the
// geometric fallback takes over.
var matrixClient = &http.Client{Timeout: 5 * time.Second}

// Distance is one origin-to-candidate result.
type Distance struct {
	Meters float64 `json:"meters"`
	Text   string  `json:"text"`
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
				Text  string  `json:"text"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Distances resolves the road distance from origin to every destination in
// one batched matrix call. Any upstream failure is absorbed: the affected
// entries fall back to the haversine estimate and the caller never sees an
// error.
func Distances(origin utils.Point, destinations []utils.Point) []Distance {
	if len(destinations) == 0 {
		return nil
	}

	resolved, err := matrixDistances(origin, destinations)
	if err != nil {
		log.Printf("Distance matrix unavailable, using geometric fallback: %v", err)
		return fallbackDistances(origin, destinations)
	}
	return resolved
}

func matrixDistances(origin utils.Point, destinations []utils.Point) ([]Distance, error) {
	coords := make([]string, len(destinations))
	for i, dest := range destinations {
		coords[i] = fmt.Sprintf("%f,%f", dest.Lat, dest.Lng)
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destinations", strings.Join(coords, "|"))
	params.Set("key", config.Config("MAPS_API_KEY"))

	resp, err := matrixClient.Get(MatrixBaseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance matrix returned HTTP %d", resp.StatusCode)
	}

	var data matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("distance matrix status %s", data.Status)
	}
	if len(data.Rows) == 0 || len(data.Rows[0].Elements) != len(destinations) {
		return nil, fmt.Errorf("distance matrix returned %d rows for %d destinations", len(data.Rows), len(destinations))
	}

	distances := make([]Distance, len(destinations))
	for i, element := range data.Rows[0].Elements {
		if element.Status != "OK" {
			distances[i] = fallbackDistance(origin, destinations[i])
			continue
		}
		distances[i] = Distance{Meters: element.Distance.Value, Text: element.Distance.Text}
	}
	return distances, nil
}

func fallbackDistances(origin utils.Point, destinations []utils.Point) []Distance {
	distances := make([]Distance, len(destinations))
	for i, dest := range destinations {
		distances[i] = fallbackDistance(origin, dest)
	}
	return distances
}

func fallbackDistance(origin, dest utils.Point) Distance {
	meters := utils.Haversine(origin, dest)
	return Distance{Meters: meters, Text: utils.DistanceText(meters)}
}
