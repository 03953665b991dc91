package services

import (
	"sort"

	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/utils"
)

// RankedProvider is one proximity-search result: the provider plus its
// resolved distance and a transport-fee estimate for that distance.
type RankedProvider struct {
	Provider       models.Provider `json:"provider"`
	DistanceMeters float64         `json:"distance_meters"`
	DistanceText   string          `json:"distance_text"`
	TransportFee   float64         `json:"transport_fee"`
}

// RankByDistance resolves each candidate's distance from origin and sorts
// by it when order is "asc" or "desc". Any other order keeps the input
// order, as do ties (stable sort).
func RankByDistance(origin utils.Point, candidates []models.Provider, order string) []RankedProvider {
	destinations := make([]utils.Point, len(candidates))
	for i, candidate := range candidates {
		destinations[i] = candidate.Location
	}

	distances := Distances(origin, destinations)
	perKM := PerKMRate()

	ranked := make([]RankedProvider, len(candidates))
	for i, candidate := range candidates {
		ranked[i] = RankedProvider{
			Provider:       candidate,
			DistanceMeters: distances[i].Meters,
			DistanceText:   distances[i].Text,
			TransportFee:   TransportFee(distances[i].Meters, perKM),
		}
	}

	switch order {
	case "asc":
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].DistanceMeters < ranked[j].DistanceMeters
		})
	case "desc":
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].DistanceMeters > ranked[j].DistanceMeters
		})
	}

	return ranked
}

// PaginateRanked slices the ranked list; pagination always applies after
// ranking. limit 0 means everything.
func PaginateRanked(ranked []RankedProvider, limit, page int) []RankedProvider {
	if limit <= 0 {
		return ranked
	}

	start := (page - 1) * limit
	if start >= len(ranked) {
		return []RankedProvider{}
	}

	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}
