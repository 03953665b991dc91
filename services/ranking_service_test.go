package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/utils"
	"github.com/google/uuid"
)

func rankingCandidates() []models.Provider {
	return []models.Provider{
		{ID: uuid.New(), FullName: "Far", Location: utils.Point{Lat: 0, Lng: 2}},
		{ID: uuid.New(), FullName: "Near", Location: utils.Point{Lat: 0, Lng: 0.01}},
		{ID: uuid.New(), FullName: "Mid", Location: utils.Point{Lat: 0, Lng: 1}},
	}
}

func serveFallback(t *testing.T) {
	withMatrixServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED"}`)
	})
}

func TestRankByDistanceAscending(t *testing.T) {
	serveFallback(t)

	origin := utils.Point{Lat: 0, Lng: 0}
	ranked := RankByDistance(origin, rankingCandidates(), "asc")

	if len(ranked) != 3 {
		t.Fatalf("expected one entry per candidate, got %d", len(ranked))
	}

	names := []string{ranked[0].Provider.FullName, ranked[1].Provider.FullName, ranked[2].Provider.FullName}
	want := []string{"Near", "Mid", "Far"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}

	for _, entry := range ranked {
		if entry.DistanceMeters < 0 {
			t.Errorf("%s has negative distance", entry.Provider.FullName)
		}
		if entry.TransportFee < 0 {
			t.Errorf("%s has negative transport fee", entry.Provider.FullName)
		}
		if entry.DistanceText == "" {
			t.Errorf("%s has empty distance text", entry.Provider.FullName)
		}
	}
}

func TestRankByDistanceDescending(t *testing.T) {
	serveFallback(t)

	ranked := RankByDistance(utils.Point{}, rankingCandidates(), "desc")
	if ranked[0].Provider.FullName != "Far" || ranked[2].Provider.FullName != "Near" {
		t.Errorf("descending order wrong: %s ... %s", ranked[0].Provider.FullName, ranked[2].Provider.FullName)
	}
}

func TestRankByDistancePreservesInputOrder(t *testing.T) {
	serveFallback(t)

	candidates := rankingCandidates()
	ranked := RankByDistance(utils.Point{}, candidates, "")
	for i := range candidates {
		if ranked[i].Provider.ID != candidates[i].ID {
			t.Fatalf("input order not preserved at %d", i)
		}
	}
}

func TestRankByDistanceStableTies(t *testing.T) {
	serveFallback(t)

	same := utils.Point{Lat: 0, Lng: 1}
	candidates := []models.Provider{
		{ID: uuid.New(), FullName: "First", Location: same},
		{ID: uuid.New(), FullName: "Second", Location: same},
		{ID: uuid.New(), FullName: "Third", Location: same},
	}

	ranked := RankByDistance(utils.Point{}, candidates, "asc")
	for i, candidate := range candidates {
		if ranked[i].Provider.ID != candidate.ID {
			t.Fatalf("tie order not stable at %d", i)
		}
	}
}

func TestPaginateRanked(t *testing.T) {
	ranked := make([]RankedProvider, 5)
	for i := range ranked {
		ranked[i].DistanceMeters = float64(i)
	}

	cases := []struct {
		name        string
		limit, page int
		wantLen     int
		wantFirst   float64
	}{
		{name: "no limit returns all", limit: 0, page: 1, wantLen: 5, wantFirst: 0},
		{name: "first page", limit: 2, page: 1, wantLen: 2, wantFirst: 0},
		{name: "second page", limit: 2, page: 2, wantLen: 2, wantFirst: 2},
		{name: "short last page", limit: 2, page: 3, wantLen: 1, wantFirst: 4},
		{name: "past the end", limit: 2, page: 4, wantLen: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PaginateRanked(ranked, tc.limit, tc.page)
			if len(got) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tc.wantLen)
			}
			if tc.wantLen > 0 && got[0].DistanceMeters != tc.wantFirst {
				t.Errorf("first = %v, want %v", got[0].DistanceMeters, tc.wantFirst)
			}
		})
	}
}
