package geo

import (
	"testing"

	"cleanify-client/internal/model"
)

func meters(m float64) *float64 { return &m }

func report(id string, dist *float64) model.Report {
	return model.Report{ID: id, Category: "Garbage", DistanceM: dist}
}

func ids(reports []model.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestRankUnknownDistanceFirst(t *testing.T) {
	in := []model.Report{
		report("A", meters(50)),
		report("B", meters(10)),
		report("C", nil),
	}
	ref := &model.Point{Lat: 18.52, Lng: 73.85}

	got := ids(Rank(in, ref))
	want := []string{"C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank = %v, want %v", got, want)
		}
	}
}

func TestRankWithoutReferenceKeepsServerOrder(t *testing.T) {
	in := []model.Report{
		report("A", meters(50)),
		report("B", meters(10)),
		report("C", nil),
	}
	got := ids(Rank(in, nil))
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank without reference = %v, want input order %v", got, want)
		}
	}
}

func TestRankStableAndIdempotent(t *testing.T) {
	in := []model.Report{
		report("A", meters(10)),
		report("B", meters(10)),
		report("C", meters(5)),
		report("D", nil),
		report("E", nil),
	}
	ref := &model.Point{}

	once := Rank(in, ref)
	twice := Rank(once, ref)
	want := []string{"D", "E", "C", "A", "B"}

	for i := range want {
		if once[i].ID != want[i] {
			t.Fatalf("Rank = %v, want %v", ids(once), want)
		}
		if twice[i].ID != once[i].ID {
			t.Fatalf("re-ranking moved entities: %v vs %v", ids(twice), ids(once))
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []model.Report{
		report("A", meters(50)),
		report("B", meters(10)),
	}
	Rank(in, &model.Point{})
	if in[0].ID != "A" || in[1].ID != "B" {
		t.Fatalf("Rank mutated its input: %v", ids(in))
	}
}
