package network

import (
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func sameVisible(a, b Visible) bool {
	if len(a.Nodes) != len(b.Nodes) || len(a.Links) != len(b.Links) {
		return false
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			return false
		}
	}
	for i := range a.Links {
		if a.Links[i] != b.Links[i] {
			return false
		}
	}
	return true
}

func TestEndToEndScenario(t *testing.T) {
	g := Normalize(scenarioRecords(), scenarioOptions())
	fs := NewFilterState(g)

	fs.SetYear(1915)
	vis := ApplyFilters(g, fs)
	got := ids(vis.Nodes)
	if len(got) != 2 || got[0] != "center" || got[1] != "person_0" {
		t.Errorf("visible at 1915 = %v, want [center person_0]", got)
	}

	fs.SetYear(1926)
	vis = ApplyFilters(g, fs)
	if len(vis.Nodes) != 3 {
		t.Fatalf("visible at 1926 = %v, want 3 nodes", ids(vis.Nodes))
	}
	var toB *Edge
	for _, e := range vis.Links {
		if e.Target == "person_1" {
			toB = e
		}
	}
	if toB == nil {
		t.Fatal("edge center-B should be visible at 1926")
	}
	if !toB.Broken {
		t.Error("edge center-B should be broken")
	}
}

func TestFilterCategoryPartition(t *testing.T) {
	g := Normalize(scenarioRecords(), scenarioOptions())
	fs := NewFilterState(g)
	fs.SetAll(false)

	vis := ApplyFilters(g, fs)
	if len(vis.Nodes) != 1 || !vis.Nodes[0].IsCenter() {
		t.Errorf("expected only the center, got %v", ids(vis.Nodes))
	}
	if len(vis.Links) != 0 {
		t.Errorf("expected no links, got %d", len(vis.Links))
	}
}

func TestFilterToggle(t *testing.T) {
	g := Normalize(scenarioRecords(), scenarioOptions())
	fs := NewFilterState(g)

	if on := fs.Toggle("kin"); on {
		t.Fatal("kin should now be off")
	}
	vis := ApplyFilters(g, fs)
	if vis.HasNode("person_1") {
		t.Error("kin person should be hidden")
	}
	if !vis.HasNode("person_0") {
		t.Error("friend person should stay visible")
	}

	fs.Toggle("kin")
	if !ApplyFilters(g, fs).HasNode("person_1") {
		t.Error("kin person should be back")
	}
}

func TestFilterEdgeCategoryCheckedIndependently(t *testing.T) {
	g := Normalize(scenarioRecords(), scenarioOptions())
	g.Links[0].Relation = "colleague"

	vis := ApplyFilters(g, NewFilterState(g))
	if !vis.HasNode("person_0") {
		t.Fatal("person should still be visible")
	}
	for _, e := range vis.Links {
		if e.Target == "person_0" {
			t.Error("edge with an inactive category should be hidden")
		}
	}
}

func TestSetYearClamps(t *testing.T) {
	g := Normalize(nil, scenarioOptions())
	fs := NewFilterState(g)

	fs.SetYear(1800)
	if fs.Year != 1912 {
		t.Errorf("year = %d, want 1912", fs.Year)
	}
	fs.SetYear(2000)
	if fs.Year != 1926 {
		t.Errorf("year = %d, want 1926", fs.Year)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := Normalize(scenarioRecords(), scenarioOptions())
	fs := NewFilterState(g)
	cp := fs.Clone()
	cp.SetActive("friend", false)

	if !fs.Active("friend") {
		t.Error("clone should not share category set")
	}
}

// ─── Properties ───

var relations = []string{"kin", "friend", "colleague", "student", "hometown"}

func genRecords(t *rapid.T) []PersonRecord {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) PersonRecord {
		events := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) Event {
			year := rapid.IntRange(1900, 1935).Draw(t, "year")
			time := strconv.Itoa(year)
			if rapid.IntRange(0, 9).Draw(t, "garble") == 0 {
				time = "undated"
			}
			return Event{Time: time, Description: rapid.SampledFrom([]string{"met", "wrote", "severed"}).Draw(t, "desc")}
		}), 0, 4).Draw(t, "events")
		return PersonRecord{
			Name:     rapid.StringMatching(`[A-Z][a-z]{0,6}`).Draw(t, "name"),
			Relation: rapid.SampledFrom(relations).Draw(t, "relation"),
			Events:   events,
		}
	}), 0, 25).Draw(t, "records")
}

func genFilter(t *rapid.T, g *Graph) FilterState {
	fs := NewFilterState(g)
	for _, c := range g.Categories() {
		fs.SetActive(c, rapid.Bool().Draw(t, "active_"+c))
	}
	fs.SetYear(rapid.IntRange(1912, 1926).Draw(t, "threshold"))
	return fs
}

func TestPropertyIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := Normalize(genRecords(t), DefaultOptions())
		fs := genFilter(t, g)

		if !sameVisible(ApplyFilters(g, fs), ApplyFilters(g, fs)) {
			t.Fatal("filtering twice gave different results")
		}
	})
}

func TestPropertyEndpointConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := Normalize(genRecords(t), DefaultOptions())
		vis := ApplyFilters(g, genFilter(t, g))

		for _, e := range vis.Links {
			if !vis.HasNode(e.Source) || !vis.HasNode(e.Target) {
				t.Fatalf("edge %s-%s has a hidden endpoint", e.Source, e.Target)
			}
		}
		if !vis.HasNode(g.Center().ID) {
			t.Fatal("center must always be visible")
		}
	})
}

func TestPropertyMonotoneInYear(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := Normalize(genRecords(t), DefaultOptions())
		fs := genFilter(t, g)
		later := fs.Clone()
		later.SetYear(fs.Year + rapid.IntRange(0, 14).Draw(t, "step"))

		before := ApplyFilters(g, fs)
		after := ApplyFilters(g, later)
		for _, n := range before.Nodes {
			if !after.HasNode(n.ID) {
				t.Fatalf("node %s disappeared when the threshold grew", n.ID)
			}
		}
		afterLinks := make(map[*Edge]bool, len(after.Links))
		for _, e := range after.Links {
			afterLinks[e] = true
		}
		for _, e := range before.Links {
			if !afterLinks[e] {
				t.Fatalf("edge to %s disappeared when the threshold grew", e.Target)
			}
		}
	})
}

func TestPropertyPreservesCanonicalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := Normalize(genRecords(t), DefaultOptions())
		vis := ApplyFilters(g, genFilter(t, g))

		pos := make(map[string]int, len(g.Nodes))
		for i, n := range g.Nodes {
			pos[n.ID] = i
		}
		for i := 1; i < len(vis.Nodes); i++ {
			if pos[vis.Nodes[i-1].ID] >= pos[vis.Nodes[i].ID] {
				t.Fatalf("visible nodes out of canonical order at %d", i)
			}
		}
	})
}
