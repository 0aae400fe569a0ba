package network

import "testing"

func TestStats(t *testing.T) {
	records := append(scenarioRecords(),
		PersonRecord{Name: "C", Relation: "friend", Events: []Event{
			{Time: "1918", Description: "met"},
			{Time: "1924", Description: "correspondence ended"},
		}},
		PersonRecord{Name: "D", Relation: "kin"},
	)
	s := Normalize(records, scenarioOptions()).Stats()

	if s.People != 4 || s.Events != 4 || s.Broken != 2 {
		t.Errorf("unexpected totals %+v", s)
	}
	if s.MinYear != 1912 || s.MaxYear != 1926 {
		t.Errorf("unexpected horizon %d-%d", s.MinYear, s.MaxYear)
	}
	if len(s.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(s.Categories))
	}

	friend := s.Categories[0]
	if friend.Category != "friend" || friend.People != 2 || friend.Broken != 1 || friend.Earliest != 1913 {
		t.Errorf("unexpected friend stats %+v", friend)
	}
	if friend.Color != "#5F7156" {
		t.Errorf("expected friend color, got %q", friend.Color)
	}
	kin := s.Categories[1]
	if kin.People != 2 || kin.Broken != 1 || kin.Earliest != 1920 {
		t.Errorf("unexpected kin stats %+v", kin)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := Normalize(nil, DefaultOptions()).Stats()
	if s.People != 0 || len(s.Categories) != 0 {
		t.Errorf("expected empty stats, got %+v", s)
	}
}
