package profile

import "testing"

func TestFounderOptions(t *testing.T) {
	store := NewStore([]*Founder{
		{StartupID: "f2", Name: "Zeta Labs"},
		{StartupID: "f1", Name: "Acme Robotics"},
		{StartupID: "  ", Name: "No ID"},
		{StartupID: "f3"},
	}, nil)

	options := store.FounderOptions()
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}

	if options[0].Label != "Acme Robotics (f1)" || options[0].ID != "f1" {
		t.Fatalf("unexpected first option: %+v", options[0])
	}

	// Nameless founders are labeled by id.
	if options[1].Label != "Founder f3 (f3)" {
		t.Fatalf("unexpected fallback label: %+v", options[1])
	}

	if options[2].Label != "Zeta Labs (f2)" {
		t.Fatalf("unexpected last option: %+v", options[2])
	}
}

func TestFindFounder(t *testing.T) {
	store := NewStore([]*Founder{{StartupID: "f1", Name: "Acme"}}, nil)

	if store.FindFounder("f1") == nil {
		t.Fatal("expected to find f1")
	}

	if store.FindFounder("nope") != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestEmptiness(t *testing.T) {
	empty := NewStore(nil, nil)
	if !empty.FoundersEmpty() || !empty.InvestorsEmpty() {
		t.Fatal("expected both collections empty")
	}

	full := NewStore([]*Founder{{StartupID: "f1"}}, []*Investor{{InvestorID: "i1"}})
	if full.FoundersEmpty() || full.InvestorsEmpty() {
		t.Fatal("expected both collections populated")
	}
}
