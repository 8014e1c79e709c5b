package report

import (
	"strings"
	"testing"

	"github.com/venturemap/vc-matcher/internal/matching"
	"github.com/venturemap/vc-matcher/internal/profile"
)

func sampleMatches() []*matching.Match {
	return []*matching.Match{
		{InvestorID: "i2", InvestorName: "Deep Tech Capital", InvestorType: "VC", Score: 95, Reasoning: "strong industry fit"},
		{InvestorID: "i1", InvestorName: "Angel Alice", InvestorType: "Angel", Score: 70, Reasoning: "stage fits"},
		{InvestorID: "i3", InvestorName: "Late Stage Larry", InvestorType: "PE", Score: 20, Reasoning: "too early"},
	}
}

func TestRenderTruncatesToTopN(t *testing.T) {
	var buf strings.Builder

	Render(&buf, "f1", &profile.Founder{StartupID: "f1", Name: "Acme"}, sampleMatches(), 2)

	out := buf.String()
	if !strings.Contains(out, "Top investor matches for Acme (f1)") {
		t.Fatalf("missing header: %s", out)
	}

	if !strings.Contains(out, "Found 3 potential matches. Displaying top 2.") {
		t.Fatalf("missing summary line: %s", out)
	}

	if !strings.Contains(out, "Deep Tech Capital") || !strings.Contains(out, "Angel Alice") {
		t.Fatalf("missing displayed investors: %s", out)
	}

	if strings.Contains(out, "Late Stage Larry") {
		t.Fatalf("third match should be truncated away: %s", out)
	}
}

func TestRenderShowsAllWhenTopNNonPositive(t *testing.T) {
	var buf strings.Builder

	Render(&buf, "f1", &profile.Founder{StartupID: "f1", Name: "Acme"}, sampleMatches(), 0)

	if !strings.Contains(buf.String(), "Late Stage Larry") {
		t.Fatalf("expected all matches rendered: %s", buf.String())
	}
}

func TestRenderEmptyMatches(t *testing.T) {
	var buf strings.Builder

	Render(&buf, "f1", &profile.Founder{StartupID: "f1"}, nil, 5)

	out := buf.String()
	if !strings.Contains(out, "Top investor matches for f1 (f1)") {
		t.Fatalf("missing id-only header: %s", out)
	}

	if !strings.Contains(out, "No suitable investor matches found.") {
		t.Fatalf("missing empty message: %s", out)
	}
}

func TestRenderNilFounder(t *testing.T) {
	// An unknown founder id produces an empty result when there are no
	// investors to rank, so the lookup handed to Render may be nil.
	var buf strings.Builder

	Render(&buf, "no-such-id", nil, nil, 5)

	out := buf.String()
	if !strings.Contains(out, "Top investor matches for no-such-id (no-such-id)") {
		t.Fatalf("missing fallback header: %s", out)
	}

	if !strings.Contains(out, "No suitable investor matches found.") {
		t.Fatalf("missing empty message: %s", out)
	}
}
