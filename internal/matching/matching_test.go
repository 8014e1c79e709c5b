package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/venturemap/vc-matcher/internal/ai"
	"github.com/venturemap/vc-matcher/internal/profile"
)

// fakeEvaluator scores investors from a fixed table; ids absent from the table
// resolve as unscored.
type fakeEvaluator struct {
	mu     sync.Mutex
	scores map[string]int
	calls  []string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, _ *profile.Founder, investor *profile.Investor) (*ai.Analysis, error) {
	f.mu.Lock()
	f.calls = append(f.calls, investor.InvestorID)
	f.mu.Unlock()

	score, ok := f.scores[investor.InvestorID]
	if !ok {
		return nil, errors.New("model unavailable")
	}

	return &ai.Analysis{Score: score, Reasoning: "reason " + investor.InvestorID}, nil
}

func founders(ids ...string) []*profile.Founder {
	list := make([]*profile.Founder, 0, len(ids))
	for _, id := range ids {
		list = append(list, &profile.Founder{StartupID: id, Name: "startup " + id})
	}
	return list
}

func investors(ids ...string) []*profile.Investor {
	list := make([]*profile.Investor, 0, len(ids))
	for _, id := range ids {
		list = append(list, &profile.Investor{InvestorID: id, Name: "investor " + id, Type: "VC"})
	}
	return list
}

func TestFindMatchesSortsByScoreDescending(t *testing.T) {
	store := profile.NewStore(founders("f1"), investors("i1", "i2", "i3"))
	evaluator := &fakeEvaluator{scores: map[string]int{"i1": 40, "i2": 95, "i3": 70}}

	o := New(store, evaluator, zap.NewNop())

	matches, err := o.FindMatches(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Fatalf("matches not sorted descending: %v", matches)
		}
	}

	if matches[0].InvestorID != "i2" || matches[0].Score != 95 {
		t.Fatalf("unexpected top match: %+v", matches[0])
	}

	if matches[0].InvestorName != "investor i2" || matches[0].InvestorType != "VC" {
		t.Fatalf("match missing investor details: %+v", matches[0])
	}
}

func TestFindMatchesDropsUnscoredPairs(t *testing.T) {
	store := profile.NewStore(founders("f1"), investors("i1", "i2", "i3", "i4"))
	evaluator := &fakeEvaluator{scores: map[string]int{"i2": 55}}

	o := New(store, evaluator, zap.NewNop())

	matches, err := o.FindMatches(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	if matches[0].InvestorID != "i2" {
		t.Fatalf("unexpected match: %+v", matches[0])
	}
}

func TestFindMatchesAllUnscoredYieldsEmptyNotNil(t *testing.T) {
	store := profile.NewStore(founders("f1"), investors("i1", "i2"))
	evaluator := &fakeEvaluator{scores: map[string]int{}}

	o := New(store, evaluator, zap.NewNop())

	matches, err := o.FindMatches(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", matches)
	}
}

func TestFindMatchesSkipsBlankInvestorIDs(t *testing.T) {
	invs := investors("i1")
	invs = append(invs, &profile.Investor{InvestorID: "   ", Name: "nameless"})
	store := profile.NewStore(founders("f1"), invs)
	evaluator := &fakeEvaluator{scores: map[string]int{"i1": 60}}

	o := New(store, evaluator, zap.NewNop())

	matches, err := o.FindMatches(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	if len(evaluator.calls) != 1 || evaluator.calls[0] != "i1" {
		t.Fatalf("expected a single evaluation for i1, got %v", evaluator.calls)
	}
}

func TestFindMatchesEmptyInvestorsIsNotAnError(t *testing.T) {
	store := profile.NewStore(founders("f1"), nil)

	o := New(store, &fakeEvaluator{}, zap.NewNop())

	matches, err := o.FindMatches(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", matches)
	}
}

func TestFindMatchesFounderNotFound(t *testing.T) {
	store := profile.NewStore(founders("f1"), investors("i1"))

	o := New(store, &fakeEvaluator{}, zap.NewNop())

	_, err := o.FindMatches(context.Background(), "missing")

	var notFound *FounderNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected FounderNotFoundError, got %v", err)
	}

	if notFound.ID != "missing" {
		t.Fatalf("unexpected id: %q", notFound.ID)
	}
}

func TestFindMatchesNoFoundersLoaded(t *testing.T) {
	store := profile.NewStore(nil, investors("i1"))

	o := New(store, &fakeEvaluator{}, zap.NewNop())

	if _, err := o.FindMatches(context.Background(), "f1"); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
