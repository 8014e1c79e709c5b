package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/venturemap/vc-matcher/internal/ai"
	"github.com/venturemap/vc-matcher/internal/profile"
)

// ErrDataUnavailable means the founder base data is missing or empty; no
// matching can even start.
var ErrDataUnavailable = errors.New("profile data unavailable")

// FounderNotFoundError marks a founder id absent from the loaded data.
type FounderNotFoundError struct {
	ID string
}

func (e *FounderNotFoundError) Error() string {
	return fmt.Sprintf("founder %q not found", e.ID)
}

// Match is one ranked evaluation result for a founder query. Never persisted.
type Match struct {
	InvestorID   string
	InvestorName string
	InvestorType string
	Score        int
	Reasoning    string
}

// Orchestrator fans a founder query out into one evaluation per investor and
// folds the scored outcomes into a ranked list.
type Orchestrator struct {
	store     *profile.Store
	evaluator ai.Evaluator
	logger    *zap.Logger
}

func New(store *profile.Store, evaluator ai.Evaluator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		store:     store,
		evaluator: evaluator,
		logger:    logger,
	}
}

// FindMatches scores the founder against every investor in the store and
// returns the matches sorted by descending score. Individual evaluation
// failures shrink the result set; they never fail the run. The returned slice
// is empty, not nil, when no pair could be scored.
func (o *Orchestrator) FindMatches(ctx context.Context, founderID string) ([]*Match, error) {
	if o.store == nil || o.store.FoundersEmpty() {
		return nil, ErrDataUnavailable
	}

	if o.store.InvestorsEmpty() {
		o.logger.Warn("no investors loaded, nothing to match against")
		return []*Match{}, nil
	}

	founder := o.store.FindFounder(founderID)
	if founder == nil {
		return nil, &FounderNotFoundError{ID: founderID}
	}

	o.logger.Info("starting match process",
		zap.String("startup_id", founder.StartupID),
		zap.String("startup_name", founder.Name),
	)

	investors := make([]*profile.Investor, 0, len(o.store.Investors()))
	for _, investor := range o.store.Investors() {
		if strings.TrimSpace(investor.InvestorID) == "" {
			o.logger.Warn("skipping investor with missing or blank id",
				zap.String("investor_name", investor.Name),
			)
			continue
		}
		investors = append(investors, investor)
	}

	if len(investors) == 0 {
		o.logger.Warn("no valid investors to match against",
			zap.String("startup_id", founder.StartupID),
		)
		return []*Match{}, nil
	}

	o.logger.Info("sending match requests", zap.Int("count", len(investors)))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		matches = make([]*Match, 0, len(investors))
		failed  int
	)

	for _, investor := range investors {
		wg.Add(1)
		go func(investor *profile.Investor) {
			defer wg.Done()

			analysis, err := o.evaluator.Evaluate(ctx, founder, investor)
			if err != nil {
				o.logger.Warn("analysis failed for investor",
					zap.String("investor_id", investor.InvestorID),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			matches = append(matches, &Match{
				InvestorID:   investor.InvestorID,
				InvestorName: investor.Name,
				InvestorType: investor.Type,
				Score:        analysis.Score,
				Reasoning:    analysis.Reasoning,
			})
			mu.Unlock()
		}(investor)
	}

	wg.Wait()

	o.logger.Info("match analysis summary",
		zap.String("startup_id", founder.StartupID),
		zap.Int("successful", len(matches)),
		zap.Int("failed", failed),
	)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}
