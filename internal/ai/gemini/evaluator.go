package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/venturemap/vc-matcher/internal/ai"
	"github.com/venturemap/vc-matcher/internal/logger"
	"github.com/venturemap/vc-matcher/internal/profile"
	"github.com/venturemap/vc-matcher/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultRetryDelay   = 5 * time.Second

	// staggerStep desynchronizes bursts: attempt N waits N*staggerStep before
	// hitting the API.
	staggerStep = 100 * time.Millisecond
)

var waitFor = utils.WaitFor

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// EvaluatorConfig carries the knobs governing one evaluator instance.
type EvaluatorConfig struct {
	// MaxConcurrentRequests caps simultaneous in-flight model calls across all
	// evaluations sharing this evaluator.
	MaxConcurrentRequests int
	// RetryAttempts is the number of extra attempts after the first one.
	RetryAttempts int
	// InitialRetryDelay is the first backoff delay; it doubles per retry.
	InitialRetryDelay time.Duration
	MaxLogLength      int
}

// Evaluator scores founder/investor pairs with a single Gemini prompt each.
// The semaphore it owns is the only mutable state shared between concurrent
// evaluations.
type Evaluator struct {
	generator     contentGenerator
	sem           *semaphore.Weighted
	retryAttempts int
	initialDelay  time.Duration
	maxLogLen     int
	logger        *zap.Logger
}

func NewEvaluator(generator contentGenerator, cfg EvaluatorConfig, log *zap.Logger) *Evaluator {
	maxConcurrent := cfg.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	retryAttempts := cfg.RetryAttempts
	if retryAttempts < 0 {
		retryAttempts = 0
	}

	initialDelay := cfg.InitialRetryDelay
	if initialDelay <= 0 {
		initialDelay = defaultRetryDelay
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Evaluator{
		generator:     generator,
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
		retryAttempts: retryAttempts,
		initialDelay:  initialDelay,
		maxLogLen:     maxLogLen,
		logger:        log,
	}
}

// Evaluate renders the evaluation prompt for the pair, submits it under the
// shared concurrency cap and parses the reply. Rate-limit faults are retried
// with exponential backoff; every other failure resolves the pair as unscored.
func (e *Evaluator) Evaluate(ctx context.Context, founder *profile.Founder, investor *profile.Investor) (*ai.Analysis, error) {
	if founder == nil {
		return nil, errors.New("founder profile is required")
	}
	if investor == nil {
		return nil, errors.New("investor profile is required")
	}

	prompt := buildPrompt(founder, investor)

	e.logger.Debug("gemini evaluation request",
		zap.String("startup_id", founder.StartupID),
		zap.String("investor_id", investor.InvestorID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire request slot: %w", err)
	}
	defer e.sem.Release(1)

	delay := e.initialDelay
	var lastErr error

	for attempt := 0; attempt <= e.retryAttempts; attempt++ {
		if err := waitFor(ctx, time.Duration(attempt)*staggerStep); err != nil {
			return nil, err
		}

		raw, err := e.generator.GenerateContent(ctx, prompt)
		if err == nil {
			e.logger.Debug("gemini evaluation response",
				zap.String("investor_id", investor.InvestorID),
				zap.Int("attempt", attempt+1),
				zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
			)
			return parseAnalysis(raw)
		}

		if !IsRateLimited(err) {
			e.logger.Warn("gemini evaluation failed",
				zap.String("investor_id", investor.InvestorID),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			return nil, err
		}

		lastErr = err
		if attempt < e.retryAttempts {
			e.logger.Warn("rate limited, retrying",
				zap.String("investor_id", investor.InvestorID),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			if err := waitFor(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
	}

	return nil, fmt.Errorf("rate limited after %d attempts: %w", e.retryAttempts+1, lastErr)
}

func buildPrompt(founder *profile.Founder, investor *profile.Investor) string {
	founderName := strings.TrimSpace(founder.Name)
	if founderName == "" {
		founderName = "this startup"
	}

	investorName := strings.TrimSpace(investor.Name)
	if investorName == "" {
		investorName = "this investor"
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{FOUNDER_PROFILE}}", renderFounder(founder))
	prompt = strings.ReplaceAll(prompt, "{{INVESTOR_PROFILE}}", renderInvestor(investor))
	prompt = strings.ReplaceAll(prompt, "{{FOUNDER_NAME}}", founderName)
	prompt = strings.ReplaceAll(prompt, "{{INVESTOR_NAME}}", investorName)

	return prompt
}

func renderFounder(f *profile.Founder) string {
	lines := []string{
		"- Name: " + f.Name,
		"- Industry: " + joinTags(f.Industries),
		"- Stage: " + f.Stage,
		"- Funding Required (USD): " + usd(f.FundingRequiredUSD),
		fmt.Sprintf("- Location: %s, %s", f.LocationCity, f.LocationCountry),
		"- Business Model: " + joinTags(f.BusinessModels),
		"- MRR (USD): " + usd(f.MRRUSD),
		"- User Count: " + humanize.Comma(f.UserCount),
		"- Team Size: " + humanize.Comma(f.TeamSize),
		"- Product Description: " + f.ProductDescription,
		"- Unique Selling Proposition (USP): " + f.USP,
		"- Traction Summary: " + f.TractionSummary,
	}

	return strings.Join(lines, "\n")
}

func renderInvestor(i *profile.Investor) string {
	lines := []string{
		fmt.Sprintf("- Name: %s (%s)", i.Name, i.Type),
		"- Preferred Industries: " + joinTags(i.PreferredIndustries),
		fmt.Sprintf("- Investment Range (USD): %s - %s", usd(i.MinInvestmentUSD), usd(i.MaxInvestmentUSD)),
		"- Average Check Size (USD): " + usd(i.AvgCheckSizeUSD),
		"- Preferred Stages: " + joinTags(i.PreferredStages),
		"- Geographic Focus: " + i.GeographicFocus,
		"- Investment Thesis: " + i.InvestmentThesis,
		"- Example Portfolio Companies: " + i.PortfolioCompanies,
	}

	return strings.Join(lines, "\n")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func usd(v float64) string {
	return "$" + humanize.Commaf(v)
}

// parseAnalysis decodes the model reply strictly: a JSON object with an
// integer score in [0,100] and a string reasoning. Anything else is a content
// defect and the pair stays unscored.
func parseAnalysis(raw string) (*ai.Analysis, error) {
	cleaned := stripCodeFence(raw)

	var payload struct {
		Score     *json.Number `json:"score"`
		Reasoning *string      `json:"reasoning"`
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	// A single JSON value must consume the whole reply. Trailing commentary
	// after the object is a content defect.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, errors.New("model response has trailing data after the JSON object")
	}

	if payload.Score == nil || payload.Reasoning == nil {
		return nil, errors.New("model response missing score or reasoning")
	}

	score, err := strconv.ParseInt(payload.Score.String(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("score %q is not an integer", payload.Score.String())
	}

	if score < 0 || score > 100 {
		return nil, fmt.Errorf("score %d outside [0,100]", score)
	}

	return &ai.Analysis{
		Score:     int(score),
		Reasoning: *payload.Reasoning,
		Raw:       raw,
	}, nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
