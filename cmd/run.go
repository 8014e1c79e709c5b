package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/venturemap/vc-matcher/internal/ai"
	"github.com/venturemap/vc-matcher/internal/ai/gemini"
	"github.com/venturemap/vc-matcher/internal/logger"
	"github.com/venturemap/vc-matcher/internal/matching"
	"github.com/venturemap/vc-matcher/internal/profile"
	"github.com/venturemap/vc-matcher/internal/report"
	"github.com/venturemap/vc-matcher/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the vc-matcher main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("founder", "f", "", "startup id to match; prompts interactively when unset")
	runCmd.Flags().IntP("top-n", "n", 5, "number of top matches to display")

	viper.BindPFlag("top-n", runCmd.Flags().Lookup("top-n"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the vc-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.FoundersFile == "" || config.InvestorsFile == "" {
		logger.Fatal("founders-file and investors-file are required to run the matching")
	}

	store, err := profile.LoadStore(config.FoundersFile, config.InvestorsFile, logger)
	if err != nil {
		logger.Fatal("loading profile data", zap.Error(err))
	}

	evaluator, err := newEvaluator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building ai evaluator",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY"),
		)
	}

	orchestrator := matching.New(store, evaluator, logger)

	founderID := cmd.Flag("founder").Value.String()
	if founderID == "" {
		founderID, err = selectFounder(store)
		if err != nil {
			logger.Fatal("selecting a founder", zap.Error(err))
		}
	}

	matches, err := orchestrator.FindMatches(ctx, founderID)
	if err != nil {
		var notFound *matching.FounderNotFoundError
		switch {
		case errors.As(err, &notFound):
			logger.Fatal("founder not found",
				zap.String("founder_id", notFound.ID),
				zap.String("hint", "check the startup_id column of the founders file"),
			)
		case errors.Is(err, matching.ErrDataUnavailable):
			logger.Fatal("profile data unavailable", zap.Error(err))
		default:
			logger.Fatal("matching failed", zap.Error(err))
		}
	}

	report.Render(os.Stdout, founderID, store.FindFounder(founderID), matches, config.TopN)
}

func newEvaluator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Evaluator, error) {
	if cfg == nil {
		return nil, errors.New("ai configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: os.Getenv("GEMINI_API_KEY"),
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(log, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	evalLogger := logger.WithFields(genLogger,
		zap.Int("ai_retry_attempts", cfg.Gemini.RetryAttempts),
		zap.Int("max_concurrent_requests", cfg.Gemini.MaxConcurrentRequests),
	)

	evaluator := gemini.NewEvaluator(generator, gemini.EvaluatorConfig{
		MaxConcurrentRequests: cfg.Gemini.MaxConcurrentRequests,
		RetryAttempts:         cfg.Gemini.RetryAttempts,
		InitialRetryDelay:     time.Duration(cfg.Gemini.InitialRetryDelaySeconds * float64(time.Second)),
		MaxLogLength:          cfg.Gemini.MaxLogLength,
	}, evalLogger)

	return evaluator, nil
}

func selectFounder(store *profile.Store) (string, error) {
	options := store.FounderOptions()
	if len(options) == 0 {
		return "", errors.New("no founders available for selection")
	}

	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
	}

	prompt := promptui.Select{
		Label: "Choose a founder and press ENTER",
		Items: labels,
		Size:  10,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return options[i].ID, nil
}
