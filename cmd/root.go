package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "vc-matcher"
)

type Config struct {
	FoundersFile  string    `mapstructure:"founders-file"`
	InvestorsFile string    `mapstructure:"investors-file"`
	TopN          int       `mapstructure:"top-n"`
	AI            *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile               string  `mapstructure:"api-key-file"`
	Model                    string  `mapstructure:"model"`
	MaxConcurrentRequests    int     `mapstructure:"max-concurrent-requests"`
	RetryAttempts            int     `mapstructure:"retry-attempts"`
	InitialRetryDelaySeconds float64 `mapstructure:"initial-retry-delay-seconds"`
	MaxLogLength             int     `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "vc-matcher scores a startup founder against a set of investors with Gemini and ranks the matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Secrets may live in a local .env file, like the rest of the environment.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is vc-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run command. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	viper.SetDefault("top-n", 5)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-1.5-flash-latest")
	viper.SetDefault("ai.gemini.max-concurrent-requests", 5)
	viper.SetDefault("ai.gemini.retry-attempts", 3)
	viper.SetDefault("ai.gemini.initial-retry-delay-seconds", 5)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
