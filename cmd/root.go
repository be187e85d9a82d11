package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "ats-insights"

	analyzerHeuristic = "heuristic"
	analyzerGemini    = "gemini"

	geminiKeyFileEnv = "ATS_GEMINI_API_KEY_FILE"
)

type Config struct {
	Analyzer     string        `mapstructure:"analyzer" validate:"oneof=heuristic gemini"`
	BaselineRate float64       `mapstructure:"baseline-rate" validate:"gte=0,lte=100"`
	Export       *ExportConfig `mapstructure:"export" validate:"required"`
	Gemini       *GeminiConfig `mapstructure:"gemini" validate:"required_if=Analyzer gemini"`
}

type ExportConfig struct {
	Format string `mapstructure:"format" validate:"omitempty,oneof=json xlsx pdf"`
	Path   string `mapstructure:"path"`
	Range  string `mapstructure:"range" validate:"omitempty,oneof=day week month all"`
	// Metrics is an optional transformation metrics file included in exports.
	Metrics string `mapstructure:"metrics"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
	Concurrency  int    `mapstructure:"concurrency" validate:"gte=1"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-insights scores a resume against a job posting the way an applicant tracking system would",
	}

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini.api-key-file", geminiKeyFileEnv); err != nil {
		log.Fatalf("binding %s environment variable: %v", geminiKeyFileEnv, err)
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-insights.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analyzer", analyzerHeuristic)
	v.SetDefault("baseline-rate", 15)
	v.SetDefault("export.format", "json")
	v.SetDefault("export.range", "all")
	v.SetDefault("gemini.max-retries", 3)
	v.SetDefault("gemini.concurrency", 3)
}

func initConfig() {
	// A missing .env is fine; it only supplies ATS_* variables for local runs.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// The default config file is optional; an explicit one is not.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	log.Fatal(err)
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Export == nil {
		config.Export = &ExportConfig{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the decoded configuration against its field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
