package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-insights/internal/ai"
	"github.com/spigell/ats-insights/internal/ai/gemini"
	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/export"
	"github.com/spigell/ats-insights/internal/logger"
	"github.com/spigell/ats-insights/internal/metrics"
	"github.com/spigell/ats-insights/internal/resume"
	"github.com/spigell/ats-insights/internal/secrets"
)

const (
	PromptSections = "Show sections"
	PromptFactors  = "Show all factors"
	PromptHistory  = "Show history"
	PromptRefresh  = "Reload files and recalculate"
	PromptExport   = "Export report"
	PromptExit     = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next?",
	Items: []string{PromptSections, PromptFactors, PromptHistory, PromptRefresh, PromptExport, PromptExit},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Calculate the ATS score of a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume file (yaml or json)")
	scoreCmd.Flags().StringP("job", "J", "", "job posting file (yaml or json). Without it keyword relevance is neutral")
	scoreCmd.Flags().String("history", "", "previously exported history or report to continue from")
	scoreCmd.Flags().StringP("export", "e", "", "export format: json, xlsx or pdf")
	scoreCmd.Flags().StringP("output", "o", "", "export path. Default is a temporary file")
	scoreCmd.Flags().String("range", "", "time range of exported history: day, week, month or all")
	scoreCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do next; export when a format is set and exit")

	scoreCmd.MarkFlagRequired("resume")

	viper.BindPFlag("export.format", scoreCmd.Flags().Lookup("export"))
	viper.BindPFlag("export.path", scoreCmd.Flags().Lookup("output"))
	viper.BindPFlag("export.range", scoreCmd.Flags().Lookup("range"))
}

// session is everything the interactive loop works on.
type session struct {
	engine     *ats.Engine
	config     *Config
	logger     *zap.Logger
	resumePath string
	jobPath    string
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ats-insights", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	s := &session{
		config:     config,
		logger:     logger,
		resumePath: cmd.Flag("resume").Value.String(),
		jobPath:    cmd.Flag("job").Value.String(),
	}

	var history ats.History
	if path := cmd.Flag("history").Value.String(); path != "" {
		history, err = export.LoadHistory(path)
		if err != nil {
			logger.Fatal("loading history", zap.Error(err), zap.String("filename", path))
		}
		logger.Info("history loaded", zap.Int("entries", history.Len()))
	}

	analyzer, err := newAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the analyzer", zap.Error(err), zap.String("analyzer", config.Analyzer))
	}

	s.engine = ats.NewEngine(analyzer, ats.WithLogger(logger), ats.WithHistory(history))

	if err := s.calculate(ctx, ats.TriggerInputChanged); err != nil {
		logger.Fatal("calculating the score", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if cmd.Flag("export").Changed || config.Export.Path != "" {
			if err := s.export(); err != nil {
				logger.Fatal("exporting", zap.Error(err))
			}
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptSections:
		return s.printSections()
	case PromptFactors:
		snapshot := s.engine.Latest()
		if snapshot == nil {
			return errors.New("no snapshot calculated")
		}
		printJSON(s.logger, "factors", snapshot.AllFactors)
		return nil
	case PromptHistory:
		history := s.engine.History()
		printJSON(s.logger, "history", history.Rows())
		return nil
	case PromptRefresh:
		if err := s.calculate(ctx, ats.TriggerManualRefresh); err != nil {
			// The previous snapshot stays available after a failed refresh.
			s.logger.Error("recalculating the score", zap.Error(err))
		}
		return nil
	case PromptExport:
		return s.export()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) calculate(ctx context.Context, reason ats.TriggerReason) error {
	snapshot, err := s.engine.TriggerInput(ctx, s.load, reason)
	if err != nil {
		if status := s.engine.Status(); status.Stale {
			s.logger.Warn("showing the previous score as stale",
				zap.Int("score", status.Snapshot.Current),
				zap.Time("calculated", status.Snapshot.Timestamp),
			)
		}
		return err
	}

	history := s.engine.History()
	fields := []zap.Field{
		zap.Int("score", snapshot.Current),
		zap.String("confidence", string(snapshot.Confidence)),
	}
	if prev, ok := history.At(history.Len() - 2); ok {
		fields = append(fields, zap.Int("change", snapshot.Current-prev.Score))
	}
	s.logger.Info("ats score", fields...)

	for _, factor := range snapshot.Factors {
		s.logger.Info("factor",
			zap.String("name", factor.Name),
			zap.Int("impact", factor.Impact),
			zap.String("description", factor.Description),
		)
	}

	return nil
}

// load reads the resume and the optional job posting from disk on every run.
func (s *session) load(context.Context) (*resume.Document, *resume.JobPosting, error) {
	doc, err := resume.LoadDocument(s.resumePath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading resume: %w", err)
	}

	job, err := resume.LoadJobPosting(s.jobPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading job posting: %w", err)
	}

	return doc, job, nil
}

func (s *session) printSections() error {
	snapshot := s.engine.Latest()
	if snapshot == nil {
		return errors.New("no snapshot calculated")
	}

	for _, name := range ats.KnownSections {
		section := snapshot.Sections[name]
		s.logger.Info(name.Title(),
			zap.Int("score", section.Score),
			zap.Float64("weight", section.Weight),
			zap.Int("issues", len(section.Issues)),
		)
		for _, rec := range section.Recommendations {
			s.logger.Info("recommendation", zap.String(logger.FieldSection, string(name)), zap.String("text", rec))
		}
	}

	return nil
}

func (s *session) export() error {
	status := s.engine.Status()
	if status.Snapshot == nil {
		return errors.New("no snapshot calculated")
	}

	src := export.Source{
		Snapshot:     status.Snapshot,
		History:      status.History,
		BaselineRate: s.config.BaselineRate,
	}

	if path := strings.TrimSpace(s.config.Export.Metrics); path != "" {
		m, err := metrics.Load(path)
		if err != nil {
			return fmt.Errorf("loading metrics: %w", err)
		}
		src.Metrics = m
	}

	req := export.Request{
		Format:    export.Format(s.config.Export.Format),
		TimeRange: metrics.ParseWindow(s.config.Export.Range),
	}

	filename, err := export.Write(req, export.Build(req, src, time.Now()), s.config.Export.Path)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			s.logger.Warn("export skipped", zap.Error(err))
			return nil
		}
		return fmt.Errorf("export: %w", err)
	}

	s.logger.Info("report exported", zap.String("filename", filename), zap.String("format", string(req.Format)))
	return nil
}

func newAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (ats.Analyzer, error) {
	switch strings.ToLower(strings.TrimSpace(config.Analyzer)) {
	case analyzerHeuristic, "":
		return ats.NewHeuristicAnalyzer(), nil
	case analyzerGemini:
		return newGeminiAnalyzer(ctx, config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported analyzer: %s", config.Analyzer)
	}
}

func newGeminiAnalyzer(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (ats.Analyzer, error) {
	if cfg == nil {
		return nil, errors.New("gemini configuration is required for the gemini analyzer")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "ATS_GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file or %s)", err, geminiKeyFileEnv)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger.With(zap.Int("ai_retry_attempts", cfg.MaxRetries)),
	})
	if err != nil {
		return nil, err
	}

	classifier := gemini.NewClassifier(generator, logger, cfg.MaxLogLength)

	return ai.NewAnalyzer(classifier, cfg.Concurrency, logger), nil
}

func printJSON(logger *zap.Logger, step string, v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error("encoding output", zap.Error(err), zap.String("output", step))
		return
	}
	logger.Info(step + "\n" + string(pretty))
}
