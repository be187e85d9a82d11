package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-insights/internal/export"
	"github.com/spigell/ats-insights/internal/logger"
	"github.com/spigell/ats-insights/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Summarize resume transformation metrics and predict the interview rate",
	Run: func(cmd *cobra.Command, _ []string) {
		runMetrics(cmd)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringP("file", "f", "", "transformation metrics file (yaml or json)")
	metricsCmd.Flags().StringP("window", "w", "all", "timeline window: day, week, month or all")
	metricsCmd.Flags().Float64P("baseline", "b", 15, "baseline interview rate in percent")

	metricsCmd.MarkFlagRequired("file")

	viper.BindPFlag("baseline-rate", metricsCmd.Flags().Lookup("baseline"))
}

func runMetrics(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	path := cmd.Flag("file").Value.String()
	m, err := metrics.Load(path)
	if err != nil {
		logger.Fatal("loading metrics", zap.Error(err), zap.String("filename", path))
	}

	window := metrics.ParseWindow(cmd.Flag("window").Value.String())
	report := export.BuildMetricsReport(m, window, config.BaselineRate, time.Now())

	printJSON(logger, "categories", report.Categories)
	printJSON(logger, "timeline", report.Timeline)
	logger.Info("total improvement",
		zap.Int("points", report.TotalImprovement),
		zap.String("window", string(window)),
	)
	printJSON(logger, "comparisons", report.Comparisons)
	printJSON(logger, "by status", report.ByStatus)

	logger.Info("interview rate",
		zap.Float64("baseline", report.Prediction.BaselineRate),
		zap.Float64("predicted", report.Prediction.PredictedRate),
	)
	for _, factor := range report.Prediction.ContributingFactors {
		logger.Info("contributing factor",
			zap.String("name", factor.Name),
			zap.Float64("impact", factor.Impact),
			zap.String("description", factor.Description),
		)
	}
}
