// Package main provides a one-shot CLI for scoring a single matchup.
package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gameline/internal/config"
	"github.com/yourusername/gameline/internal/logger"
	"github.com/yourusername/gameline/internal/predict"
	"github.com/yourusername/gameline/internal/reference"
)

var (
	configFile string
	sport      string
	homeAbbr   string
	awayAbbr   string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().StringVarP(&sport, "sport", "s", "nfl", "Sport identifier (nfl, nba)")
	rootCmd.Flags().StringVar(&homeAbbr, "home", "", "Home team abbreviation")
	rootCmd.Flags().StringVar(&awayAbbr, "away", "", "Away team abbreviation")
	_ = rootCmd.MarkFlagRequired("home")
	_ = rootCmd.MarkFlagRequired("away")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a single matchup",
	Long:  `Runs the ensemble scorer on one matchup and prints the consensus prediction and betting line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		config.ApplyEstimatorDefaults(cfg)
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	library := reference.DefaultLibrary()
	sportKey := strings.ToLower(sport)

	home, ok := library.Team(sportKey, homeAbbr)
	if !ok {
		return fmt.Errorf("unknown home team %q for sport %q", homeAbbr, sportKey)
	}
	away, ok := library.Team(sportKey, awayAbbr)
	if !ok {
		return fmt.Errorf("unknown away team %q for sport %q", awayAbbr, sportKey)
	}

	base := predict.DefaultEngineConfig()
	base.ConfidenceScale = cfg.Prediction.ConfidenceScale
	base.ConfidenceMax = cfg.Prediction.ConfidenceMax
	base.SpreadScale = cfg.Prediction.SpreadScale
	base.BaselineTotals = cfg.Prediction.BaselineTotals

	specs := make([]predict.EstimatorSpec, 0, len(cfg.Ensemble.Estimators))
	for _, est := range cfg.Ensemble.Estimators {
		specs = append(specs, predict.EstimatorSpec{
			Name:            est.Name,
			ConfidenceScale: est.ConfidenceScale,
			SpreadScale:     est.SpreadScale,
			AccuracyPct:     est.AccuracyPct,
		})
	}

	ensemble, err := predict.NewEnsemble(base, specs, predict.DefaultPinned(), library, cfg.Ensemble.HighEdgeMinConfidence, appLog)
	if err != nil {
		return fmt.Errorf("failed to build ensemble: %w", err)
	}

	result := ensemble.Score(sportKey, home, away)

	formatter := predict.NewLineFormatter(cfg.Lines.Sportsbooks, cfg.Lines.MoneylineCeiling)
	line, card := formatter.FormatMatchup(result)

	fmt.Printf("%s at %s (%s)\n\n", away.Name, home.Name, strings.ToUpper(sport))
	for _, est := range result.Estimators {
		fmt.Printf("  %-8s  %-4s  conf %.2f  spread %+.1f  total %.1f  (%s)\n",
			est.Name, est.Prediction.Winner, est.Prediction.Confidence,
			est.Prediction.Spread, est.Prediction.Total, est.AccuracyLabel)
	}
	fmt.Printf("\nConsensus: %s  conf %.2f  spread %+.1f  total %.1f\n",
		result.Consensus.Winner, result.Consensus.Confidence,
		result.Consensus.Spread, result.Consensus.Total)
	fmt.Printf("Line: %s %s / %s %s  ML %s/%s  O/U %s  @ %s\n",
		home.Abbreviation, line.SpreadHome, away.Abbreviation, line.SpreadAway,
		line.MoneylineHome, line.MoneylineAway, line.Total.StringFixed(1), line.Sportsbook)
	fmt.Printf("%s\n", card)

	return nil
}
