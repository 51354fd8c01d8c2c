package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
	"github.com/YuminosukeSato/arcgo/pkg/log"
	"github.com/YuminosukeSato/arcgo/verification"
)

var rootCmd = &cobra.Command{
	Use:   "faceval",
	Short: "Cross-validated face-verification evaluation over pair scores",
	Long: `faceval evaluates face-verification accuracy from precomputed pair scores.

Scores are read from a CSV file with one pair per line:

    <score>,<label>

where label is 1 for a same-identity pair and 0 otherwise. Thresholds are
searched per fold on the other folds only, so the reported accuracy is free
of threshold overfitting.`,
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the k-fold threshold search over a pair-score file",
	Long: `Run the k-fold threshold search over a pair-score file.

Examples:

  # LFW-style 10-fold evaluation over cosine scores
  faceval eval --scores scores.csv

  # Euclidean-distance scores (lower = same), shuffled folds
  faceval eval --scores scores.csv --method euclidean --shuffle

  # Settings from a YAML config, folds overridden on the command line
  faceval eval --scores scores.csv --config faceval.yaml --folds 5`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().String("scores", "", "Path to the pair-score CSV file (required)")
	evalCmd.Flags().String("config", "", "Path to a YAML config file")
	evalCmd.Flags().Int("folds", 10, "Number of cross-validation folds")
	evalCmd.Flags().String("method", "cosine", "Scoring method the scores were computed with (cosine or euclidean)")
	evalCmd.Flags().Bool("shuffle", false, "Randomize the fold assignment")
	evalCmd.Flags().Int("seed", 42, "Seed for the shuffled fold assignment")
	evalCmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = evalCmd.MarkFlagRequired("scores")
}

func runEval(cmd *cobra.Command, _ []string) error {
	scoresPath, _ := cmd.Flags().GetString("scores")
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	log.SetLogger(log.NewZerologLogger(os.Stderr, log.ToLevel(logLevel)))

	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags set on the command line override the config file.
	if cmd.Flags().Changed("folds") {
		cfg.Folds, _ = cmd.Flags().GetInt("folds")
	}
	if cmd.Flags().Changed("method") {
		cfg.Method, _ = cmd.Flags().GetString("method")
	}
	if cmd.Flags().Changed("shuffle") {
		cfg.Shuffle, _ = cmd.Flags().GetBool("shuffle")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt("seed")
	}

	method, err := verification.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}

	scores, same, err := readScoresFile(scoresPath)
	if err != nil {
		return err
	}

	ev, err := verification.NewEvaluator(
		verification.WithMethod(method),
		verification.WithFoldCount(cfg.Folds),
		verification.WithShuffle(cfg.Shuffle),
		verification.WithSeed(cfg.Seed),
	)
	if err != nil {
		return err
	}

	res, err := ev.EvaluateScores(scores, same)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), res, len(scores))
	return nil
}

// readScoresFile parses the "<score>,<label>" CSV.
func readScoresFile(path string) ([]float64, []bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "faceval: open scores file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	var scores []float64
	var same []bool
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "faceval: parse scores file %s", path)
		}
		line++

		score, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, errors.Newf("faceval: %s line %d: bad score %q", path, line, record[0])
		}
		label, err := strconv.Atoi(record[1])
		if err != nil || (label != 0 && label != 1) {
			return nil, nil, errors.Newf("faceval: %s line %d: bad label %q (want 0 or 1)", path, line, record[1])
		}

		scores = append(scores, score)
		same = append(same, label == 1)
	}

	if len(scores) == 0 {
		return nil, nil, errors.Newf("faceval: %s: no scores", path)
	}
	return scores, same, nil
}

func printResult(w io.Writer, res *verification.Result, pairs int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FOLD\tACCURACY\tTHRESHOLD")
	fmt.Fprintln(tw, "----\t--------\t---------")
	for i := range res.FoldAccuracies {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\n", i, res.FoldAccuracies[i], res.FoldThresholds[i])
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d pairs, %s scores\n", pairs, res.Method)
	fmt.Fprintf(w, "accuracy  %.4f ± %.4f\n", res.MeanAccuracy, res.StdAccuracy)
	fmt.Fprintf(w, "threshold %.4f\n", res.MeanThreshold)
}
