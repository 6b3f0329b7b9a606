package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"phonolab/adapters/corpus"
	"phonolab/adapters/features"
	"phonolab/domain/simulation"
	"phonolab/internal/aggregator"
	"phonolab/internal/config"
	"phonolab/internal/explain"
	"phonolab/internal/harness"
	"phonolab/internal/report"
	"phonolab/internal/rng"
	simengine "phonolab/internal/simulation"
	"phonolab/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "phonolab",
		Short: "Ensemble scoring, blind validation and Monte Carlo risk for name phonetics research",
	}

	rootCmd.AddCommand(
		newCoherenceCmd(),
		newInfluenceCmd(),
		newContrastCmd(),
		newValidateCmd(),
		newClassifyCmd(),
		newSimulateCmd(),
		newCompareCmd(),
		newRankCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCoherenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coherence [score...]",
		Short: "Classify ensemble coherence from member scores",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseFloats(args)
			if err != nil {
				return err
			}
			metrics, err := aggregator.New().Coherence(scores)
			if err != nil {
				return err
			}
			return printJSON(metrics)
		},
	}
}

func newInfluenceCmd() *cobra.Command {
	var keyScore, ensembleMean, weight float64
	var role string

	cmd := &cobra.Command{
		Use:   "influence",
		Short: "Classify a key member's pull on the ensemble",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			agg := aggregator.New(aggregator.WithRoleWeights(cfg.Weights.Roles, cfg.Weights.Default))
			w := weight
			if w == 0 {
				w = agg.WeightFor(role)
			}
			reportOut, err := agg.KeyMemberInfluence(keyScore, ensembleMean, w)
			if err != nil {
				return err
			}
			return printJSON(reportOut)
		},
	}

	cmd.Flags().Float64Var(&keyScore, "key-score", 0, "Key member score")
	cmd.Flags().Float64Var(&ensembleMean, "ensemble-mean", 0, "Ensemble mean score")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Explicit weight (overrides --role lookup)")
	cmd.Flags().StringVar(&role, "role", "", "Role used for the configured weight lookup")
	_ = cmd.MarkFlagRequired("key-score")
	_ = cmd.MarkFlagRequired("ensemble-mean")

	return cmd
}

func newContrastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contrast [profile-a] [profile-b]",
		Short: "Evaluate a head-to-head matchup between two profile scores",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFloats(args)
			if err != nil {
				return err
			}
			reportOut, err := aggregator.New().PairwiseContrast(values[0], values[1])
			if err != nil {
				return err
			}
			return printJSON(reportOut)
		},
	}
}

func newValidateCmd() *cobra.Command {
	var splitRatio float64
	var folds int
	var seed int64
	var explainerName, format string

	cmd := &cobra.Command{
		Use:   "validate [corpus-file]",
		Short: "Run blind validation against a labeled corpus (CSV or Excel)",
		Long: `Run blind validation against a labeled corpus.

The corpus file needs a header row; first column is the entity name,
last column the binary outcome label, the columns in between numeric
features.

Example: phonolab validate rosters.csv --seed 42 --folds 5 --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, samples, err := corpus.NewFileReader(args[0]).Read(cmd.Context())
			if err != nil {
				return err
			}

			randomness := rng.New()
			var explainer ports.FeatureExplainer
			if explainerName == "permutation" {
				explainer = explain.NewPermutation(randomness, seed, 5)
			} else {
				explainer = explain.NewMagnitude()
			}

			h := harness.New(schema, randomness, explainer)
			opts := harness.DefaultOptions()
			opts.SplitRatio = splitRatio
			opts.CVFolds = folds
			opts.Seed = seed

			validation, err := h.Validate(cmd.Context(), samples, opts)
			if err != nil {
				return err
			}

			switch format {
			case "markdown":
				fmt.Println(report.ValidationMarkdown(validation))
				return nil
			case "html":
				fmt.Println(report.ToHTML(report.ValidationMarkdown(validation)))
				return nil
			default:
				return printJSON(validation)
			}
		},
	}

	cmd.Flags().Float64Var(&splitRatio, "split-ratio", 0.8, "Training partition fraction")
	cmd.Flags().IntVar(&folds, "folds", 5, "Stratified cross-validation folds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws a fresh one)")
	cmd.Flags().StringVar(&explainerName, "explainer", "magnitude", "Feature explainer: magnitude or permutation")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown or html")

	return cmd
}

func newClassifyCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "classify [corpus-file] [name...]",
		Short: "Validate against a corpus, then classify named entities from it",
		Long: `Validate against a corpus, then classify named entities from it.

The model is fitted during validation; each requested name is looked up
in the corpus and scored blind against that model.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, samples, err := corpus.NewFileReader(args[0]).Read(cmd.Context())
			if err != nil {
				return err
			}

			vectors := make(map[string][]float64, len(samples))
			for _, s := range samples {
				vectors[s.Name] = s.Features
			}
			producer := features.NewStatic(schema, vectors)

			h := harness.New(schema, rng.New(), nil)
			opts := harness.DefaultOptions()
			opts.Seed = seed
			if _, err := h.Validate(cmd.Context(), samples, opts); err != nil {
				return err
			}

			type classified struct {
				Name   string      `json:"name"`
				Result interface{} `json:"result"`
			}
			out := make([]classified, 0, len(args)-1)
			for _, name := range args[1:] {
				fv, err := producer.Produce(cmd.Context(), name)
				if err != nil {
					return err
				}
				result, err := h.Classify(fv.Values)
				if err != nil {
					return err
				}
				out = append(out, classified{Name: name, Result: result})
			}
			return printJSON(out)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws a fresh one)")

	return cmd
}

func newSimulateCmd() *cobra.Command {
	var volatility float64
	var trials int
	var seed int64
	var thresholds []float64
	var format string

	cmd := &cobra.Command{
		Use:   "simulate [point-estimate]",
		Short: "Resample a point estimate into a risk distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			estimate, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid point estimate: %w", err)
			}

			engine := newEngine(seed)
			result, err := engine.Simulate(cmd.Context(), estimate, volatility, trials, thresholds...)
			if err != nil {
				return err
			}

			switch format {
			case "markdown":
				fmt.Println(report.SimulationMarkdown(result))
				return nil
			case "html":
				fmt.Println(report.ToHTML(report.SimulationMarkdown(result)))
				return nil
			default:
				return printJSON(result)
			}
		},
	}

	cmd.Flags().Float64Var(&volatility, "volatility", 0.3, "Assumed volatility in [0,1]")
	cmd.Flags().IntVar(&trials, "trials", 10000, "Monte Carlo trials")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws a fresh one)")
	cmd.Flags().Float64SliceVar(&thresholds, "thresholds", nil, "Crossing thresholds (default 0,50,100)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown or html")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var volA, volB float64
	var trials int
	var seed int64

	cmd := &cobra.Command{
		Use:   "compare [estimate-a] [estimate-b]",
		Short: "Resample two estimates head to head",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFloats(args)
			if err != nil {
				return err
			}
			engine := newEngine(seed)
			result, err := engine.Compare(cmd.Context(),
				simulation.Estimate{Name: "A", PointEstimate: values[0], Volatility: volA},
				simulation.Estimate{Name: "B", PointEstimate: values[1], Volatility: volB},
				trials)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().Float64Var(&volA, "vol-a", 0.3, "Volatility of estimate A")
	cmd.Flags().Float64Var(&volB, "vol-b", 0.3, "Volatility of estimate B")
	cmd.Flags().IntVar(&trials, "trials", 10000, "Monte Carlo trials per side")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws a fresh one)")

	return cmd
}

func newRankCmd() *cobra.Command {
	var trials int
	var seed int64
	var volatility float64

	cmd := &cobra.Command{
		Use:   "rank [name=estimate ...]",
		Short: "Rank named estimates by resampled mean",
		Long: `Rank named estimates by resampled mean.

Example: phonolab rank falcons=72.5 ravens=68.0 jets=61.2 --volatility 0.25`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			estimates := make([]simulation.Estimate, 0, len(args))
			for _, arg := range args {
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("expected name=estimate, got %q", arg)
				}
				value, err := strconv.ParseFloat(parts[1], 64)
				if err != nil {
					return fmt.Errorf("invalid estimate for %s: %w", parts[0], err)
				}
				estimates = append(estimates, simulation.Estimate{
					Name:          parts[0],
					PointEstimate: value,
					Volatility:    volatility,
				})
			}

			ranked, err := newEngine(seed).Rank(cmd.Context(), estimates, trials)
			if err != nil {
				return err
			}
			return printJSON(ranked)
		},
	}

	cmd.Flags().Float64Var(&volatility, "volatility", 0.3, "Volatility applied to every estimate")
	cmd.Flags().IntVar(&trials, "trials", 10000, "Monte Carlo trials per estimate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws a fresh one)")

	return cmd
}

func newEngine(seed int64) *simengine.Engine {
	opts := []simengine.Option{}
	if seed != 0 {
		opts = append(opts, simengine.WithSeed(seed))
	}
	return simengine.New(rng.New(), opts...)
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", arg, err)
		}
		values[i] = v
	}
	return values, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
